package vitals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Handler struct {
	service ServiceInterface
	logger  zerolog.Logger
}

func NewHandler(service ServiceInterface, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) CreateVital(w http.ResponseWriter, r *http.Request) {
	var req VitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	vital, err := h.service.CreateVital(r.Context(), req)
	if err != nil {
		h.handleError(w, err, "failed to create vital")
		return
	}
	respondJSON(w, http.StatusCreated, vital)
}

func (h *Handler) CreateVitalsBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []VitalRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	count, err := h.service.CreateVitalsBulk(r.Context(), reqs)
	if err != nil {
		h.handleError(w, err, "failed to create vitals")
		return
	}
	respondJSON(w, http.StatusCreated, BulkResponse{InsertedCount: count})
}

func (h *Handler) ListVitals(w http.ResponseWriter, r *http.Request) {
	vitals, err := h.service.ListVitals(r.Context(), mux.Vars(r)["patientId"])
	if err != nil {
		h.handleError(w, err, "failed to list vitals")
		return
	}
	respondJSON(w, http.StatusOK, vitals)
}

func (h *Handler) UpdateVital(w http.ResponseWriter, r *http.Request) {
	var req VitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	if err := h.service.UpdateVital(r.Context(), mux.Vars(r)["vitalId"], req); err != nil {
		h.handleError(w, err, "failed to update vital")
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *Handler) DeleteVital(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVital(r.Context(), mux.Vars(r)["vitalId"]); err != nil {
		h.handleError(w, err, "failed to delete vital")
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *Handler) handleError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrVitalNotFound):
		respondError(w, http.StatusNotFound, ErrVitalNotFound.Error())
	case errors.Is(err, ErrInvalidVitalID):
		respondError(w, http.StatusBadRequest, ErrInvalidVitalID.Error())
	case errors.Is(err, ErrMissingPatientID),
		errors.Is(err, ErrMissingTimestamp),
		errors.Is(err, ErrTemperatureOutOfRange),
		errors.Is(err, ErrNegativeMeasurement):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg(message)
		respondError(w, http.StatusInternalServerError, message)
	}
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"detail": message})
}
