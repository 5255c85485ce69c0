package patient

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

func (h *Handler) NextPatientID(w http.ResponseWriter, r *http.Request) {
	nextID, err := h.service.NextPatientID(r.Context())
	if err != nil {
		h.handleError(w, err, "failed to allocate patient id")
		return
	}
	respondJSON(w, http.StatusOK, NextIDResponse{NextID: nextID})
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	patient, err := h.service.CreatePatient(r.Context(), req)
	if err != nil {
		h.handleError(w, err, "failed to create patient")
		return
	}

	respondJSON(w, http.StatusCreated, patient)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.ListPatients(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.handleError(w, err, "failed to list patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.GetPatient(r.Context(), mux.Vars(r)["patientId"])
	if err != nil {
		h.handleError(w, err, "failed to get patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

func (h *Handler) handleError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrPatientNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidPatientID),
		errors.Is(err, ErrMissingUserID),
		errors.Is(err, ErrMissingGender),
		errors.Is(err, ErrMissingMonitoringMethod),
		errors.Is(err, ErrNegativeAge),
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
