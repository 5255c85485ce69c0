package export

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
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

func (h *Handler) ExportVitals(w http.ResponseWriter, r *http.Request) {
	wb, err := h.service.ExportVitals(r.Context(), mux.Vars(r)["patientId"])
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, patient.ErrPatientNotFound.Error())
			return
		}
		h.logger.Error().Err(err).Msg("failed to export vitals")
		respondError(w, http.StatusInternalServerError, "failed to export vitals")
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+wb.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(wb.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(wb.Content)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"detail": message})
}
