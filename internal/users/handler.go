package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type Handler struct {
	service ServiceInterface
	logger  zerolog.Logger
}

func NewHandler(service ServiceInterface, logger zerolog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyRegistered),
			errors.Is(err, ErrMissingFullName),
			errors.Is(err, ErrMissingEmail),
			errors.Is(err, ErrMissingPassword):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("signup failed")
			respondError(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error())
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrMissingEmail):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("login failed")
			respondError(w, http.StatusInternalServerError, "failed to log in")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"detail": message})
}
