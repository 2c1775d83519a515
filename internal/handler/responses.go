package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/finova-trade/wallet/internal/domain"
)

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// respondError maps domain errors to HTTP statuses. Anything not a
// known business rejection is a storage fault and becomes a 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidBonusPercent),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrPromoNotFound),
		errors.Is(err, domain.ErrPromoExpired),
		errors.Is(err, domain.ErrPromoUsageLimit),
		errors.Is(err, domain.ErrPromoCodeMismatch),
		errors.Is(err, domain.ErrBonusAlreadyRedeemed):
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrDuplicatePromoCode):
		respondJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return false
	}
	return true
}
