package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type setBalanceRequest struct {
	UserID  uuid.UUID       `json:"user_id" validate:"required"`
	Balance decimal.Decimal `json:"balance"`
}

// setBalance is the privileged overwrite path. It bypasses the
// non-negative invariant on purpose; access is gated by RequireAdmin.
func (h *Handler) setBalance(w http.ResponseWriter, r *http.Request) {
	var req setBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	balance, err := h.ledger.SetBalance(r.Context(), req.UserID, req.Balance)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{Status: "ok", Balance: balance})
}

type multiplyBalanceRequest struct {
	UserID        uuid.UUID       `json:"user_id" validate:"required"`
	MultiplyTimes decimal.Decimal `json:"multiply_times"`
}

func (h *Handler) multiplyBalance(w http.ResponseWriter, r *http.Request) {
	var req multiplyBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	balance, err := h.ledger.Multiply(r.Context(), req.UserID, req.MultiplyTimes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{Status: "ok", Balance: balance})
}
