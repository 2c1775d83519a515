package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/middleware"
)

type balanceResponse struct {
	Status  string          `json:"status"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	balance, err := h.ledger.GetBalance(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{Status: "ok", Balance: balance})
}

type depositRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	PromoCode string          `json:"promo_code"`
}

type depositPromoResponse struct {
	Status       string          `json:"status"`
	Balance      decimal.Decimal `json:"balance"`
	BonusPercent int             `json:"bonus_percent"`
	BonusAmount  decimal.Decimal `json:"bonus_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var req depositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.PromoCode != "" {
		result, err := h.ledger.DepositWithPromo(r.Context(), identity.UserID, req.PromoCode, req.Amount)
		if err != nil {
			respondError(w, err)
			return
		}
		h.notifyDeposit(r, identity.Email, result.TotalAmount)
		respondJSON(w, http.StatusOK, depositPromoResponse{
			Status:       "ok",
			Balance:      result.NewBalance,
			BonusPercent: result.BonusPercent,
			BonusAmount:  result.BonusAmount,
			TotalAmount:  result.TotalAmount,
		})
		return
	}

	balance, err := h.ledger.Deposit(r.Context(), identity.UserID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	h.notifyDeposit(r, identity.Email, req.Amount)
	respondJSON(w, http.StatusOK, balanceResponse{Status: "ok", Balance: balance})
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := h.ledger.Withdraw(r.Context(), identity.UserID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse{Status: "ok", Balance: balance})
}

type updateBalanceRequest struct {
	AmountChange decimal.Decimal `json:"amount_change"`
}

type updateBalanceResponse struct {
	Status  string          `json:"status"`
	Balance decimal.Decimal `json:"balance"`
	Change  decimal.Decimal `json:"change"`
}

// updateBalance applies a signed delta (trading result, correction).
func (h *Handler) updateBalance(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var req updateBalanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	balance, err := h.ledger.ApplyDelta(r.Context(), identity.UserID, req.AmountChange)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updateBalanceResponse{Status: "ok", Balance: balance, Change: req.AmountChange})
}

type initialDepositResponse struct {
	Status         string          `json:"status"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

func (h *Handler) getInitialDeposit(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	initial, err := h.ledger.GetInitialDeposit(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, initialDepositResponse{Status: "ok", InitialDeposit: initial})
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := h.ledger.History(r.Context(), identity.UserID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "transactions": txs})
}

type withdrawToOperatorRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CardNumber string          `json:"card_number" validate:"required"`
	FullName   string          `json:"full_name" validate:"required"`
}

// sendWithdrawRequest forwards a withdrawal request to the operators.
// It moves no money; an operator settles it out of band.
func (h *Handler) sendWithdrawRequest(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())

	var req withdrawToOperatorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	if h.notifier != nil {
		h.notifier.WithdrawRequest(r.Context(), identity.Email, req.Amount, req.CardNumber, req.FullName)
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "withdrawal request sent to operator",
	})
}

func (h *Handler) notifyDeposit(r *http.Request, email string, amount decimal.Decimal) {
	if h.notifier != nil {
		h.notifier.DepositInvoice(r.Context(), email, amount)
	}
}
