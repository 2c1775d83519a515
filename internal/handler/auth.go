package handler

import (
	"net/http"

	"github.com/finova-trade/wallet/internal/middleware"
)

type registerRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	PromoCode string `json:"promo_code"`
}

type registerResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PromoCode    string `json:"promo_code,omitempty"`
	BonusPercent int    `json:"bonus_percent,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.PromoCode)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := registerResponse{ID: user.ID.String(), Email: user.Email}
	if user.PromoCodeUsed != nil {
		resp.PromoCode = *user.PromoCodeUsed
		resp.BonusPercent = user.RegistrationPromoPercent
	}
	respondJSON(w, http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, h.cfg.TokenTTL, user.ID, user.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}
