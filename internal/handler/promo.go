package handler

import (
	"net/http"
	"time"

	"github.com/finova-trade/wallet/internal/service"
)

type validatePromoRequest struct {
	Code string `json:"code" validate:"required"`
}

type validatePromoResponse struct {
	Valid        bool   `json:"valid"`
	Error        string `json:"error,omitempty"`
	BonusPercent int    `json:"bonus_percent,omitempty"`
	PromoID      int64  `json:"promo_id,omitempty"`
}

func (h *Handler) validatePromo(w http.ResponseWriter, r *http.Request) {
	var req validatePromoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	validation, err := h.promo.Validate(r.Context(), req.Code)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := validatePromoResponse{Valid: validation.Valid}
	if validation.Valid {
		resp.BonusPercent = validation.BonusPercent
		resp.PromoID = validation.PromoID
	} else {
		resp.Error = validation.Reason.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

type createPromoRequest struct {
	Code         string     `json:"code" validate:"required,max=50"`
	BonusPercent int        `json:"bonus_percent" validate:"required"`
	MaxUses      *int       `json:"max_uses"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

func (h *Handler) createPromo(w http.ResponseWriter, r *http.Request) {
	var req createPromoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	promo, err := h.promo.CreateCode(r.Context(), req.Code, req.BonusPercent, req.MaxUses, req.ExpiresAt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"status":        "ok",
		"code":          promo.Code,
		"bonus_percent": promo.BonusPercent,
	})
}

type deactivatePromoRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) deactivatePromo(w http.ResponseWriter, r *http.Request) {
	var req deactivatePromoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	if err := h.promo.Deactivate(r.Context(), req.Code); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"code":   service.NormalizeCode(req.Code),
	})
}
