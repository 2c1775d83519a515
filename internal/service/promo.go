package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/domain"
)

// PromoService owns promo code validation and is the only writer of
// promo usage records.
type PromoService struct {
	promos PromoStore
}

func NewPromoService(promos PromoStore) *PromoService {
	return &PromoService{promos: promos}
}

// NormalizeCode upper-cases and trims a user-supplied code. All lookups
// go through the normalized form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a code against the registry. Business rejections come
// back inside the PromoValidation; only storage faults are returned as
// errors.
func (s *PromoService) Validate(ctx context.Context, code string) (domain.PromoValidation, error) {
	promo, err := s.promos.GetActiveByCode(ctx, NormalizeCode(code))
	if errors.Is(err, domain.ErrPromoNotFound) {
		return domain.PromoValidation{Reason: domain.ErrPromoNotFound}, nil
	}
	if err != nil {
		return domain.PromoValidation{}, err
	}

	if promo.Expired(time.Now()) {
		return domain.PromoValidation{Reason: domain.ErrPromoExpired}, nil
	}
	if promo.Exhausted() {
		return domain.PromoValidation{Reason: domain.ErrPromoUsageLimit}, nil
	}

	return domain.PromoValidation{
		Valid:        true,
		PromoID:      promo.ID,
		BonusPercent: promo.BonusPercent,
	}, nil
}

// CreateCode registers a new promo code. bonusPercent must be in
// (0, 100].
func (s *PromoService) CreateCode(ctx context.Context, code string, bonusPercent int, maxUses *int, expiresAt *time.Time) (domain.PromoCode, error) {
	if bonusPercent <= 0 || bonusPercent > 100 {
		return domain.PromoCode{}, domain.ErrInvalidBonusPercent
	}
	return s.promos.Create(ctx, NormalizeCode(code), bonusPercent, maxUses, expiresAt)
}

func (s *PromoService) Deactivate(ctx context.Context, code string) error {
	return s.promos.Deactivate(ctx, NormalizeCode(code))
}

// AttachForRegistration validates a code for a new registration and
// counts the use. Returns the normalized code and its bonus percent.
func (s *PromoService) AttachForRegistration(ctx context.Context, code string) (string, int, error) {
	validation, err := s.Validate(ctx, code)
	if err != nil {
		return "", 0, err
	}
	if !validation.Valid {
		return "", 0, validation.Reason
	}
	normalized := NormalizeCode(code)
	// The attach itself consumes a use; the financial bonus comes later,
	// at the first deposit.
	if err := s.promos.IncrementUsage(ctx, normalized); err != nil {
		return "", 0, err
	}
	return normalized, validation.BonusPercent, nil
}

// ApplyRegistrationBonus grants the one-time bonus tied to the code the
// user registered with.
func (s *PromoService) ApplyRegistrationBonus(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error) {
	if !depositAmount.IsPositive() {
		return domain.BonusResult{}, domain.ErrInvalidAmount
	}
	return s.promos.ApplyRegistrationBonus(ctx, userID, NormalizeCode(code), depositAmount)
}

// ApplyAdHocPromo grants a bonus for a code supplied at deposit time.
// The code is re-validated by the store and the lifetime one-bonus rule
// still applies.
func (s *PromoService) ApplyAdHocPromo(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error) {
	if !depositAmount.IsPositive() {
		return domain.BonusResult{}, domain.ErrInvalidAmount
	}
	return s.promos.ApplyDepositPromo(ctx, userID, NormalizeCode(code), depositAmount)
}
