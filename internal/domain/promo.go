package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromoCode struct {
	ID           int64
	Code         string
	BonusPercent int
	IsActive     bool
	MaxUses      *int // nil = unlimited
	CurrentUses  int
	ExpiresAt    *time.Time
	CreatedAt    time.Time
}

// Expired reports whether the code's expiry, if set, is in the past.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Exhausted reports whether the usage cap, if set, has been reached.
func (p *PromoCode) Exhausted() bool {
	return p.MaxUses != nil && p.CurrentUses >= *p.MaxUses
}

// PromoUsage is the durable proof that a user received their one-time
// bonus. At most one row exists per user.
type PromoUsage struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PromoCodeID int64
	BonusAmount decimal.Decimal
	UsedAt      time.Time
}

// PromoValidation is the result of checking a code against the registry.
type PromoValidation struct {
	Valid        bool
	Reason       error // one of the ErrPromo* sentinels when Valid is false
	PromoID      int64
	BonusPercent int
}

// BonusResult describes an applied deposit bonus.
type BonusResult struct {
	BonusPercent int
	BonusAmount  decimal.Decimal
	TotalAmount  decimal.Decimal
	NewBalance   decimal.Decimal
}
