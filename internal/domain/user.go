package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string

	Balance           decimal.Decimal
	InitialBalance    decimal.Decimal
	HasInitialDeposit bool

	// Promo attachment captured at registration time. PromoCodeUsed is nil
	// when the user registered without a code.
	PromoCodeUsed            *string
	RegistrationPromoPercent int
	PromoBonusReceived       decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BonusRedeemed reports whether the one-time registration bonus has
// already been credited to this user.
func (u *User) BonusRedeemed() bool {
	return u.PromoBonusReceived.IsPositive()
}
