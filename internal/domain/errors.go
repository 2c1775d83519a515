package domain

import "errors"

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPromoNotFound        = errors.New("promo code not found")
	ErrPromoExpired         = errors.New("promo code expired")
	ErrPromoUsageLimit      = errors.New("promo code usage limit reached")
	ErrPromoCodeMismatch    = errors.New("promo code does not match registration")
	ErrBonusAlreadyRedeemed = errors.New("registration bonus already redeemed")
	ErrDuplicatePromoCode   = errors.New("promo code already exists")
	ErrInvalidBonusPercent  = errors.New("bonus percent must be in (0, 100]")
)
