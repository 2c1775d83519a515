package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/domain"
)

// LedgerStore is the persistence surface the ledger service needs. The
// implementation must make every mutation atomic per user against
// concurrent callers.
type LedgerStore interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	ApplyDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, userID uuid.UUID, newBalance decimal.Decimal) (decimal.Decimal, error)
	CaptureInitialDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	GetInitialBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error)
}

// PromoStore is the persistence surface of the promo code registry and
// the bonus application paths.
type PromoStore interface {
	GetActiveByCode(ctx context.Context, code string) (domain.PromoCode, error)
	Create(ctx context.Context, code string, bonusPercent int, maxUses *int, expiresAt *time.Time) (domain.PromoCode, error)
	IncrementUsage(ctx context.Context, code string) error
	Deactivate(ctx context.Context, code string) error
	ApplyRegistrationBonus(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error)
	ApplyDepositPromo(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error)
}

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string, promoCode *string, promoPercent int) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
