package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/domain"
)

// LedgerService is the mutation surface request handlers call. Each
// intent maps to one store call; deposit-with-promo additionally goes
// through the promo service.
type LedgerService struct {
	ledger LedgerStore
	promo  *PromoService
}

func NewLedgerService(ledger LedgerStore, promo *PromoService) *LedgerService {
	return &LedgerService{ledger: ledger, promo: promo}
}

func (s *LedgerService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.ledger.GetBalance(ctx, userID)
}

// Deposit credits amount and, on the user's first deposit, captures it
// as the initial deposit marker.
func (s *LedgerService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	newBalance, err := s.ledger.Deposit(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	s.captureInitial(ctx, userID, amount)
	return newBalance, nil
}

// DepositWithPromo credits a deposit boosted by a promo code. A code
// matching the user's registration attachment takes the registration
// bonus path; any other code is treated as an ad-hoc deposit-time code
// and re-validated against the registry.
func (s *LedgerService) DepositWithPromo(ctx context.Context, userID uuid.UUID, code string, amount decimal.Decimal) (domain.BonusResult, error) {
	if !amount.IsPositive() {
		return domain.BonusResult{}, domain.ErrInvalidAmount
	}
	result, err := s.promo.ApplyRegistrationBonus(ctx, userID, code, amount)
	if errors.Is(err, domain.ErrPromoCodeMismatch) {
		result, err = s.promo.ApplyAdHocPromo(ctx, userID, code, amount)
	}
	if err != nil {
		return domain.BonusResult{}, err
	}
	s.captureInitial(ctx, userID, amount)
	return result, nil
}

// Withdraw debits amount. Fails with domain.ErrInsufficientFunds when
// the balance is smaller than amount.
func (s *LedgerService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return s.ledger.Withdraw(ctx, userID, amount)
}

// ApplyDelta applies a signed adjustment, rejecting any delta that
// would drive the balance negative.
func (s *LedgerService) ApplyDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if delta.IsZero() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return s.ledger.ApplyDelta(ctx, userID, delta)
}

// SetBalance overwrites the balance unconditionally. Privileged: it is
// the administrative escape hatch and skips the non-negative check.
func (s *LedgerService) SetBalance(ctx context.Context, userID uuid.UUID, newBalance decimal.Decimal) (decimal.Decimal, error) {
	return s.ledger.SetBalance(ctx, userID, newBalance)
}

// Multiply scales the balance by factor through the privileged set
// path. Administrative, like SetBalance.
func (s *LedgerService) Multiply(ctx context.Context, userID uuid.UUID, factor decimal.Decimal) (decimal.Decimal, error) {
	if factor.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.ledger.SetBalance(ctx, userID, balance.Mul(factor))
}

func (s *LedgerService) GetInitialDeposit(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return s.ledger.GetInitialBalance(ctx, userID)
}

func (s *LedgerService) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.ledger.Transactions(ctx, userID, limit)
}

// captureInitial records the first deposit marker. The deposit itself
// has already committed, so a capture failure is logged, not surfaced:
// the next deposit retries the idempotent capture.
func (s *LedgerService) captureInitial(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) {
	if _, err := s.ledger.CaptureInitialDeposit(ctx, userID, amount); err != nil {
		slog.Warn("failed to capture initial deposit", "user_id", userID, "error", err)
	}
}
