package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/domain"
)

const pgUniqueViolation = "23505"

type PromoRepository struct {
	db *pgxpool.Pool
}

func NewPromoRepository(db *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{db: db}
}

const promoColumns = `id, code, bonus_percent, is_active, max_uses, current_uses, expires_at, created_at`

// GetActiveByCode looks up an active promo code. The caller passes the
// already upper-cased code.
func (r *PromoRepository) GetActiveByCode(ctx context.Context, code string) (domain.PromoCode, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = $1 AND is_active = TRUE`,
		code,
	)
	return scanPromo(row)
}

// Create inserts a new promo code. Fails with
// domain.ErrDuplicatePromoCode when the code already exists.
func (r *PromoRepository) Create(ctx context.Context, code string, bonusPercent int, maxUses *int, expiresAt *time.Time) (domain.PromoCode, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO promo_codes (code, bonus_percent, max_uses, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+promoColumns,
		code, bonusPercent, maxUses, expiresAt,
	)
	promo, err := scanPromo(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.PromoCode{}, domain.ErrDuplicatePromoCode
		}
		return domain.PromoCode{}, fmt.Errorf("create promo: %w", err)
	}
	return promo, nil
}

// IncrementUsage bumps the code's usage counter by one. It has no
// deduplication of its own; callers decide when a use counts.
func (r *PromoRepository) IncrementUsage(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE promo_codes SET current_uses = current_uses + 1 WHERE code = $1`,
		code,
	)
	if err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}
	return nil
}

// Deactivate retires a code without deleting its usage history.
func (r *PromoRepository) Deactivate(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `UPDATE promo_codes SET is_active = FALSE WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("deactivate promo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromoNotFound
	}
	return nil
}

// ApplyRegistrationBonus credits the one-time registration bonus in a
// single transaction: the user's bonus marker, the usage record and the
// balance credit all commit together or not at all.
func (r *PromoRepository) ApplyRegistrationBonus(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.BonusResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		storedCode    *string
		percent       int
		bonusReceived decimal.Decimal
		balance       decimal.Decimal
	)
	err = tx.QueryRow(ctx,
		`SELECT promo_code_used, registration_promo_percent, promo_bonus_received, balance
		 FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&storedCode, &percent, &bonusReceived, &balance)
	if err == pgx.ErrNoRows {
		return domain.BonusResult{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.BonusResult{}, fmt.Errorf("lock user: %w", err)
	}

	if storedCode == nil || *storedCode != code {
		return domain.BonusResult{}, domain.ErrPromoCodeMismatch
	}
	if bonusReceived.IsPositive() {
		return domain.BonusResult{}, domain.ErrBonusAlreadyRedeemed
	}

	var promoID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM promo_codes WHERE code = $1 AND is_active = TRUE`,
		code,
	).Scan(&promoID)
	if err == pgx.ErrNoRows {
		return domain.BonusResult{}, domain.ErrPromoNotFound
	}
	if err != nil {
		return domain.BonusResult{}, fmt.Errorf("get promo: %w", err)
	}

	result := bonusFor(depositAmount, percent)
	newBalance := balance.Add(result.TotalAmount)

	if err := r.creditBonus(ctx, tx, userID, promoID, code, result, newBalance); err != nil {
		return domain.BonusResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.BonusResult{}, fmt.Errorf("commit: %w", err)
	}

	result.NewBalance = newBalance
	return result, nil
}

// ApplyDepositPromo credits a bonus for a code supplied at deposit time.
// The code is re-validated against the registry inside the transaction,
// with the promo row locked so the usage cap cannot be oversubscribed,
// and the same lifetime one-bonus rule applies.
func (r *PromoRepository) ApplyDepositPromo(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.BonusResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		bonusReceived decimal.Decimal
		balance       decimal.Decimal
	)
	err = tx.QueryRow(ctx,
		`SELECT promo_bonus_received, balance FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&bonusReceived, &balance)
	if err == pgx.ErrNoRows {
		return domain.BonusResult{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.BonusResult{}, fmt.Errorf("lock user: %w", err)
	}

	if bonusReceived.IsPositive() {
		return domain.BonusResult{}, domain.ErrBonusAlreadyRedeemed
	}

	row := tx.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = $1 AND is_active = TRUE FOR UPDATE`,
		code,
	)
	promo, err := scanPromo(row)
	if err != nil {
		return domain.BonusResult{}, err
	}
	if promo.Expired(time.Now()) {
		return domain.BonusResult{}, domain.ErrPromoExpired
	}
	if promo.Exhausted() {
		return domain.BonusResult{}, domain.ErrPromoUsageLimit
	}

	result := bonusFor(depositAmount, promo.BonusPercent)
	newBalance := balance.Add(result.TotalAmount)

	if err := r.creditBonus(ctx, tx, userID, promo.ID, code, result, newBalance); err != nil {
		return domain.BonusResult{}, err
	}

	// This path has no registration-time attach, so the use counts now.
	_, err = tx.Exec(ctx,
		`UPDATE promo_codes SET current_uses = current_uses + 1 WHERE id = $1`,
		promo.ID,
	)
	if err != nil {
		return domain.BonusResult{}, fmt.Errorf("increment promo usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.BonusResult{}, fmt.Errorf("commit: %w", err)
	}

	result.NewBalance = newBalance
	return result, nil
}

// creditBonus writes the three effects of a granted bonus: the user's
// redeemed marker plus balance, the usage record and the ledger entry.
func (r *PromoRepository) creditBonus(ctx context.Context, tx pgx.Tx, userID uuid.UUID, promoID int64, code string, result domain.BonusResult, newBalance decimal.Decimal) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET balance = $2, promo_bonus_received = $3, updated_at = NOW() WHERE id = $1`,
		userID, newBalance, result.BonusAmount,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO promo_usages (user_id, promo_code_id, bonus_amount) VALUES ($1, $2, $3)`,
		userID, promoID, result.BonusAmount,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrBonusAlreadyRedeemed
		}
		return fmt.Errorf("create promo usage: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (user_id, amount, tx_type, description) VALUES ($1, $2, $3, $4)`,
		userID, result.TotalAmount, string(domain.TxTypeCredit),
		fmt.Sprintf("deposit with promo %s (+%d%%)", code, result.BonusPercent),
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func bonusFor(depositAmount decimal.Decimal, percent int) domain.BonusResult {
	bonus := depositAmount.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100))
	return domain.BonusResult{
		BonusPercent: percent,
		BonusAmount:  bonus,
		TotalAmount:  depositAmount.Add(bonus),
	}
}

func scanPromo(row pgx.Row) (domain.PromoCode, error) {
	var p domain.PromoCode
	err := row.Scan(&p.ID, &p.Code, &p.BonusPercent, &p.IsActive, &p.MaxUses, &p.CurrentUses, &p.ExpiresAt, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return domain.PromoCode{}, domain.ErrPromoNotFound
	}
	if err != nil {
		return domain.PromoCode{}, fmt.Errorf("scan promo: %w", err)
	}
	return p, nil
}
