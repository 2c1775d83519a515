// Package repository holds the Postgres access layer. Every money
// mutation runs inside a transaction that locks the user row with
// SELECT ... FOR UPDATE, so two concurrent mutations for the same user
// serialize instead of losing an update.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/domain"
)

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetBalance returns the user's current balance, or zero when no record
// exists. It never fails on a missing user.
func (r *LedgerRepository) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// Deposit atomically credits amount to the user's balance.
func (r *LedgerRepository) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	return r.mutate(ctx, userID, func(current decimal.Decimal) (decimal.Decimal, domain.TxType, string, error) {
		return current.Add(amount), domain.TxTypeCredit, "deposit", nil
	})
}

// Withdraw atomically debits amount from the user's balance. Fails with
// domain.ErrInsufficientFunds when the balance is smaller than amount.
func (r *LedgerRepository) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	return r.mutate(ctx, userID, func(current decimal.Decimal) (decimal.Decimal, domain.TxType, string, error) {
		if current.LessThan(amount) {
			return decimal.Zero, "", "", domain.ErrInsufficientFunds
		}
		return current.Sub(amount), domain.TxTypeDebit, "withdrawal", nil
	})
}

// ApplyDelta adds a signed delta to the balance. Fails with
// domain.ErrInsufficientFunds when the result would be negative.
func (r *LedgerRepository) ApplyDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	return r.mutate(ctx, userID, func(current decimal.Decimal) (decimal.Decimal, domain.TxType, string, error) {
		next := current.Add(delta)
		if next.IsNegative() {
			return decimal.Zero, "", "", domain.ErrInsufficientFunds
		}
		txType := domain.TxTypeCredit
		if delta.IsNegative() {
			txType = domain.TxTypeDebit
		}
		return next, txType, "balance adjustment", nil
	})
}

// SetBalance overwrites the balance unconditionally. This is the
// privileged administrative path: it does not enforce non-negativity.
func (r *LedgerRepository) SetBalance(ctx context.Context, userID uuid.UUID, newBalance decimal.Decimal) (decimal.Decimal, error) {
	return r.mutate(ctx, userID, func(current decimal.Decimal) (decimal.Decimal, domain.TxType, string, error) {
		return newBalance, domain.TxTypeAdjust, "administrative balance set", nil
	})
}

// CaptureInitialDeposit records the first deposit amount once. Repeated
// calls are no-ops that return the originally captured value.
func (r *LedgerRepository) CaptureInitialDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		hasDeposit bool
		initial    decimal.Decimal
	)
	err = tx.QueryRow(ctx,
		`SELECT has_initial_deposit, initial_balance FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&hasDeposit, &initial)
	if err == pgx.ErrNoRows {
		return decimal.Zero, domain.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock user: %w", err)
	}

	if hasDeposit {
		return initial, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET initial_balance = $2, has_initial_deposit = TRUE, updated_at = NOW() WHERE id = $1`,
		userID, amount,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("capture initial deposit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("commit: %w", err)
	}
	return amount, nil
}

// GetInitialBalance returns the captured first deposit, or zero if unset.
func (r *LedgerRepository) GetInitialBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var initial decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT initial_balance FROM users WHERE id = $1`, userID).Scan(&initial)
	if err == pgx.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get initial balance: %w", err)
	}
	return initial, nil
}

// mutate runs a locked read-modify-write on the user's balance and
// appends the matching transaction row in the same database transaction.
func (r *LedgerRepository) mutate(ctx context.Context, userID uuid.UUID, apply func(current decimal.Decimal) (decimal.Decimal, domain.TxType, string, error)) (decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&current)
	if err == pgx.ErrNoRows {
		return decimal.Zero, domain.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock user: %w", err)
	}

	next, txType, description, err := apply(current)
	if err != nil {
		return decimal.Zero, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET balance = $2, updated_at = NOW() WHERE id = $1`,
		userID, next,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("update balance: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (user_id, amount, tx_type, description) VALUES ($1, $2, $3, $4)`,
		userID, next.Sub(current), string(txType), description,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

// Transactions returns the user's most recent ledger entries.
func (r *LedgerRepository) Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, tx_type, description, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.TxType, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
