package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finova-trade/wallet/internal/domain"
)

func newLedgerService(store *memStore) *LedgerService {
	return NewLedgerService(store, NewPromoService(store))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDepositAndWithdraw_BalanceEqualsSignedSum(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, userID, dec("100.00"))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, userID, dec("0.50"))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, userID, dec("30.25"))
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	require.True(t, dec("70.25").Equal(balance), "got %s", balance)
}

func TestDeposit_RejectsNonPositiveAmount(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)

	_, err := svc.Deposit(context.Background(), userID, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Deposit(context.Background(), userID, dec("-5"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	// Zero balance, one cent withdrawal
	_, err := svc.Withdraw(ctx, userID, dec("0.01"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Zero amount is an invalid input, not an insufficient-funds case
	_, err = svc.Withdraw(ctx, userID, dec("0.00"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestApplyDelta_RejectsOverdraw(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, userID, dec("40.00"))
	require.NoError(t, err)

	_, err = svc.ApplyDelta(ctx, userID, dec("-50.00"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	require.True(t, dec("40.00").Equal(balance))
}

func TestSetBalance_BypassesNonNegativeInvariant(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)

	balance, err := svc.SetBalance(context.Background(), userID, dec("-12.34"))
	require.NoError(t, err)
	require.True(t, dec("-12.34").Equal(balance))
}

func TestMultiply(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, userID, dec("50.00"))
	require.NoError(t, err)

	balance, err := svc.Multiply(ctx, userID, dec("2.5"))
	require.NoError(t, err)
	require.True(t, dec("125.00").Equal(balance), "got %s", balance)

	_, err = svc.Multiply(ctx, userID, dec("-1"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCaptureInitialDeposit_Idempotent(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, userID, dec("100.00"))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, userID, dec("50.00"))
	require.NoError(t, err)

	initial, err := svc.GetInitialDeposit(ctx, userID)
	require.NoError(t, err)
	require.True(t, dec("100.00").Equal(initial), "initial deposit must keep the first value, got %s", initial)
}

func TestWithdraw_ConcurrentOverdraw(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, userID, dec("100.00"))
	require.NoError(t, err)

	amounts := []decimal.Decimal{dec("50.00"), dec("60.00")}
	errs := make([]error, len(amounts))

	var wg sync.WaitGroup
	for i, amount := range amounts {
		i, amount := i, amount
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(ctx, userID, amount)
		}()
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			failures++
		}
	}
	require.Equal(t, 1, failures, "exactly one withdrawal must fail")

	balance, err := svc.GetBalance(ctx, userID)
	require.NoError(t, err)
	// 100 - 50 or 100 - 60, never negative and never both
	require.True(t, dec("50.00").Equal(balance) || dec("40.00").Equal(balance), "got %s", balance)
}

func TestGetBalance_MissingUserIsZero(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)

	balance, err := svc.GetBalance(context.Background(), uuid.New())
	require.NoError(t, err)
	require.True(t, balance.IsZero())
}

func TestHistory_ReturnsRecentEntries(t *testing.T) {
	store := newMemStore()
	svc := newLedgerService(store)
	userID := store.seedUser(nil, 0)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, userID, dec("10.00"))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, userID, dec("4.00"))
	require.NoError(t, err)

	txs, err := svc.History(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, domain.TxTypeDebit, txs[0].TxType)
	require.True(t, dec("-4.00").Equal(txs[0].Amount))
}
