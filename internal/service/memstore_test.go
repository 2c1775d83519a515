package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/domain"
)

// memStore is an in-memory implementation of LedgerStore, PromoStore
// and UserStore. The mutex is held for every read-modify-write, giving
// the same per-user serialization the SQL layer gets from row locks.
type memStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*domain.User
	promos      map[string]*domain.PromoCode
	usages      map[uuid.UUID]domain.PromoUsage
	txs         []domain.Transaction
	nextPromoID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[uuid.UUID]*domain.User),
		promos: make(map[string]*domain.PromoCode),
		usages: make(map[uuid.UUID]domain.PromoUsage),
	}
}

func (m *memStore) seedUser(promoCode *string, promoPercent int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = &domain.User{
		ID:                       id,
		Email:                    id.String() + "@example.com",
		PromoCodeUsed:            promoCode,
		RegistrationPromoPercent: promoPercent,
	}
	return id
}

func (m *memStore) seedPromo(code string, percent int, maxUses *int, expiresAt *time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPromoID++
	m.promos[code] = &domain.PromoCode{
		ID:           m.nextPromoID,
		Code:         code,
		BonusPercent: percent,
		IsActive:     true,
		MaxUses:      maxUses,
		ExpiresAt:    expiresAt,
	}
}

// LedgerStore

func (m *memStore) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, nil
	}
	return u.Balance, nil
}

func (m *memStore) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	m.record(userID, amount, domain.TxTypeCredit, "deposit")
	return u.Balance, nil
}

func (m *memStore) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	if u.Balance.LessThan(amount) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	u.Balance = u.Balance.Sub(amount)
	m.record(userID, amount.Neg(), domain.TxTypeDebit, "withdrawal")
	return u.Balance, nil
}

func (m *memStore) ApplyDelta(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	next := u.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	u.Balance = next
	m.record(userID, delta, domain.TxTypeAdjust, "balance adjustment")
	return u.Balance, nil
}

func (m *memStore) SetBalance(ctx context.Context, userID uuid.UUID, newBalance decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	m.record(userID, newBalance.Sub(u.Balance), domain.TxTypeAdjust, "administrative balance set")
	u.Balance = newBalance
	return u.Balance, nil
}

func (m *memStore) CaptureInitialDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrUserNotFound
	}
	if u.HasInitialDeposit {
		return u.InitialBalance, nil
	}
	u.InitialBalance = amount
	u.HasInitialDeposit = true
	return amount, nil
}

func (m *memStore) GetInitialBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return decimal.Zero, nil
	}
	return u.InitialBalance, nil
}

func (m *memStore) Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for i := len(m.txs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.txs[i].UserID != nil && *m.txs[i].UserID == userID {
			out = append(out, m.txs[i])
		}
	}
	return out, nil
}

// PromoStore

func (m *memStore) GetActiveByCode(ctx context.Context, code string) (domain.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[code]
	if !ok || !p.IsActive {
		return domain.PromoCode{}, domain.ErrPromoNotFound
	}
	return *p, nil
}

func (m *memStore) Create(ctx context.Context, code string, bonusPercent int, maxUses *int, expiresAt *time.Time) (domain.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[code]; ok {
		return domain.PromoCode{}, domain.ErrDuplicatePromoCode
	}
	m.nextPromoID++
	p := &domain.PromoCode{
		ID:           m.nextPromoID,
		Code:         code,
		BonusPercent: bonusPercent,
		IsActive:     true,
		MaxUses:      maxUses,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
	}
	m.promos[code] = p
	return *p, nil
}

func (m *memStore) IncrementUsage(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.promos[code]; ok {
		p.CurrentUses++
	}
	return nil
}

func (m *memStore) Deactivate(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[code]
	if !ok {
		return domain.ErrPromoNotFound
	}
	p.IsActive = false
	return nil
}

func (m *memStore) ApplyRegistrationBonus(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.BonusResult{}, domain.ErrUserNotFound
	}
	if u.PromoCodeUsed == nil || *u.PromoCodeUsed != code {
		return domain.BonusResult{}, domain.ErrPromoCodeMismatch
	}
	if u.PromoBonusReceived.IsPositive() {
		return domain.BonusResult{}, domain.ErrBonusAlreadyRedeemed
	}
	p, ok := m.promos[code]
	if !ok || !p.IsActive {
		return domain.BonusResult{}, domain.ErrPromoNotFound
	}
	return m.grantBonus(u, p, u.RegistrationPromoPercent, depositAmount), nil
}

func (m *memStore) ApplyDepositPromo(ctx context.Context, userID uuid.UUID, code string, depositAmount decimal.Decimal) (domain.BonusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.BonusResult{}, domain.ErrUserNotFound
	}
	if u.PromoBonusReceived.IsPositive() {
		return domain.BonusResult{}, domain.ErrBonusAlreadyRedeemed
	}
	p, ok := m.promos[code]
	if !ok || !p.IsActive {
		return domain.BonusResult{}, domain.ErrPromoNotFound
	}
	if p.Expired(time.Now()) {
		return domain.BonusResult{}, domain.ErrPromoExpired
	}
	if p.Exhausted() {
		return domain.BonusResult{}, domain.ErrPromoUsageLimit
	}
	result := m.grantBonus(u, p, p.BonusPercent, depositAmount)
	p.CurrentUses++
	return result, nil
}

func (m *memStore) grantBonus(u *domain.User, p *domain.PromoCode, percent int, depositAmount decimal.Decimal) domain.BonusResult {
	bonus := depositAmount.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100))
	total := depositAmount.Add(bonus)
	u.Balance = u.Balance.Add(total)
	u.PromoBonusReceived = bonus
	m.usages[u.ID] = domain.PromoUsage{
		ID:          uuid.New(),
		UserID:      u.ID,
		PromoCodeID: p.ID,
		BonusAmount: bonus,
		UsedAt:      time.Now(),
	}
	m.record(u.ID, total, domain.TxTypeCredit, "deposit with promo "+p.Code)
	return domain.BonusResult{
		BonusPercent: percent,
		BonusAmount:  bonus,
		TotalAmount:  total,
		NewBalance:   u.Balance,
	}
}

// UserStore

func (m *memStore) CreateUser(ctx context.Context, name, email, passwordHash string, promoCode *string, promoPercent int) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return domain.User{}, domain.ErrEmailTaken
		}
	}
	id := uuid.New()
	u := &domain.User{
		ID:                       id,
		Name:                     name,
		Email:                    email,
		PasswordHash:             passwordHash,
		PromoCodeUsed:            promoCode,
		RegistrationPromoPercent: promoPercent,
		CreatedAt:                time.Now(),
	}
	m.users[id] = u
	return *u, nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// userStoreAdapter exposes memStore as a UserStore; the promo store
// already claims the Create method name.
type userStoreAdapter struct{ *memStore }

func (a userStoreAdapter) Create(ctx context.Context, name, email, passwordHash string, promoCode *string, promoPercent int) (domain.User, error) {
	return a.CreateUser(ctx, name, email, passwordHash, promoCode, promoPercent)
}

func (m *memStore) record(userID uuid.UUID, amount decimal.Decimal, txType domain.TxType, description string) {
	id := userID
	m.txs = append(m.txs, domain.Transaction{
		ID:          int64(len(m.txs) + 1),
		UserID:      &id,
		Amount:      amount,
		TxType:      txType,
		Description: description,
		CreatedAt:   time.Now(),
	})
}
