package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/finova-trade/wallet/internal/domain"
)

type UserService struct {
	users UserStore
	promo *PromoService
}

func NewUserService(users UserStore, promo *PromoService) *UserService {
	return &UserService{users: users, promo: promo}
}

// Register creates a user with a zeroed balance. A supplied promo code
// is validated and attached for the later one-time deposit bonus; an
// invalid code rejects the registration rather than being dropped
// silently.
func (s *UserService) Register(ctx context.Context, name, email, password, promoCode string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	var (
		attachedCode *string
		promoPercent int
	)
	if promoCode != "" {
		normalized, percent, err := s.promo.AttachForRegistration(ctx, promoCode)
		if err != nil {
			return domain.User{}, err
		}
		attachedCode = &normalized
		promoPercent = percent
	}

	return s.users.Create(ctx, name, email, string(hash), attachedCode, promoPercent)
}

// Authenticate verifies credentials, hiding whether the email exists.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}
