package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finova-trade/wallet/internal/domain"
)

type seedPromo struct {
	code         string
	bonusPercent int
}

var defaultPromoCodes = []seedPromo{
	{"FINOVA20", 20},
	{"FINOVA30", 30},
	{"FINOVA40", 40},
	{"WELCOME25", 25},
	{"VIP50", 50},
}

// SeedDefaults creates the stock promo codes. Codes that already exist
// are left untouched, so the call is safe on every startup.
func (s *PromoService) SeedDefaults(ctx context.Context) error {
	for _, seed := range defaultPromoCodes {
		_, err := s.CreateCode(ctx, seed.code, seed.bonusPercent, nil, nil)
		if errors.Is(err, domain.ErrDuplicatePromoCode) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed promo %s: %w", seed.code, err)
		}
		slog.Info("promo code seeded", "code", seed.code, "bonus_percent", seed.bonusPercent)
	}
	return nil
}
