// Package handler exposes the wallet core over HTTP. Handlers are thin:
// they decode, call a service, and encode the result; all business
// rules live below.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/finova-trade/wallet/internal/config"
	"github.com/finova-trade/wallet/internal/middleware"
	"github.com/finova-trade/wallet/internal/service"
)

// OperatorNotifier delivers out-of-band events to operators. Delivery
// is fire-and-forget and never on the transaction path.
type OperatorNotifier interface {
	DepositInvoice(ctx context.Context, email string, amount decimal.Decimal)
	WithdrawRequest(ctx context.Context, email string, amount decimal.Decimal, cardNumber, fullName string)
}

type Handler struct {
	cfg      *config.Config
	users    *service.UserService
	ledger   *service.LedgerService
	promo    *service.PromoService
	notifier OperatorNotifier
	validate *validator.Validate
}

type Deps struct {
	Cfg      *config.Config
	Users    *service.UserService
	Ledger   *service.LedgerService
	Promo    *service.PromoService
	Notifier OperatorNotifier
}

func New(deps Deps) *Handler {
	return &Handler{
		cfg:      deps.Cfg,
		users:    deps.Users,
		ledger:   deps.Ledger,
		promo:    deps.Promo,
		notifier: deps.Notifier,
		validate: validator.New(),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Get("/user/get_balance", h.getBalance)
		r.Get("/user/get_initial_deposit", h.getInitialDeposit)
		r.Get("/user/transactions", h.transactions)
		r.Post("/user/deposit_balance", h.deposit)
		r.Post("/user/withdraw_balance", h.withdraw)
		r.Post("/user/update_balance", h.updateBalance)
		r.Post("/user/send_withdraw_to_tg", h.sendWithdrawRequest)

		r.Post("/promo/validate", h.validatePromo)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.cfg.IsAdmin))

			r.Post("/admin/set_balance", h.setBalance)
			r.Post("/admin/update_balance_multiply", h.multiplyBalance)
			r.Post("/admin/promo/create", h.createPromo)
			r.Post("/admin/promo/deactivate", h.deactivatePromo)
		})
	})

	return r
}
