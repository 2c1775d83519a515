// Package notify delivers operator notifications over Telegram.
// Delivery is best-effort: a failed send is logged and dropped, it
// never affects the ledger.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/shopspring/decimal"
)

const sendTimeout = 10 * time.Second

type Telegram struct {
	bot     *bot.Bot
	chatIDs []int64
}

// NewTelegram builds the notifier. A nil bot or empty chat list yields
// a disabled notifier whose sends are no-ops.
func NewTelegram(b *bot.Bot, chatIDs []int64) *Telegram {
	return &Telegram{bot: b, chatIDs: chatIDs}
}

func (t *Telegram) DepositInvoice(ctx context.Context, email string, amount decimal.Decimal) {
	msg := fmt.Sprintf("💰 *Deposit*\n\n*User:* %s\n*Amount:* %s\n*Time:* %s",
		email, amount.StringFixed(2), time.Now().Format("2006-01-02 15:04:05"))
	t.send(msg)
}

func (t *Telegram) WithdrawRequest(ctx context.Context, email string, amount decimal.Decimal, cardNumber, fullName string) {
	msg := fmt.Sprintf("🏧 *Withdrawal Request*\n\n*User:* %s\n*Amount:* %s\n*Card:* `%s`\n*Name:* %s",
		email, amount.StringFixed(2), cardNumber, fullName)
	t.send(msg)
}

func (t *Telegram) send(message string) {
	if t.bot == nil || len(t.chatIDs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	for _, chatID := range t.chatIDs {
		_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      message,
			ParseMode: "Markdown",
		})
		if err != nil {
			slog.Error("failed to send operator notification", "chat_id", chatID, "error", err)
		}
	}
}
