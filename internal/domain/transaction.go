package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTypeDebit  TxType = "debit"
	TxTypeCredit TxType = "credit"
	TxTypeAdjust TxType = "adjust"
)

type Transaction struct {
	ID          int64
	UserID      *uuid.UUID
	Amount      decimal.Decimal
	TxType      TxType
	Description string
	CreatedAt   time.Time
}
