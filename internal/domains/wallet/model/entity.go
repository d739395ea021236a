package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// =====================================================
// WALLET ENTITY
// =====================================================
type Wallet struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// =====================================================
// COMMISSION ENTITY
// =====================================================
// One row per completed transaction, written atomically with the
// terminal ledger transition.
type Commission struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TransactionID uuid.UUID       `json:"transaction_id" db:"transaction_id"`
	SchemaID      uuid.UUID       `json:"schema_id" db:"schema_id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	Rate          decimal.Decimal `json:"rate" db:"rate"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
