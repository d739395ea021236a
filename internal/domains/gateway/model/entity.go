package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT GATEWAY ENTITY
// =====================================================
// Platform-owned gateway configuration. Mutated only by admin
// operations; read-only for the rate resolver and payment flows.
type PaymentGateway struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Code string    `json:"code" db:"code"`
	Name string    `json:"name" db:"name"`

	IsActive bool `json:"is_active" db:"is_active"`

	// Supported transaction types
	SupportsPayin  bool `json:"supports_payin" db:"supports_payin"`
	SupportsPayout bool `json:"supports_payout" db:"supports_payout"`

	// Base rate, used only when a rate card explicitly opts in to it.
	// The rate resolver never falls back to this silently.
	BaseRate decimal.Decimal `json:"base_rate" db:"base_rate"`

	// Transaction amount bounds
	MinAmount decimal.Decimal `json:"min_amount" db:"min_amount"`
	MaxAmount decimal.Decimal `json:"max_amount" db:"max_amount"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SupportsType reports whether the gateway handles the given transaction type.
func (g *PaymentGateway) SupportsType(txnType string) bool {
	switch txnType {
	case TxnTypePayin:
		return g.SupportsPayin
	case TxnTypePayout:
		return g.SupportsPayout
	}
	return false
}

// AmountInBounds checks the gateway's configured amount limits.
func (g *PaymentGateway) AmountInBounds(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(g.MinAmount) && amount.LessThanOrEqual(g.MaxAmount)
}
