package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// SCHEMA ENTITY
// =====================================================
// A named commission tier (e.g. "Gold") assigned to users.
// At most one schema is the system-wide default at a time.
type Schema struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsDefault   bool      `json:"is_default" db:"is_default"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// =====================================================
// SCHEMA PG RATE ENTITY
// =====================================================
// The rate card joining one schema to one payment gateway.
// Unique per (schema_id, pg_id). Tier multipliers are pre-baked into
// these rates when the schema is provisioned; the resolver never
// applies multipliers at runtime.
type SchemaPGRate struct {
	ID       uuid.UUID `json:"id" db:"id"`
	SchemaID uuid.UUID `json:"schema_id" db:"schema_id"`
	PGID     uuid.UUID `json:"pg_id" db:"pg_id"`

	PayinRate    decimal.Decimal `json:"payin_rate" db:"payin_rate"`
	PayinFeeType string          `json:"payin_fee_type" db:"payin_fee_type"`

	PayoutRate    decimal.Decimal `json:"payout_rate" db:"payout_rate"`
	PayoutFeeType string          `json:"payout_fee_type" db:"payout_fee_type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// =====================================================
// PAYOUT SLAB ENTITY
// =====================================================
// An amount range [MinAmount, MaxAmount) with its own rate or flat fee.
// Slabs for one rate card are contiguous, non-overlapping and cover
// [0, gateway.MaxAmount).
type PayoutSlab struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SchemaPGRateID uuid.UUID `json:"schema_pg_rate_id" db:"schema_pg_rate_id"`

	MinAmount decimal.Decimal `json:"min_amount" db:"min_amount"`
	MaxAmount decimal.Decimal `json:"max_amount" db:"max_amount"`

	Rate    decimal.Decimal `json:"rate" db:"rate"`
	FeeType string          `json:"fee_type" db:"fee_type"`
}

// Contains reports whether amount falls inside the half-open
// interval [MinAmount, MaxAmount).
func (s *PayoutSlab) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(s.MinAmount) && amount.LessThan(s.MaxAmount)
}

// =====================================================
// RATE DECISION
// =====================================================
// The resolver's answer for one (schema, gateway, type, amount) tuple.
type RateDecision struct {
	Rate        decimal.Decimal `json:"rate"`
	FeeType     string          `json:"fee_type"`
	AppliedSlab *PayoutSlab     `json:"applied_slab,omitempty"`
	Commission  decimal.Decimal `json:"commission"`
}
