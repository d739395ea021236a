package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// TRANSACTION ENTITY
// =====================================================
// The unit of work in the ledger. Looked up by the external gateway
// reference, which is unique per gateway.
type Transaction struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	SchemaID uuid.UUID `json:"schema_id" db:"schema_id"`
	PGID     uuid.UUID `json:"pg_id" db:"pg_id"`

	// Gateway identity
	GatewayCode      string `json:"gateway_code" db:"gateway_code"`
	GatewayReference string `json:"gateway_reference" db:"gateway_reference"`

	// Amount
	Type     string          `json:"type" db:"type"` // PAYIN / PAYOUT
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Currency string          `json:"currency" db:"currency"`

	// Status tracking
	Status       string  `json:"status" db:"status"`
	ErrorCode    *string `json:"error_code,omitempty" db:"error_code"`
	ErrorMessage *string `json:"error_message,omitempty" db:"error_message"`

	// Commission, resolved once on first successful completion
	CommissionRate   *decimal.Decimal `json:"commission_rate,omitempty" db:"commission_rate"`
	CommissionAmount *decimal.Decimal `json:"commission_amount,omitempty" db:"commission_amount"`

	// Bill payments carry the bill cache key so the reconciler can
	// invalidate the cached bill once the payment succeeds.
	BillKey *string `json:"bill_key,omitempty" db:"bill_key"`

	// Timestamps
	InitiatedAt  time.Time  `json:"initiated_at" db:"initiated_at"`
	ProcessingAt *time.Time `json:"processing_at,omitempty" db:"processing_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	FailedAt     *time.Time `json:"failed_at,omitempty" db:"failed_at"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty" db:"refunded_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the transaction has reached a terminal state.
func (t *Transaction) IsTerminal() bool {
	return IsTerminal(t.Status)
}

// IsSuccessful reports whether the transaction completed successfully.
func (t *Transaction) IsSuccessful() bool {
	return t.Status == StatusSuccess
}

// HasCommission reports whether commission was already computed.
func (t *Transaction) HasCommission() bool {
	return t.CommissionAmount != nil
}
