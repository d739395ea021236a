package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payhub-backend/internal/domains/schema/model"
)

// RateResolver computes the effective commission rate for a
// user/schema/gateway/amount tuple. Pure and read-mostly; safe for
// concurrent use without locking.
type RateResolver interface {
	// Resolve returns the rate decision for the tuple, or:
	// - model.ErrNoRateCardConfigured when no rate card exists
	// - model.ErrAmountOutOfRange when a payout exceeds the gateway max
	Resolve(ctx context.Context, schemaID, pgID uuid.UUID, txnType string, amount decimal.Decimal) (*model.RateDecision, error)
}

// SchemaService covers schema provisioning used by internal tooling.
type SchemaService interface {
	CreateSchema(ctx context.Context, req model.CreateSchemaRequest) (*model.Schema, error)
	SetDefaultSchema(ctx context.Context, schemaID uuid.UUID) error
	ConfigureRateCard(ctx context.Context, req model.ConfigureRateCardRequest) (*model.SchemaPGRate, error)
}
