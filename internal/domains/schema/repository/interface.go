package repository

import (
	"context"

	"github.com/google/uuid"

	"payhub-backend/internal/domains/schema/model"
)

type SchemaRepoInterface interface {
	// CreateSchema inserts a new schema. When IsDefault is set the
	// insert demotes any existing default in the same transaction.
	CreateSchema(ctx context.Context, schema *model.Schema) error

	GetSchemaByID(ctx context.Context, id uuid.UUID) (*model.Schema, error)

	// GetDefaultSchema returns the single default schema, or
	// model.ErrSchemaNotFound during bootstrap when none exists yet.
	GetDefaultSchema(ctx context.Context) (*model.Schema, error)

	// SetDefault promotes a schema to the system-wide default with a
	// transactional check-and-set so exactly one default survives
	// concurrent assignments.
	SetDefault(ctx context.Context, id uuid.UUID) error

	// GetRateCard returns the rate card for (schemaID, pgID).
	// Returns model.ErrNoRateCardConfigured when absent.
	GetRateCard(ctx context.Context, schemaID, pgID uuid.UUID) (*model.SchemaPGRate, error)

	// CreateRateCard inserts the rate card and its payout slabs in one
	// transaction, so a failure can never leave a card without its
	// slabs. Coverage must already be validated by the caller.
	// Returns model.ErrRateCardExists for a duplicate (schema, gateway).
	CreateRateCard(ctx context.Context, rate *model.SchemaPGRate, slabs []*model.PayoutSlab) error

	// GetSlabs returns the payout slabs of a rate card ordered by
	// min_amount ascending. Empty when the rate card uses a flat rate.
	GetSlabs(ctx context.Context, rateCardID uuid.UUID) ([]*model.PayoutSlab, error)
}
