package repository

import (
	"context"

	"github.com/google/uuid"

	"payhub-backend/internal/domains/gateway/model"
)

// GatewayRepoInterface is read-mostly: gateway configuration is mutated
// only by admin tooling outside this service.
type GatewayRepoInterface interface {
	// GetByCode returns the gateway config for a code.
	// Returns model.ErrGatewayNotFound when no such gateway exists.
	GetByCode(ctx context.Context, code string) (*model.PaymentGateway, error)

	// GetByID returns the gateway config for an id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentGateway, error)

	// ListActive returns all active gateways.
	ListActive(ctx context.Context) ([]*model.PaymentGateway, error)
}
