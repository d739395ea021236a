package service

import (
	"context"

	"github.com/google/uuid"

	"payhub-backend/internal/domains/transaction/model"
)

type PaymentService interface {
	// CreatePayment validates the request against the gateway config,
	// resolves the rate up front (failing the request on missing rate
	// cards or out-of-range amounts) and records the transaction.
	CreatePayment(ctx context.Context, userID uuid.UUID, req model.CreatePaymentRequest) (*model.CreatePaymentResponse, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}
