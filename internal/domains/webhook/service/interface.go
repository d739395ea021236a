package service

import (
	"context"
	"net/http"

	"payhub-backend/internal/domains/webhook/model"
)

// ReconcilerService ingests gateway webhooks and reconciles the ledger.
type ReconcilerService interface {
	// Handle processes one inbound webhook delivery. The returned
	// outcome always carries the HTTP status the endpoint should answer;
	// the error is non-nil only for transient processing failures.
	Handle(ctx context.Context, gatewayCode string, rawBody []byte, headers http.Header) (*model.ReconciliationOutcome, error)

	// Replay re-runs reconciliation for a stored retryable event.
	// The signature was already verified on first receipt.
	Replay(ctx context.Context, event *model.WebhookEvent) (*model.ReconciliationOutcome, error)
}

// BillInvalidator evicts a cached bill after a successful bill payment.
// Declared here so the webhook domain does not depend on billing.
type BillInvalidator interface {
	InvalidateKey(ctx context.Context, billKey string) error
}
