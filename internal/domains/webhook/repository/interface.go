package repository

import (
	"context"

	"github.com/google/uuid"

	"payhub-backend/internal/domains/webhook/model"
)

// WebhookRepoInterface is append-mostly: payloads and outcomes are
// never mutated after creation, only the retryable flag is cleared once
// a replay resolves the event. Idempotency rests on the unique partial
// index over (idempotency_key) WHERE outcome = 'applied'.
type WebhookRepoInterface interface {
	Create(ctx context.Context, event *model.WebhookEvent) error

	// FindApplied returns the prior applied event for an idempotency
	// key, or (nil, nil) when the event has not been applied yet.
	FindApplied(ctx context.Context, idempotencyKey string) (*model.WebhookEvent, error)

	// ListRetryable returns rejected-but-retryable events newer than
	// the retention window, oldest first, for the retry job.
	ListRetryable(ctx context.Context, limit int) ([]*model.WebhookEvent, error)

	// MarkResolved clears the retryable flag so the retry job stops
	// re-selecting an event whose replay already landed.
	MarkResolved(ctx context.Context, id uuid.UUID) error

	// DeleteOlderThan removes audit rows past the retention period.
	DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error)
}
