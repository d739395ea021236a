package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payhub-backend/internal/domains/webhook/model"
)

type webhookRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookRepository(pool *pgxpool.Pool) WebhookRepoInterface {
	return &webhookRepository{pool: pool}
}

func (r *webhookRepository) Create(ctx context.Context, event *model.WebhookEvent) error {
	query := `
		INSERT INTO webhook_events (
			id, gateway_code, idempotency_key, payload_digest, raw_body,
			gateway_reference, outcome, transaction_status, reason,
			retryable, received_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.GatewayCode,
		event.IdempotencyKey,
		event.PayloadDigest,
		event.RawBody,
		event.GatewayReference,
		event.Outcome,
		event.TransactionStatus,
		event.Reason,
		event.Retryable,
		event.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook event: %w", err)
	}

	return nil
}

func (r *webhookRepository) FindApplied(ctx context.Context, idempotencyKey string) (*model.WebhookEvent, error) {
	query := `
		SELECT id, gateway_code, idempotency_key, payload_digest, raw_body,
			gateway_reference, outcome, transaction_status, reason,
			retryable, received_at
		FROM webhook_events
		WHERE idempotency_key = $1 AND outcome = $2
	`

	event := &model.WebhookEvent{}
	err := r.pool.QueryRow(ctx, query, idempotencyKey, model.OutcomeApplied).Scan(
		&event.ID,
		&event.GatewayCode,
		&event.IdempotencyKey,
		&event.PayloadDigest,
		&event.RawBody,
		&event.GatewayReference,
		&event.Outcome,
		&event.TransactionStatus,
		&event.Reason,
		&event.Retryable,
		&event.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find applied webhook event: %w", err)
	}

	return event, nil
}

func (r *webhookRepository) ListRetryable(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	query := `
		SELECT id, gateway_code, idempotency_key, payload_digest, raw_body,
			gateway_reference, outcome, transaction_status, reason,
			retryable, received_at
		FROM webhook_events
		WHERE outcome = $1
		AND retryable = true
		AND received_at > NOW() - INTERVAL '24 hours'
		ORDER BY received_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, model.OutcomeRejected, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list retryable webhook events: %w", err)
	}
	defer rows.Close()

	var events []*model.WebhookEvent
	for rows.Next() {
		event := &model.WebhookEvent{}
		err := rows.Scan(
			&event.ID,
			&event.GatewayCode,
			&event.IdempotencyKey,
			&event.PayloadDigest,
			&event.RawBody,
			&event.GatewayReference,
			&event.Outcome,
			&event.TransactionStatus,
			&event.Reason,
			&event.Retryable,
			&event.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

func (r *webhookRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE webhook_events SET retryable = false WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark webhook event resolved: %w", err)
	}

	return nil
}

func (r *webhookRepository) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	query := `DELETE FROM webhook_events WHERE received_at < NOW() - make_interval(days => $1)`

	result, err := r.pool.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old webhook events: %w", err)
	}

	return result.RowsAffected(), nil
}
