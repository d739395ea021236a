package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"payhub-backend/internal/domains/webhook/model"
	"payhub-backend/internal/domains/webhook/repository"
	"payhub-backend/internal/domains/webhook/service"
	"payhub-backend/internal/infrastructure/queue"
	"payhub-backend/pkg/logger"
)

// RetryFailedHandler replays stored webhook deliveries that were
// rejected on a transient condition, typically a webhook that raced
// ahead of its transaction.
type RetryFailedHandler struct {
	webhookRepo repository.WebhookRepoInterface
	reconciler  service.ReconcilerService
}

func NewRetryFailedHandler(webhookRepo repository.WebhookRepoInterface, reconciler service.ReconcilerService) *RetryFailedHandler {
	return &RetryFailedHandler{
		webhookRepo: webhookRepo,
		reconciler:  reconciler,
	}
}

func (h *RetryFailedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := queue.RetryJobPayload{Limit: 50}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("failed to unmarshal retry payload, using default limit", err)
	}

	events, err := h.webhookRepo.ListRetryable(ctx, payload.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var applied, still int
	for _, event := range events {
		outcome, err := h.reconciler.Replay(ctx, event)
		if err != nil {
			still++
			continue
		}
		if outcome.Result == model.OutcomeApplied || outcome.Result == model.OutcomeDuplicate {
			applied++
			// Clear the flag so the next pass does not replay an event
			// that already landed.
			if err := h.webhookRepo.MarkResolved(ctx, event.ID); err != nil {
				logger.Error("failed to mark replayed webhook event resolved", err, map[string]interface{}{
					"event_id": event.ID.String(),
				})
			}
		} else {
			still++
		}
	}

	logger.Info("webhook retry pass finished", map[string]interface{}{
		"scanned":       len(events),
		"applied":       applied,
		"still_pending": still,
	})
	return nil
}
