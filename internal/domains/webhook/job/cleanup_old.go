package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"payhub-backend/internal/domains/webhook/repository"
	"payhub-backend/internal/infrastructure/queue"
	"payhub-backend/pkg/logger"
)

// CleanupOldHandler enforces webhook event retention.
type CleanupOldHandler struct {
	webhookRepo repository.WebhookRepoInterface
}

func NewCleanupOldHandler(webhookRepo repository.WebhookRepoInterface) *CleanupOldHandler {
	return &CleanupOldHandler{webhookRepo: webhookRepo}
}

func (h *CleanupOldHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := queue.CleanupJobPayload{RetentionDays: 90}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("failed to unmarshal cleanup payload, using default retention", err)
	}

	deleted, err := h.webhookRepo.DeleteOlderThan(ctx, payload.RetentionDays)
	if err != nil {
		return err
	}

	logger.Info("webhook event cleanup finished", map[string]interface{}{
		"deleted":        deleted,
		"retention_days": payload.RetentionDays,
	})
	return nil
}
