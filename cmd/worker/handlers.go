package main

import (
	"github.com/hibiken/asynq"

	txnJob "payhub-backend/internal/domains/transaction/job"
	webhookJob "payhub-backend/internal/domains/webhook/job"
	"payhub-backend/internal/infrastructure/notification"
	"payhub-backend/internal/infrastructure/queue"
	"payhub-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	notifyStatus *txnJob.NotifyStatusHandler
	retryFailed  *webhookJob.RetryFailedHandler
	cleanupOld   *webhookJob.CleanupOldHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	sender := notification.NewMockSender()

	return &HandlerRegistry{
		notifyStatus: txnJob.NewNotifyStatusHandler(sender),
		retryFailed:  webhookJob.NewRetryFailedHandler(c.WebhookRepo, c.Reconciler),
		cleanupOld:   webhookJob.NewCleanupOldHandler(c.WebhookRepo),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskTransactionNotification, h.notifyStatus.ProcessTask)
	mux.HandleFunc(queue.TaskWebhookRetry, h.retryFailed.ProcessTask)
	mux.HandleFunc(queue.TaskWebhookCleanup, h.cleanupOld.ProcessTask)
}
