package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"payhub-backend/internal/infrastructure/notification"
	"payhub-backend/internal/infrastructure/queue"
)

// NotifyStatusHandler delivers transaction status notifications.
// Runs with asynq retry; failures never affect the ledger.
type NotifyStatusHandler struct {
	sender notification.Sender
}

func NewNotifyStatusHandler(sender notification.Sender) *NotifyStatusHandler {
	return &NotifyStatusHandler{sender: sender}
}

func (h *NotifyStatusHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.TransactionNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal notification payload: %w", err)
	}

	return h.sender.SendTransactionStatus(
		ctx,
		payload.UserID.String(),
		payload.TransactionID.String(),
		payload.Status,
		payload.Amount,
	)
}
