package queue

import (
	"time"

	"github.com/google/uuid"
)

// Task types routed through asynq.
const (
	TaskTransactionNotification = "notification:transaction_status"
	TaskWebhookRetry            = "webhook:retry_failed"
	TaskWebhookCleanup          = "webhook:cleanup_old"
)

// Queue names
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// TransactionNotificationPayload notifies a user about a terminal
// transaction state. Dispatched only after the ledger commit; delivery
// failures are retried by the worker and never roll the ledger back.
type TransactionNotificationPayload struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	UserID        uuid.UUID `json:"user_id"`
	GatewayCode   string    `json:"gateway_code"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}
