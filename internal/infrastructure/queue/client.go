package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Dispatcher enqueues side-effect tasks after the atomic core commits.
type Dispatcher interface {
	EnqueueTransactionNotification(ctx context.Context, payload TransactionNotificationPayload) error
}

type asynqDispatcher struct {
	client *asynq.Client
}

func NewDispatcher(redisAddr string) Dispatcher {
	return &asynqDispatcher{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (d *asynqDispatcher) EnqueueTransactionNotification(ctx context.Context, payload TransactionNotificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	task := asynq.NewTask(TaskTransactionNotification, data)

	_, err = d.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueHigh),
		asynq.MaxRetry(10),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	return nil
}
