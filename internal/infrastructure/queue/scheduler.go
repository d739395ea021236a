package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// RetryJobPayload bounds how many stored events one retry run replays.
type RetryJobPayload struct {
	Limit int `json:"limit"`
}

// CleanupJobPayload controls webhook event retention.
type CleanupJobPayload struct {
	RetentionDays int `json:"retention_days"`
}

// Scheduler registers the recurring jobs with asynq.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr string) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: redisAddr},
			&asynq.SchedulerOpts{},
		),
	}
}

// RegisterJobs wires the cron entries:
// - webhook retry every 5 minutes, replaying deliveries that arrived
//   before their transaction existed or while a rate card was missing
// - webhook event cleanup daily at 03:00
func (s *Scheduler) RegisterJobs() error {
	retryPayload, err := json.Marshal(RetryJobPayload{Limit: 50})
	if err != nil {
		return fmt.Errorf("failed to marshal retry payload: %w", err)
	}

	if _, err := s.scheduler.Register(
		"*/5 * * * *",
		asynq.NewTask(TaskWebhookRetry, retryPayload),
		asynq.Queue(QueueDefault),
	); err != nil {
		return fmt.Errorf("failed to register webhook retry job: %w", err)
	}

	cleanupPayload, err := json.Marshal(CleanupJobPayload{RetentionDays: 90})
	if err != nil {
		return fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}

	if _, err := s.scheduler.Register(
		"0 3 * * *",
		asynq.NewTask(TaskWebhookCleanup, cleanupPayload),
		asynq.Queue(QueueLow),
	); err != nil {
		return fmt.Errorf("failed to register webhook cleanup job: %w", err)
	}

	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
