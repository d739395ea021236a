package job

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gwmodel "payhub-backend/internal/domains/gateway/model"
	"payhub-backend/internal/domains/webhook/model"
	"payhub-backend/internal/domains/webhook/repository"
	"payhub-backend/internal/infrastructure/queue"
)

type webhookRepoStub struct {
	repository.WebhookRepoInterface

	retryable []*model.WebhookEvent
	resolved  []uuid.UUID
}

func (s *webhookRepoStub) ListRetryable(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	return s.retryable, nil
}

func (s *webhookRepoStub) MarkResolved(ctx context.Context, id uuid.UUID) error {
	s.resolved = append(s.resolved, id)
	return nil
}

// reconcilerStub replays each event with a preconfigured result.
type reconcilerStub struct {
	results map[uuid.UUID]string
}

func (s *reconcilerStub) Handle(ctx context.Context, gatewayCode string, rawBody []byte, headers http.Header) (*model.ReconciliationOutcome, error) {
	panic("not used by the retry job")
}

func (s *reconcilerStub) Replay(ctx context.Context, event *model.WebhookEvent) (*model.ReconciliationOutcome, error) {
	return &model.ReconciliationOutcome{Result: s.results[event.ID]}, nil
}

func retryableEvent() *model.WebhookEvent {
	return &model.WebhookEvent{
		ID:          uuid.New(),
		GatewayCode: gwmodel.GatewayCashfree,
		Outcome:     model.OutcomeRejected,
		Retryable:   true,
	}
}

func retryTask(t *testing.T, limit int) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.RetryJobPayload{Limit: limit})
	require.NoError(t, err)
	return asynq.NewTask(queue.TaskWebhookRetry, payload)
}

func TestRetryFailed_MarksLandedReplaysResolved(t *testing.T) {
	landed := retryableEvent()
	duplicate := retryableEvent()
	pending := retryableEvent()

	repo := &webhookRepoStub{retryable: []*model.WebhookEvent{landed, duplicate, pending}}
	reconciler := &reconcilerStub{results: map[uuid.UUID]string{
		landed.ID:    model.OutcomeApplied,
		duplicate.ID: model.OutcomeDuplicate,
		pending.ID:   model.OutcomeRejected,
	}}

	handler := NewRetryFailedHandler(repo, reconciler)
	require.NoError(t, handler.ProcessTask(context.Background(), retryTask(t, 10)))

	// Applied and duplicate replays are done; the next pass must not
	// pick them up again. The still-failing event stays retryable.
	assert.ElementsMatch(t, []uuid.UUID{landed.ID, duplicate.ID}, repo.resolved)
}

func TestRetryFailed_EmptyBacklogIsANoOp(t *testing.T) {
	repo := &webhookRepoStub{}
	handler := NewRetryFailedHandler(repo, &reconcilerStub{})

	require.NoError(t, handler.ProcessTask(context.Background(), retryTask(t, 10)))
	assert.Empty(t, repo.resolved)
}
