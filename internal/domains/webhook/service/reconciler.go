package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	gatewayModel "payhub-backend/internal/domains/gateway/model"
	"payhub-backend/internal/domains/gateway/verifier"
	schemamodel "payhub-backend/internal/domains/schema/model"
	schemaservice "payhub-backend/internal/domains/schema/service"
	txnmodel "payhub-backend/internal/domains/transaction/model"
	txnrepo "payhub-backend/internal/domains/transaction/repository"
	walletmodel "payhub-backend/internal/domains/wallet/model"
	walletrepo "payhub-backend/internal/domains/wallet/repository"
	"payhub-backend/internal/domains/webhook/model"
	"payhub-backend/internal/domains/webhook/repository"
	"payhub-backend/internal/infrastructure/queue"
	"payhub-backend/pkg/logger"
)

// =====================================================
// WEBHOOK RECONCILER
// =====================================================
// Business Logic Flow:
// 1. Verify the signature against the raw body (reject 400 on failure)
// 2. Parse and normalize the gateway payload
// 3. Check idempotency against previously applied events
// 4. Map the native status onto the ledger state machine
// 5. Transition the transaction under a row lock; on SUCCESS the
//    commission resolution, commission row and wallet credit commit in
//    the same database transaction
// 6. Record the event outcome (applied / duplicate / rejected)
// 7. Fire post-commit side effects: bill cache invalidation and the
//    async user notification
//
// Anything after verification answers 200 to the gateway unless the
// failure is transient, so duplicate and out-of-order deliveries never
// cause retry storms.
type reconcilerService struct {
	verifiers       *verifier.Registry
	webhookRepo     repository.WebhookRepoInterface
	ledgerRepo      txnrepo.LedgerRepoInterface
	walletRepo      walletrepo.WalletRepoInterface
	rateResolver    schemaservice.RateResolver
	billInvalidator BillInvalidator
	dispatcher      queue.Dispatcher
}

func NewReconcilerService(
	verifiers *verifier.Registry,
	webhookRepo repository.WebhookRepoInterface,
	ledgerRepo txnrepo.LedgerRepoInterface,
	walletRepo walletrepo.WalletRepoInterface,
	rateResolver schemaservice.RateResolver,
	billInvalidator BillInvalidator,
	dispatcher queue.Dispatcher,
) ReconcilerService {
	return &reconcilerService{
		verifiers:       verifiers,
		webhookRepo:     webhookRepo,
		ledgerRepo:      ledgerRepo,
		walletRepo:      walletRepo,
		rateResolver:    rateResolver,
		billInvalidator: billInvalidator,
		dispatcher:      dispatcher,
	}
}

func (s *reconcilerService) Handle(ctx context.Context, gatewayCode string, rawBody []byte, headers http.Header) (*model.ReconciliationOutcome, error) {
	// Step 1: authenticate the delivery before touching the payload
	result := s.verifiers.Verify(gatewayCode, rawBody, headers)
	if !result.OK {
		logger.Warn("webhook signature verification failed", map[string]interface{}{
			"gateway_code": gatewayCode,
			"reason":       result.Reason,
		})
		s.recordEvent(ctx, gatewayCode, rawBody, nil, model.OutcomeRejected, "", result.Reason, false, "")
		return &model.ReconciliationOutcome{
			Result:     model.OutcomeRejected,
			Reason:     model.ErrCodeVerificationFailed,
			HTTPStatus: http.StatusBadRequest,
		}, nil
	}

	return s.process(ctx, gatewayCode, rawBody)
}

// Replay re-runs reconciliation for an event whose signature already
// passed. Used by the scheduled retry job for out-of-order deliveries.
func (s *reconcilerService) Replay(ctx context.Context, event *model.WebhookEvent) (*model.ReconciliationOutcome, error) {
	return s.process(ctx, event.GatewayCode, event.RawBody)
}

func (s *reconcilerService) process(ctx context.Context, gatewayCode string, rawBody []byte) (*model.ReconciliationOutcome, error) {
	// Step 2: normalize the payload
	evt, err := ParsePayload(gatewayCode, rawBody)
	if err != nil {
		logger.Warn("webhook payload unparseable", map[string]interface{}{
			"gateway_code": gatewayCode,
			"error":        err.Error(),
		})
		s.recordEvent(ctx, gatewayCode, rawBody, nil, model.OutcomeRejected, "", err.Error(), false, "")
		return &model.ReconciliationOutcome{
			Result:     model.OutcomeRejected,
			Reason:     model.ErrCodeUnparseablePayload,
			HTTPStatus: http.StatusBadRequest,
		}, nil
	}

	// Step 3: idempotency check
	idempotencyKey := model.IdempotencyKey(evt.GatewayCode, evt.GatewayReference, evt.EventID, evt.NativeStatus)
	prior, err := s.webhookRepo.FindApplied(ctx, idempotencyKey)
	if err != nil {
		return s.transientFailure(ctx, gatewayCode, rawBody, evt, idempotencyKey, err)
	}
	if prior != nil {
		s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeDuplicate, derefStr(prior.TransactionStatus), "already applied", false, idempotencyKey)
		return &model.ReconciliationOutcome{
			Result:            model.OutcomeDuplicate,
			TransactionStatus: derefStr(prior.TransactionStatus),
			HTTPStatus:        http.StatusOK,
		}, nil
	}

	// Step 4: map the native status
	target, mapped := MapNativeStatus(evt.GatewayCode, evt.NativeStatus)
	if !mapped {
		logger.Warn("unmapped native webhook status, treating as PROCESSING", map[string]interface{}{
			"gateway_code":  evt.GatewayCode,
			"gateway_ref":   evt.GatewayReference,
			"native_status": evt.NativeStatus,
		})
	}

	// Step 5: drive the ledger
	txn, err := s.applyTransition(ctx, evt, target)
	if err != nil {
		return s.mapTransitionError(ctx, gatewayCode, rawBody, evt, idempotencyKey, target, err)
	}

	// Step 6: record the applied event. The ledger already committed;
	// a failed audit write is logged, not surfaced to the gateway.
	s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeApplied, target, "", false, idempotencyKey)

	// Step 7: post-commit side effects
	s.fireSideEffects(ctx, txn, target)

	return &model.ReconciliationOutcome{
		Result:            model.OutcomeApplied,
		TransactionStatus: target,
		HTTPStatus:        http.StatusOK,
	}, nil
}

// applyTransition picks the legal source statuses and the in-transaction
// side effects for the target status, then runs the locked transition.
func (s *reconcilerService) applyTransition(ctx context.Context, evt *model.NormalizedEvent, target string) (*txnmodel.Transaction, error) {
	switch target {
	case txnmodel.StatusProcessing:
		return s.ledgerRepo.Transition(ctx, evt.GatewayCode, evt.GatewayReference,
			[]string{txnmodel.StatusInitiated}, txnmodel.StatusProcessing, nil)

	case txnmodel.StatusSuccess:
		return s.ledgerRepo.Transition(ctx, evt.GatewayCode, evt.GatewayReference,
			[]string{txnmodel.StatusProcessing}, txnmodel.StatusSuccess, s.settleSuccess(ctx))

	case txnmodel.StatusFailed:
		return s.ledgerRepo.Transition(ctx, evt.GatewayCode, evt.GatewayReference,
			[]string{txnmodel.StatusProcessing}, txnmodel.StatusFailed, nil)

	case txnmodel.StatusRefunded:
		return s.ledgerRepo.Transition(ctx, evt.GatewayCode, evt.GatewayReference,
			[]string{txnmodel.StatusSuccess}, txnmodel.StatusRefunded, s.settleRefund(ctx))
	}

	return nil, fmt.Errorf("unsupported target status %s", target)
}

// settleSuccess runs inside the ledger transaction while the row is
// locked: commission resolution, the commission row and the wallet
// credit commit or roll back together with the status change.
func (s *reconcilerService) settleSuccess(ctx context.Context) txnrepo.TransitionFunc {
	return func(tx pgx.Tx, txn *txnmodel.Transaction) error {
		decision, err := s.rateResolver.Resolve(ctx, txn.SchemaID, txn.PGID, txn.Type, txn.Amount)
		if err != nil {
			return fmt.Errorf("failed to resolve commission: %w", err)
		}

		if err := s.ledgerRepo.SetCommission(ctx, tx, txn.ID, decision.Rate, decision.Commission); err != nil {
			return err
		}

		commission := &walletmodel.Commission{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			SchemaID:      txn.SchemaID,
			UserID:        txn.UserID,
			Rate:          decision.Rate,
			Amount:        decision.Commission,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.walletRepo.RecordCommission(ctx, tx, commission); err != nil {
			return err
		}

		// Payins credit the user's wallet net of commission. Payouts were
		// debited up front at initiation, so nothing moves here.
		if txn.Type == gatewayModel.TxnTypePayin {
			net := txn.Amount.Sub(decision.Commission)
			if err := s.walletRepo.Credit(ctx, tx, txn.UserID, net); err != nil {
				return err
			}
		}

		txn.CommissionRate = &decision.Rate
		txn.CommissionAmount = &decision.Commission
		return nil
	}
}

// settleRefund reverses the net wallet credit of a successful payin.
func (s *reconcilerService) settleRefund(ctx context.Context) txnrepo.TransitionFunc {
	return func(tx pgx.Tx, txn *txnmodel.Transaction) error {
		if txn.Type != gatewayModel.TxnTypePayin || txn.CommissionAmount == nil {
			return nil
		}

		net := txn.Amount.Sub(*txn.CommissionAmount)
		return s.walletRepo.Debit(ctx, tx, txn.UserID, net)
	}
}

// mapTransitionError translates ledger errors into webhook outcomes.
// Unknown transactions and illegal edges still answer 200 so the
// gateway stops retrying; only transient failures ask for a retry.
func (s *reconcilerService) mapTransitionError(ctx context.Context, gatewayCode string, rawBody []byte, evt *model.NormalizedEvent, idempotencyKey, target string, err error) (*model.ReconciliationOutcome, error) {
	if errors.Is(err, txnmodel.ErrTransactionNotFound) {
		// The webhook may have raced ahead of transaction creation;
		// keep it retryable so the replay job can pick it up.
		s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeRejected, target, "transaction not found", true, idempotencyKey)
		return &model.ReconciliationOutcome{
			Result:     model.OutcomeRejected,
			Reason:     model.ErrCodeUnknownTransaction,
			HTTPStatus: http.StatusOK,
		}, nil
	}

	if errors.Is(err, txnmodel.ErrInvalidTransition) {
		// A delivery for a state we already passed. When the record is
		// already at the target this is a duplicate push, not an error.
		if txn, lookupErr := s.ledgerRepo.GetByGatewayRef(ctx, evt.GatewayCode, evt.GatewayReference); lookupErr == nil && txn.Status == target {
			s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeDuplicate, txn.Status, "already at target status", false, idempotencyKey)
			return &model.ReconciliationOutcome{
				Result:            model.OutcomeDuplicate,
				TransactionStatus: txn.Status,
				HTTPStatus:        http.StatusOK,
			}, nil
		}

		s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeRejected, target, err.Error(), false, idempotencyKey)
		return &model.ReconciliationOutcome{
			Result:     model.OutcomeRejected,
			Reason:     model.ErrCodeInvalidTransition,
			HTTPStatus: http.StatusOK,
		}, nil
	}

	// No-rate-card on settlement is an operator configuration problem.
	// The ledger rolled back, so the event stays retryable for after
	// the rate card is fixed.
	if errors.Is(err, schemamodel.ErrNoRateCardConfigured) {
		logger.Error("webhook settlement blocked by missing rate card", err, map[string]interface{}{
			"gateway_code": evt.GatewayCode,
			"gateway_ref":  evt.GatewayReference,
		})
		s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeRejected, target, err.Error(), true, idempotencyKey)
		return &model.ReconciliationOutcome{
			Result:     model.OutcomeRejected,
			Reason:     model.ErrCodeProcessingFailed,
			HTTPStatus: http.StatusInternalServerError,
		}, err
	}

	return s.transientFailure(ctx, gatewayCode, rawBody, evt, idempotencyKey, err)
}

// transientFailure records a retryable rejection and asks the gateway
// to deliver again.
func (s *reconcilerService) transientFailure(ctx context.Context, gatewayCode string, rawBody []byte, evt *model.NormalizedEvent, idempotencyKey string, err error) (*model.ReconciliationOutcome, error) {
	logger.Error("webhook processing failed", err, map[string]interface{}{
		"gateway_code": gatewayCode,
	})
	s.recordEvent(ctx, gatewayCode, rawBody, evt, model.OutcomeRejected, "", err.Error(), true, idempotencyKey)
	return &model.ReconciliationOutcome{
		Result:     model.OutcomeRejected,
		Reason:     model.ErrCodeProcessingFailed,
		HTTPStatus: http.StatusInternalServerError,
	}, err
}

// fireSideEffects runs everything that must NOT roll the ledger back:
// bill cache invalidation and the async user notification. Failures are
// logged and left to the worker's retry machinery.
func (s *reconcilerService) fireSideEffects(ctx context.Context, txn *txnmodel.Transaction, target string) {
	if target == txnmodel.StatusSuccess && txn.BillKey != nil && s.billInvalidator != nil {
		if err := s.billInvalidator.InvalidateKey(ctx, *txn.BillKey); err != nil {
			logger.Error("failed to invalidate bill cache", err, map[string]interface{}{
				"transaction_id": txn.ID.String(),
				"bill_key":       *txn.BillKey,
			})
		}
	}

	if !txnmodel.IsTerminal(target) || s.dispatcher == nil {
		return
	}

	payload := queue.TransactionNotificationPayload{
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		GatewayCode:   txn.GatewayCode,
		Status:        target,
		Amount:        txn.Amount.StringFixed(2),
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.dispatcher.EnqueueTransactionNotification(ctx, payload); err != nil {
		logger.Error("failed to enqueue transaction notification", err, map[string]interface{}{
			"transaction_id": txn.ID.String(),
		})
	}
}

// recordEvent appends the audit/idempotency row. Best effort: the
// reconciliation outcome stands even when the audit write fails.
func (s *reconcilerService) recordEvent(ctx context.Context, gatewayCode string, rawBody []byte, evt *model.NormalizedEvent, outcome, txnStatus, reason string, retryable bool, idempotencyKey string) {
	event := &model.WebhookEvent{
		ID:             uuid.New(),
		GatewayCode:    gatewayCode,
		IdempotencyKey: idempotencyKey,
		PayloadDigest:  model.DigestPayload(rawBody),
		RawBody:        rawBody,
		Outcome:        outcome,
		Retryable:      retryable,
		ReceivedAt:     time.Now().UTC(),
	}
	if idempotencyKey == "" && evt != nil {
		event.IdempotencyKey = model.IdempotencyKey(evt.GatewayCode, evt.GatewayReference, evt.EventID, evt.NativeStatus)
	}
	if evt != nil {
		event.GatewayReference = &evt.GatewayReference
	}
	if txnStatus != "" {
		event.TransactionStatus = &txnStatus
	}
	if reason != "" {
		event.Reason = &reason
	}

	if err := s.webhookRepo.Create(ctx, event); err != nil {
		logger.Error("failed to record webhook event", err, map[string]interface{}{
			"gateway_code": gatewayCode,
			"outcome":      outcome,
		})
	}
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
