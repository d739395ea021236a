package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	gatewayModel "payhub-backend/internal/domains/gateway/model"
	gatewayRepo "payhub-backend/internal/domains/gateway/repository"
	schemaService "payhub-backend/internal/domains/schema/service"
	"payhub-backend/internal/domains/transaction/model"
	"payhub-backend/internal/domains/transaction/repository"
)

type paymentService struct {
	ledgerRepo   repository.LedgerRepoInterface
	gatewayRepo  gatewayRepo.GatewayRepoInterface
	rateResolver schemaService.RateResolver
}

func NewPaymentService(
	ledgerRepo repository.LedgerRepoInterface,
	gatewayRepo gatewayRepo.GatewayRepoInterface,
	rateResolver schemaService.RateResolver,
) PaymentService {
	return &paymentService{
		ledgerRepo:   ledgerRepo,
		gatewayRepo:  gatewayRepo,
		rateResolver: rateResolver,
	}
}

// CreatePayment initiates a transaction.
//
// Business Logic Flow:
// 1. Validate request
// 2. Load gateway config; must be active, support the transaction
//    type and cover the amount
// 3. Resolve the rate up front so configuration errors
//    (NoRateCardConfigured, AmountOutOfRange) fail the request with a
//    user-facing message instead of surfacing after the gateway call
// 4. Create the ledger record in INITIATED
// 5. Move to PROCESSING on gateway hand-off
func (s *paymentService) CreatePayment(
	ctx context.Context,
	userID uuid.UUID,
	req model.CreatePaymentRequest,
) (*model.CreatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewTransactionError(model.ErrCodeInternalError, "Invalid request", err)
	}

	gw, err := s.gatewayRepo.GetByCode(ctx, req.GatewayCode)
	if err != nil {
		return nil, model.NewTransactionError(model.ErrCodeGatewayUnsupported, "Unknown payment gateway", err)
	}

	if !gw.IsActive {
		return nil, model.NewTransactionError(model.ErrCodeGatewayUnsupported,
			fmt.Sprintf("Gateway %s is not active", gw.Code), gatewayModel.ErrGatewayInactive)
	}

	if !gw.SupportsType(req.Type) {
		return nil, model.NewTransactionError(model.ErrCodeGatewayUnsupported,
			fmt.Sprintf("Gateway %s does not support %s", gw.Code, req.Type), gatewayModel.ErrInvalidGateway)
	}

	if !gw.AmountInBounds(req.Amount) {
		return nil, model.NewTransactionError(model.ErrCodeAmountOutOfRange,
			fmt.Sprintf("Amount must be between %s and %s", gw.MinAmount, gw.MaxAmount),
			gatewayModel.ErrAmountOutOfRange)
	}

	decision, err := s.rateResolver.Resolve(ctx, req.SchemaID, gw.ID, req.Type, req.Amount)
	if err != nil {
		return nil, model.NewTransactionError(model.ErrCodeNoRateCard, "Rate resolution failed", err)
	}

	now := time.Now()
	txn := &model.Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		SchemaID:         req.SchemaID,
		PGID:             gw.ID,
		GatewayCode:      gw.Code,
		GatewayReference: newGatewayReference(),
		Type:             req.Type,
		Amount:           req.Amount,
		Currency:         strings.ToUpper(req.Currency),
		Status:           model.StatusInitiated,
		BillKey:          req.BillKey,
		InitiatedAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.ledgerRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	// Hand-off to the gateway client happens outside this service;
	// the ledger moves to PROCESSING once the reference is issued.
	txn, err = s.ledgerRepo.Transition(
		ctx,
		txn.GatewayCode,
		txn.GatewayReference,
		[]string{model.StatusInitiated},
		model.StatusProcessing,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &model.CreatePaymentResponse{
		TransactionID:    txn.ID,
		GatewayReference: txn.GatewayReference,
		Status:           txn.Status,
		Amount:           txn.Amount,
		Rate:             decision.Rate,
		FeeType:          decision.FeeType,
		Commission:       decision.Commission,
	}, nil
}

func (s *paymentService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.ledgerRepo.GetByID(ctx, id)
}

// newGatewayReference issues the order reference passed to the gateway.
func newGatewayReference() string {
	return "TXN_" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
}
