package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatewayModel "payhub-backend/internal/domains/gateway/model"
	gatewayRepo "payhub-backend/internal/domains/gateway/repository"
	schemaModel "payhub-backend/internal/domains/schema/model"
	"payhub-backend/internal/domains/transaction/model"
	"payhub-backend/internal/domains/transaction/repository"
)

// =====================================================
// STUBS
// =====================================================

type ledgerStub struct {
	repository.LedgerRepoInterface

	created   *model.Transaction
	createErr error
}

func (s *ledgerStub) Create(ctx context.Context, txn *model.Transaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = txn
	return nil
}

func (s *ledgerStub) Transition(ctx context.Context, gatewayCode, gatewayRef string, fromAllowed []string, to string, apply repository.TransitionFunc) (*model.Transaction, error) {
	if s.created == nil {
		return nil, model.ErrTransactionNotFound
	}
	s.created.Status = to
	return s.created, nil
}

type gatewayStub struct {
	gatewayRepo.GatewayRepoInterface

	gw *gatewayModel.PaymentGateway
}

func (s *gatewayStub) GetByCode(ctx context.Context, code string) (*gatewayModel.PaymentGateway, error) {
	if s.gw == nil || s.gw.Code != code {
		return nil, gatewayModel.ErrGatewayNotFound
	}
	return s.gw, nil
}

type resolverStub struct {
	decision *schemaModel.RateDecision
	err      error
}

func (s *resolverStub) Resolve(ctx context.Context, schemaID, pgID uuid.UUID, txnType string, amount decimal.Decimal) (*schemaModel.RateDecision, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.decision, nil
}

func activeGateway() *gatewayModel.PaymentGateway {
	return &gatewayModel.PaymentGateway{
		ID:             uuid.New(),
		Code:           gatewayModel.GatewayCashfree,
		IsActive:       true,
		SupportsPayin:  true,
		SupportsPayout: false,
		MinAmount:      decimal.RequireFromString("1"),
		MaxAmount:      decimal.RequireFromString("100000"),
	}
}

func validRequest() model.CreatePaymentRequest {
	return model.CreatePaymentRequest{
		SchemaID:    uuid.New(),
		GatewayCode: gatewayModel.GatewayCashfree,
		Type:        gatewayModel.TxnTypePayin,
		Amount:      decimal.RequireFromString("1000"),
		Currency:    "inr",
	}
}

func newService(ledger *ledgerStub, gw *gatewayModel.PaymentGateway, resolver *resolverStub) PaymentService {
	if resolver == nil {
		resolver = &resolverStub{decision: &schemaModel.RateDecision{
			Rate:       decimal.RequireFromString("0.022"),
			FeeType:    gatewayModel.FeeTypePercentage,
			Commission: decimal.RequireFromString("22.00"),
		}}
	}
	return NewPaymentService(ledger, &gatewayStub{gw: gw}, resolver)
}

// =====================================================
// TESTS
// =====================================================

func TestCreatePayment_Success(t *testing.T) {
	ledger := &ledgerStub{}
	svc := newService(ledger, activeGateway(), nil)

	resp, err := svc.CreatePayment(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, model.StatusProcessing, resp.Status)
	assert.True(t, strings.HasPrefix(resp.GatewayReference, "TXN_"))
	assert.Equal(t, "22.00", resp.Commission.StringFixed(2))

	require.NotNil(t, ledger.created)
	assert.Equal(t, "INR", ledger.created.Currency, "currency normalizes to upper case")
	assert.Equal(t, resp.GatewayReference, ledger.created.GatewayReference)
}

func TestCreatePayment_InvalidRequest(t *testing.T) {
	svc := newService(&ledgerStub{}, activeGateway(), nil)

	req := validRequest()
	req.Type = "TRANSFER"

	_, err := svc.CreatePayment(context.Background(), uuid.New(), req)
	require.Error(t, err)

	var txnErr *model.TransactionError
	require.ErrorAs(t, err, &txnErr)
}

func TestCreatePayment_UnknownGateway(t *testing.T) {
	svc := newService(&ledgerStub{}, nil, nil)

	_, err := svc.CreatePayment(context.Background(), uuid.New(), validRequest())

	var txnErr *model.TransactionError
	require.ErrorAs(t, err, &txnErr)
	assert.Equal(t, model.ErrCodeGatewayUnsupported, txnErr.Code)
}

func TestCreatePayment_InactiveGateway(t *testing.T) {
	gw := activeGateway()
	gw.IsActive = false
	svc := newService(&ledgerStub{}, gw, nil)

	_, err := svc.CreatePayment(context.Background(), uuid.New(), validRequest())
	assert.ErrorIs(t, err, gatewayModel.ErrGatewayInactive)
}

func TestCreatePayment_UnsupportedType(t *testing.T) {
	svc := newService(&ledgerStub{}, activeGateway(), nil)

	req := validRequest()
	req.Type = gatewayModel.TxnTypePayout

	_, err := svc.CreatePayment(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, gatewayModel.ErrInvalidGateway)
}

func TestCreatePayment_AmountOutOfBounds(t *testing.T) {
	svc := newService(&ledgerStub{}, activeGateway(), nil)

	req := validRequest()
	req.Amount = decimal.RequireFromString("100000.01")

	_, err := svc.CreatePayment(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, gatewayModel.ErrAmountOutOfRange)
}

func TestCreatePayment_MissingRateCardFailsBeforeLedgerWrite(t *testing.T) {
	ledger := &ledgerStub{}
	resolver := &resolverStub{err: schemaModel.ErrNoRateCardConfigured}
	svc := newService(ledger, activeGateway(), resolver)

	_, err := svc.CreatePayment(context.Background(), uuid.New(), validRequest())
	assert.ErrorIs(t, err, schemaModel.ErrNoRateCardConfigured)
	assert.Nil(t, ledger.created, "no ledger record for an unresolvable rate")
}

func TestCreatePayment_LedgerWriteFailure(t *testing.T) {
	ledger := &ledgerStub{createErr: errors.New("connection reset")}
	svc := newService(ledger, activeGateway(), nil)

	_, err := svc.CreatePayment(context.Background(), uuid.New(), validRequest())
	assert.Error(t, err)
}

func TestNewGatewayReference_Format(t *testing.T) {
	ref := newGatewayReference()
	assert.True(t, strings.HasPrefix(ref, "TXN_"))
	assert.Len(t, ref, 20)
	assert.Equal(t, ref, strings.ToUpper(ref))
}
