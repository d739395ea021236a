package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatewayModel "payhub-backend/internal/domains/gateway/model"
	gatewayRepo "payhub-backend/internal/domains/gateway/repository"
	"payhub-backend/internal/domains/schema/model"
	"payhub-backend/internal/domains/schema/repository"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type schemaRepoStub struct {
	repository.SchemaRepoInterface

	rateCard *model.SchemaPGRate
	slabs    []*model.PayoutSlab
}

func (s *schemaRepoStub) GetRateCard(ctx context.Context, schemaID, pgID uuid.UUID) (*model.SchemaPGRate, error) {
	if s.rateCard == nil {
		return nil, model.ErrNoRateCardConfigured
	}
	return s.rateCard, nil
}

func (s *schemaRepoStub) GetSlabs(ctx context.Context, rateCardID uuid.UUID) ([]*model.PayoutSlab, error) {
	return s.slabs, nil
}

type gatewayRepoStub struct {
	gatewayRepo.GatewayRepoInterface

	gateway *gatewayModel.PaymentGateway
}

func (s *gatewayRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*gatewayModel.PaymentGateway, error) {
	if s.gateway == nil {
		return nil, gatewayModel.ErrGatewayNotFound
	}
	return s.gateway, nil
}

func newResolver(rateCard *model.SchemaPGRate, slabs []*model.PayoutSlab, maxAmount string) RateResolver {
	return NewRateResolver(
		&schemaRepoStub{rateCard: rateCard, slabs: slabs},
		&gatewayRepoStub{gateway: &gatewayModel.PaymentGateway{
			ID:        uuid.New(),
			Code:      gatewayModel.GatewayCashfree,
			IsActive:  true,
			MaxAmount: d(maxAmount),
		}},
	)
}

func TestResolve_PayinPercentage(t *testing.T) {
	rateCard := &model.SchemaPGRate{
		ID:           uuid.New(),
		PayinRate:    d("0.022"),
		PayinFeeType: gatewayModel.FeeTypePercentage,
	}
	resolver := newResolver(rateCard, nil, "500000")

	decision, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayin, d("1000"))
	require.NoError(t, err)

	assert.True(t, decision.Rate.Equal(d("0.022")))
	assert.Equal(t, gatewayModel.FeeTypePercentage, decision.FeeType)
	assert.Equal(t, "22.00", decision.Commission.StringFixed(2))
	assert.Nil(t, decision.AppliedSlab)
}

func TestResolve_PayinFlat(t *testing.T) {
	rateCard := &model.SchemaPGRate{
		ID:           uuid.New(),
		PayinRate:    d("15"),
		PayinFeeType: gatewayModel.FeeTypeFlat,
	}
	resolver := newResolver(rateCard, nil, "500000")

	decision, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayin, d("1000"))
	require.NoError(t, err)

	// Flat fee ignores the amount
	assert.Equal(t, "15.00", decision.Commission.StringFixed(2))
}

func TestResolve_MissingRateCardIsHardError(t *testing.T) {
	resolver := newResolver(nil, nil, "500000")

	_, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayin, d("1000"))
	assert.ErrorIs(t, err, model.ErrNoRateCardConfigured)
}

func TestResolve_PayoutSlabSelection(t *testing.T) {
	rateCard := &model.SchemaPGRate{ID: uuid.New()}
	slabs := []*model.PayoutSlab{
		{MinAmount: d("0"), MaxAmount: d("10000"), Rate: d("0.010"), FeeType: gatewayModel.FeeTypePercentage},
		{MinAmount: d("10000"), MaxAmount: d("100000"), Rate: d("0.008"), FeeType: gatewayModel.FeeTypePercentage},
		{MinAmount: d("100000"), MaxAmount: d("500000"), Rate: d("0.005"), FeeType: gatewayModel.FeeTypePercentage},
	}
	resolver := newResolver(rateCard, slabs, "500000")

	decision, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayout, d("50000"))
	require.NoError(t, err)

	require.NotNil(t, decision.AppliedSlab)
	assert.True(t, decision.Rate.Equal(d("0.008")))
	assert.Equal(t, "400.00", decision.Commission.StringFixed(2))
}

func TestResolve_PayoutBoundaryAmountTakesHigherSlab(t *testing.T) {
	rateCard := &model.SchemaPGRate{ID: uuid.New()}
	slabs := []*model.PayoutSlab{
		{MinAmount: d("0"), MaxAmount: d("10000"), Rate: d("0.010"), FeeType: gatewayModel.FeeTypePercentage},
		{MinAmount: d("10000"), MaxAmount: d("500000"), Rate: d("0.008"), FeeType: gatewayModel.FeeTypePercentage},
	}
	resolver := newResolver(rateCard, slabs, "500000")

	decision, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayout, d("10000"))
	require.NoError(t, err)

	assert.True(t, decision.Rate.Equal(d("0.008")),
		"boundary amount must resolve to the slab where it is the lower bound")
}

func TestResolve_PayoutAboveGatewayMax(t *testing.T) {
	rateCard := &model.SchemaPGRate{ID: uuid.New()}
	resolver := newResolver(rateCard, nil, "500000")

	_, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayout, d("500000.01"))
	assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
}

func TestResolve_PayoutAtGatewayMaxIsOutOfRange(t *testing.T) {
	rateCard := &model.SchemaPGRate{ID: uuid.New()}
	slabs := []*model.PayoutSlab{
		{MinAmount: d("0"), MaxAmount: d("10000"), Rate: d("0.010"), FeeType: gatewayModel.FeeTypePercentage},
		{MinAmount: d("10000"), MaxAmount: d("500000"), Rate: d("0.008"), FeeType: gatewayModel.FeeTypePercentage},
	}
	resolver := newResolver(rateCard, slabs, "500000")

	// Slabs cover [0, 500000); the max itself falls outside every slab
	// and must be rejected as out of range, not as a slab gap.
	_, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayout, d("500000"))
	assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
}

func TestResolve_PayoutWithoutSlabsUsesFlatRate(t *testing.T) {
	rateCard := &model.SchemaPGRate{
		ID:            uuid.New(),
		PayoutRate:    d("0.012"),
		PayoutFeeType: gatewayModel.FeeTypePercentage,
	}
	resolver := newResolver(rateCard, nil, "500000")

	decision, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayout, d("2000"))
	require.NoError(t, err)

	assert.Nil(t, decision.AppliedSlab)
	assert.Equal(t, "24.00", decision.Commission.StringFixed(2))
}

func TestResolve_CommissionRoundsHalfUp(t *testing.T) {
	rateCard := &model.SchemaPGRate{
		ID:           uuid.New(),
		PayinRate:    d("0.0225"),
		PayinFeeType: gatewayModel.FeeTypePercentage,
	}
	resolver := newResolver(rateCard, nil, "500000")

	// 111 * 0.0225 = 2.4975 -> 2.50
	decision, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayin, d("111"))
	require.NoError(t, err)
	assert.Equal(t, "2.50", decision.Commission.StringFixed(2))

	// 100.2 * 0.0225 = 2.2545 -> 2.25
	decision, err = resolver.Resolve(context.Background(), uuid.New(), uuid.New(), gatewayModel.TxnTypePayin, d("100.2"))
	require.NoError(t, err)
	assert.Equal(t, "2.25", decision.Commission.StringFixed(2))
}

func TestResolve_UnknownTransactionType(t *testing.T) {
	rateCard := &model.SchemaPGRate{ID: uuid.New()}
	resolver := newResolver(rateCard, nil, "500000")

	_, err := resolver.Resolve(context.Background(), uuid.New(), uuid.New(), "TRANSFER", d("100"))
	assert.Error(t, err)
}
