package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	gatewayModel "payhub-backend/internal/domains/gateway/model"
	gatewayRepo "payhub-backend/internal/domains/gateway/repository"
	"payhub-backend/internal/domains/schema/model"
	"payhub-backend/internal/domains/schema/repository"
	"payhub-backend/pkg/logger"
)

// commissionPlaces is the minor currency unit precision.
const commissionPlaces = 2

type rateResolver struct {
	schemaRepo  repository.SchemaRepoInterface
	gatewayRepo gatewayRepo.GatewayRepoInterface
}

func NewRateResolver(
	schemaRepo repository.SchemaRepoInterface,
	gatewayRepo gatewayRepo.GatewayRepoInterface,
) RateResolver {
	return &rateResolver{
		schemaRepo:  schemaRepo,
		gatewayRepo: gatewayRepo,
	}
}

// Resolve computes the effective rate for (schema, gateway, type, amount).
//
// Business Logic Flow:
// 1. Load the rate card; absence is a hard error, never a silent
//    fallback to the gateway base rate (that would mask missing setup)
// 2. PAYIN: apply the payin rate directly per fee type
// 3. PAYOUT: select the slab containing the amount (half-open
//    [min, max) intervals); no slabs configured means the flat payout
//    rate applies; amount at or above the gateway max is out of range
// 4. Commission rounds half-up to the minor currency unit
func (r *rateResolver) Resolve(
	ctx context.Context,
	schemaID, pgID uuid.UUID,
	txnType string,
	amount decimal.Decimal,
) (*model.RateDecision, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative")
	}

	rateCard, err := r.schemaRepo.GetRateCard(ctx, schemaID, pgID)
	if err != nil {
		return nil, err
	}

	switch txnType {
	case gatewayModel.TxnTypePayin:
		return r.resolvePayin(rateCard, amount)
	case gatewayModel.TxnTypePayout:
		return r.resolvePayout(ctx, rateCard, pgID, amount)
	default:
		return nil, fmt.Errorf("unknown transaction type: %s", txnType)
	}
}

func (r *rateResolver) resolvePayin(rateCard *model.SchemaPGRate, amount decimal.Decimal) (*model.RateDecision, error) {
	return &model.RateDecision{
		Rate:       rateCard.PayinRate,
		FeeType:    rateCard.PayinFeeType,
		Commission: computeCommission(rateCard.PayinRate, rateCard.PayinFeeType, amount),
	}, nil
}

func (r *rateResolver) resolvePayout(
	ctx context.Context,
	rateCard *model.SchemaPGRate,
	pgID uuid.UUID,
	amount decimal.Decimal,
) (*model.RateDecision, error) {
	gw, err := r.gatewayRepo.GetByID(ctx, pgID)
	if err != nil {
		return nil, err
	}

	// Slabs tile the half-open domain [0, MaxAmount), so the max itself
	// is already out of range.
	if amount.GreaterThanOrEqual(gw.MaxAmount) {
		return nil, model.ErrAmountOutOfRange
	}

	slabs, err := r.schemaRepo.GetSlabs(ctx, rateCard.ID)
	if err != nil {
		return nil, err
	}

	if len(slabs) == 0 {
		// No slabs configured: flat payout rate applies
		return &model.RateDecision{
			Rate:       rateCard.PayoutRate,
			FeeType:    rateCard.PayoutFeeType,
			Commission: computeCommission(rateCard.PayoutRate, rateCard.PayoutFeeType, amount),
		}, nil
	}

	slab := model.FindSlab(slabs, amount)
	if slab == nil {
		// Coverage is validated at write time, so an in-range amount
		// with no slab is a configuration anomaly worth surfacing.
		logger.Error("no payout slab covers in-range amount", model.ErrNoSlabForAmount)
		return nil, model.ErrNoSlabForAmount
	}

	return &model.RateDecision{
		Rate:        slab.Rate,
		FeeType:     slab.FeeType,
		AppliedSlab: slab,
		Commission:  computeCommission(slab.Rate, slab.FeeType, amount),
	}, nil
}

// computeCommission applies a rate to an amount in fixed-point decimal
// arithmetic and rounds half-up to the minor currency unit.
func computeCommission(rate decimal.Decimal, feeType string, amount decimal.Decimal) decimal.Decimal {
	var commission decimal.Decimal
	switch feeType {
	case gatewayModel.FeeTypeFlat:
		commission = rate
	default:
		commission = amount.Mul(rate)
	}

	// decimal.Round rounds half away from zero, which is round-half-up
	// for the non-negative amounts handled here.
	return commission.Round(commissionPlaces)
}
