package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gatewayRepo "payhub-backend/internal/domains/gateway/repository"
	"payhub-backend/internal/domains/schema/model"
	"payhub-backend/internal/domains/schema/repository"
)

type schemaService struct {
	schemaRepo  repository.SchemaRepoInterface
	gatewayRepo gatewayRepo.GatewayRepoInterface
}

func NewSchemaService(
	schemaRepo repository.SchemaRepoInterface,
	gatewayRepo gatewayRepo.GatewayRepoInterface,
) SchemaService {
	return &schemaService{
		schemaRepo:  schemaRepo,
		gatewayRepo: gatewayRepo,
	}
}

func (s *schemaService) CreateSchema(ctx context.Context, req model.CreateSchemaRequest) (*model.Schema, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	schema := &model.Schema{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		IsDefault:   req.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.schemaRepo.CreateSchema(ctx, schema); err != nil {
		return nil, err
	}

	return schema, nil
}

func (s *schemaService) SetDefaultSchema(ctx context.Context, schemaID uuid.UUID) error {
	return s.schemaRepo.SetDefault(ctx, schemaID)
}

// ConfigureRateCard provisions the rate card for (schema, gateway).
// Tier multipliers are applied by the provisioning caller before this
// point; rates arrive here final. Slab coverage is validated against
// the gateway's max amount so a broken layout never reaches the
// resolver.
func (s *schemaService) ConfigureRateCard(ctx context.Context, req model.ConfigureRateCardRequest) (*model.SchemaPGRate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.schemaRepo.GetSchemaByID(ctx, req.SchemaID); err != nil {
		return nil, err
	}

	gw, err := s.gatewayRepo.GetByID(ctx, req.PGID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rateCard := &model.SchemaPGRate{
		ID:            uuid.New(),
		SchemaID:      req.SchemaID,
		PGID:          req.PGID,
		PayinRate:     req.PayinRate,
		PayinFeeType:  req.PayinFeeType,
		PayoutRate:    req.PayoutRate,
		PayoutFeeType: req.PayoutFeeType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	slabs := make([]*model.PayoutSlab, 0, len(req.Slabs))
	for _, in := range req.Slabs {
		slabs = append(slabs, &model.PayoutSlab{
			ID:             uuid.New(),
			SchemaPGRateID: rateCard.ID,
			MinAmount:      in.MinAmount,
			MaxAmount:      in.MaxAmount,
			Rate:           in.Rate,
			FeeType:        in.FeeType,
		})
	}

	if err := model.ValidateSlabCoverage(slabs, gw.MaxAmount); err != nil {
		return nil, fmt.Errorf("invalid slab configuration: %w", err)
	}

	// Card and slabs commit together; the resolver never observes a
	// half-provisioned rate card.
	if err := s.schemaRepo.CreateRateCard(ctx, rateCard, slabs); err != nil {
		return nil, err
	}

	return rateCard, nil
}
