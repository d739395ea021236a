package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"payhub-backend/internal/domains/gateway/model"
	"payhub-backend/pkg/cache"
)

const gatewayCacheTTL = 10 * time.Minute

type gatewayRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewGatewayRepository(pool *pgxpool.Pool, c cache.Cache) GatewayRepoInterface {
	return &gatewayRepository{pool: pool, cache: c}
}

func gatewayCacheKey(code string) string {
	return "gateway:code:" + code
}

func gatewayIDCacheKey(id uuid.UUID) string {
	return "gateway:id:" + id.String()
}

// GetByCode reads gateway config through the cache.
// Admin writes happen out-of-process; the staleness window is bounded
// by the cache TTL, which is acceptable for rate-card configuration.
func (r *gatewayRepository) GetByCode(ctx context.Context, code string) (*model.PaymentGateway, error) {
	if r.cache != nil {
		var cached model.PaymentGateway
		found, err := r.cache.Get(ctx, gatewayCacheKey(code), &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	query := `
		SELECT id, code, name, is_active, supports_payin, supports_payout,
			base_rate, min_amount, max_amount, created_at, updated_at
		FROM payment_gateways
		WHERE code = $1
	`

	gw := &model.PaymentGateway{}
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&gw.ID,
		&gw.Code,
		&gw.Name,
		&gw.IsActive,
		&gw.SupportsPayin,
		&gw.SupportsPayout,
		&gw.BaseRate,
		&gw.MinAmount,
		&gw.MaxAmount,
		&gw.CreatedAt,
		&gw.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGatewayNotFound
		}
		return nil, fmt.Errorf("failed to get gateway %s: %w", code, err)
	}

	if r.cache != nil {
		// Cache failures are non-critical
		_ = r.cache.Set(ctx, gatewayCacheKey(code), gw, gatewayCacheTTL)
	}

	return gw, nil
}

func (r *gatewayRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentGateway, error) {
	if r.cache != nil {
		var cached model.PaymentGateway
		found, err := r.cache.Get(ctx, gatewayIDCacheKey(id), &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	query := `
		SELECT id, code, name, is_active, supports_payin, supports_payout,
			base_rate, min_amount, max_amount, created_at, updated_at
		FROM payment_gateways
		WHERE id = $1
	`

	gw := &model.PaymentGateway{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&gw.ID,
		&gw.Code,
		&gw.Name,
		&gw.IsActive,
		&gw.SupportsPayin,
		&gw.SupportsPayout,
		&gw.BaseRate,
		&gw.MinAmount,
		&gw.MaxAmount,
		&gw.CreatedAt,
		&gw.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGatewayNotFound
		}
		return nil, fmt.Errorf("failed to get gateway %s: %w", id, err)
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, gatewayIDCacheKey(id), gw, gatewayCacheTTL)
	}

	return gw, nil
}

func (r *gatewayRepository) ListActive(ctx context.Context) ([]*model.PaymentGateway, error) {
	query := `
		SELECT id, code, name, is_active, supports_payin, supports_payout,
			base_rate, min_amount, max_amount, created_at, updated_at
		FROM payment_gateways
		WHERE is_active = true
		ORDER BY code ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list gateways: %w", err)
	}
	defer rows.Close()

	var gateways []*model.PaymentGateway
	for rows.Next() {
		gw := &model.PaymentGateway{}
		err := rows.Scan(
			&gw.ID,
			&gw.Code,
			&gw.Name,
			&gw.IsActive,
			&gw.SupportsPayin,
			&gw.SupportsPayout,
			&gw.BaseRate,
			&gw.MinAmount,
			&gw.MaxAmount,
			&gw.CreatedAt,
			&gw.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gateway: %w", err)
		}
		gateways = append(gateways, gw)
	}

	return gateways, nil
}
