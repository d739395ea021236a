package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"payhub-backend/internal/domains/schema/model"
	"payhub-backend/pkg/cache"
	"payhub-backend/pkg/database"
)

const rateCardCacheTTL = 10 * time.Minute

type schemaRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewSchemaRepository(pool *pgxpool.Pool, c cache.Cache) SchemaRepoInterface {
	return &schemaRepository{pool: pool, cache: c}
}

func rateCardCacheKey(schemaID, pgID uuid.UUID) string {
	return fmt.Sprintf("ratecard:%s:%s", schemaID, pgID)
}

func slabsCacheKey(rateCardID uuid.UUID) string {
	return fmt.Sprintf("slabs:%s", rateCardID)
}

// =====================================================
// SCHEMA METHODS
// =====================================================

func (r *schemaRepository) CreateSchema(ctx context.Context, schema *model.Schema) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if schema.IsDefault {
			// Demote any current default inside the same transaction so
			// the at-most-one-default invariant holds under concurrency.
			if _, err := tx.Exec(ctx, `UPDATE schemas SET is_default = false WHERE is_default = true`); err != nil {
				return fmt.Errorf("failed to demote default schema: %w", err)
			}
		}

		query := `
			INSERT INTO schemas (id, name, description, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.Exec(ctx, query,
			schema.ID,
			schema.Name,
			schema.Description,
			schema.IsDefault,
			schema.CreatedAt,
			schema.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

func (r *schemaRepository) GetSchemaByID(ctx context.Context, id uuid.UUID) (*model.Schema, error) {
	query := `
		SELECT id, name, description, is_default, created_at, updated_at
		FROM schemas
		WHERE id = $1
	`

	schema := &model.Schema{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&schema.ID,
		&schema.Name,
		&schema.Description,
		&schema.IsDefault,
		&schema.CreatedAt,
		&schema.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSchemaNotFound
		}
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	return schema, nil
}

func (r *schemaRepository) GetDefaultSchema(ctx context.Context) (*model.Schema, error) {
	query := `
		SELECT id, name, description, is_default, created_at, updated_at
		FROM schemas
		WHERE is_default = true
	`

	schema := &model.Schema{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&schema.ID,
		&schema.Name,
		&schema.Description,
		&schema.IsDefault,
		&schema.CreatedAt,
		&schema.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSchemaNotFound
		}
		return nil, fmt.Errorf("failed to get default schema: %w", err)
	}

	return schema, nil
}

// SetDefault promotes one schema to default.
// Demote-then-promote runs in a single transaction; the partial unique
// index on (is_default) WHERE is_default rejects any racing writer.
func (r *schemaRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE schemas SET is_default = false WHERE is_default = true AND id <> $1`, id); err != nil {
			return fmt.Errorf("failed to demote default schema: %w", err)
		}

		result, err := tx.Exec(ctx, `UPDATE schemas SET is_default = true, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrDefaultSchemaRace
			}
			return fmt.Errorf("failed to set default schema: %w", err)
		}
		if result.RowsAffected() == 0 {
			return model.ErrSchemaNotFound
		}
		return nil
	})
}

// =====================================================
// RATE CARD METHODS
// =====================================================

func (r *schemaRepository) GetRateCard(ctx context.Context, schemaID, pgID uuid.UUID) (*model.SchemaPGRate, error) {
	if r.cache != nil {
		var cached model.SchemaPGRate
		found, err := r.cache.Get(ctx, rateCardCacheKey(schemaID, pgID), &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	query := `
		SELECT id, schema_id, pg_id, payin_rate, payin_fee_type,
			payout_rate, payout_fee_type, created_at, updated_at
		FROM schema_pg_rates
		WHERE schema_id = $1 AND pg_id = $2
	`

	rate := &model.SchemaPGRate{}
	err := r.pool.QueryRow(ctx, query, schemaID, pgID).Scan(
		&rate.ID,
		&rate.SchemaID,
		&rate.PGID,
		&rate.PayinRate,
		&rate.PayinFeeType,
		&rate.PayoutRate,
		&rate.PayoutFeeType,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRateCardConfigured
		}
		return nil, fmt.Errorf("failed to get rate card: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, rateCardCacheKey(schemaID, pgID), rate, rateCardCacheTTL)
	}

	return rate, nil
}

// CreateRateCard writes the card and its slabs as one unit: a failure
// on any slab rolls the card back, so the resolver can never see a
// slab-less card that was meant to have tiers.
func (r *schemaRepository) CreateRateCard(ctx context.Context, rate *model.SchemaPGRate, slabs []*model.PayoutSlab) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO schema_pg_rates (
				id, schema_id, pg_id, payin_rate, payin_fee_type,
				payout_rate, payout_fee_type, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := tx.Exec(ctx, query,
			rate.ID,
			rate.SchemaID,
			rate.PGID,
			rate.PayinRate,
			rate.PayinFeeType,
			rate.PayoutRate,
			rate.PayoutFeeType,
			rate.CreatedAt,
			rate.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrRateCardExists
			}
			return fmt.Errorf("failed to create rate card: %w", err)
		}

		slabQuery := `
			INSERT INTO payout_slabs (id, schema_pg_rate_id, min_amount, max_amount, rate, fee_type)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, slab := range slabs {
			if _, err := tx.Exec(ctx, slabQuery,
				slab.ID,
				rate.ID,
				slab.MinAmount,
				slab.MaxAmount,
				slab.Rate,
				slab.FeeType,
			); err != nil {
				return fmt.Errorf("failed to insert payout slab: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.cache != nil {
		_ = r.cache.Delete(ctx,
			rateCardCacheKey(rate.SchemaID, rate.PGID),
			slabsCacheKey(rate.ID),
		)
	}

	return nil
}

// =====================================================
// PAYOUT SLAB METHODS
// =====================================================

func (r *schemaRepository) GetSlabs(ctx context.Context, rateCardID uuid.UUID) ([]*model.PayoutSlab, error) {
	if r.cache != nil {
		var cached []*model.PayoutSlab
		found, err := r.cache.Get(ctx, slabsCacheKey(rateCardID), &cached)
		if err == nil && found {
			return cached, nil
		}
	}

	query := `
		SELECT id, schema_pg_rate_id, min_amount, max_amount, rate, fee_type
		FROM payout_slabs
		WHERE schema_pg_rate_id = $1
		ORDER BY min_amount ASC
	`

	rows, err := r.pool.Query(ctx, query, rateCardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout slabs: %w", err)
	}
	defer rows.Close()

	var slabs []*model.PayoutSlab
	for rows.Next() {
		slab := &model.PayoutSlab{}
		err := rows.Scan(
			&slab.ID,
			&slab.SchemaPGRateID,
			&slab.MinAmount,
			&slab.MaxAmount,
			&slab.Rate,
			&slab.FeeType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout slab: %w", err)
		}
		slabs = append(slabs, slab)
	}

	if r.cache != nil {
		_ = r.cache.Set(ctx, slabsCacheKey(rateCardID), slabs, rateCardCacheTTL)
	}

	return slabs, nil
}

