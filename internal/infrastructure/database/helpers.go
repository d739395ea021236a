package database

import (
	"context"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v5"

	"payhub-backend/pkg/logger"
)

// Ping verifies the database is reachable and accepting connections.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// PoolStats is a snapshot of connection pool utilization.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	stat := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
	}, nil
}

// BeginTx starts a transaction with the given isolation level.
// Ledger transitions use the default ReadCommitted; the row lock does
// the serialization.
func (db *PostgresDB) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	tx, err := db.Pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return tx, nil
}

// MonitorPoolHealth periodically logs pool utilization until ctx ends.
// Started as a goroutine in long-running processes.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				continue
			}

			logger.Debug("database pool stats")
			if stats.AcquiredConns >= stats.MaxConns {
				logger.Warn("database pool exhausted", map[string]interface{}{
					"acquired": stats.AcquiredConns,
					"max":      stats.MaxConns,
				})
			}
		}
	}
}
