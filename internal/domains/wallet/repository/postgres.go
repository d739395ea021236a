package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"payhub-backend/internal/domains/wallet/model"
)

type walletRepository struct {
	pool *pgxpool.Pool
}

func NewWalletRepository(pool *pgxpool.Pool) WalletRepoInterface {
	return &walletRepository{pool: pool}
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	wallet := &model.Wallet{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("wallet not found for user %s", userID)
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return wallet, nil
}

func (r *walletRepository) Credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount decimal.Decimal) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
	`

	if _, err := tx.Exec(ctx, query, uuid.New(), userID, amount); err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	return nil
}

func (r *walletRepository) Debit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount decimal.Decimal) error {
	// Lock the row so the balance check and the write are one unit.
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrInsufficientBalance
		}
		return fmt.Errorf("failed to lock wallet: %w", err)
	}

	if balance.LessThan(amount) {
		return model.ErrInsufficientBalance
	}

	query := `UPDATE wallets SET balance = balance - $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := tx.Exec(ctx, query, userID, amount); err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	return nil
}

func (r *walletRepository) RecordCommission(ctx context.Context, tx pgx.Tx, commission *model.Commission) error {
	query := `
		INSERT INTO commissions (id, transaction_id, schema_id, user_id, rate, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		commission.ID,
		commission.TransactionID,
		commission.SchemaID,
		commission.UserID,
		commission.Rate,
		commission.Amount,
		commission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record commission: %w", err)
	}

	return nil
}
