package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"payhub-backend/internal/domains/wallet/model"
)

// WalletRepoInterface mutates balances only inside a caller-provided
// transaction so wallet effects commit together with ledger transitions.
type WalletRepoInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)

	// Credit adds amount to the user's wallet, creating it on first use.
	Credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount decimal.Decimal) error

	// Debit subtracts amount; returns model.ErrInsufficientBalance
	// without writing when the balance cannot cover it.
	Debit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount decimal.Decimal) error

	// RecordCommission writes the commission row for a transaction.
	RecordCommission(ctx context.Context, tx pgx.Tx, commission *model.Commission) error
}
