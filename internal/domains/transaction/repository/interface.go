package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"payhub-backend/internal/domains/transaction/model"
)

// TransitionFunc runs inside the ledger transition's database
// transaction. Commission writes and wallet credits go here so they
// commit or roll back together with the status change.
type TransitionFunc func(tx pgx.Tx, txn *model.Transaction) error

// LedgerRepoInterface is the sole writer of transaction state.
type LedgerRepoInterface interface {
	Create(ctx context.Context, txn *model.Transaction) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)

	GetByGatewayRef(ctx context.Context, gatewayCode, gatewayRef string) (*model.Transaction, error)

	// Transition moves a transaction along the state machine.
	//
	// The row is locked (SELECT ... FOR UPDATE) for the duration, so
	// concurrent deliveries for the same gateway reference serialize
	// while different references proceed in parallel. The status
	// update and everything done by apply are one atomic unit.
	//
	// Returns model.ErrTransactionNotFound for an unknown reference and
	// a *model.TransactionError wrapping model.ErrInvalidTransition
	// when the current status is not in fromAllowed or the edge is not
	// in the state machine; the record is left untouched in that case.
	Transition(
		ctx context.Context,
		gatewayCode, gatewayRef string,
		fromAllowed []string,
		to string,
		apply TransitionFunc,
	) (*model.Transaction, error)

	// SetCommission persists the resolved commission inside the
	// caller's transaction.
	SetCommission(ctx context.Context, tx pgx.Tx, txnID uuid.UUID, rate, amount decimal.Decimal) error
}
