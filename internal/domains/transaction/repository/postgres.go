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
	"github.com/shopspring/decimal"

	"payhub-backend/internal/domains/transaction/model"
	"payhub-backend/pkg/database"
)

type ledgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) LedgerRepoInterface {
	return &ledgerRepository{pool: pool}
}

const transactionColumns = `
	id, user_id, schema_id, pg_id, gateway_code, gateway_reference,
	type, amount, currency, status, error_code, error_message,
	commission_rate, commission_amount, bill_key,
	initiated_at, processing_at, completed_at, failed_at, refunded_at,
	created_at, updated_at
`

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	txn := &model.Transaction{}
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.SchemaID,
		&txn.PGID,
		&txn.GatewayCode,
		&txn.GatewayReference,
		&txn.Type,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&txn.ErrorCode,
		&txn.ErrorMessage,
		&txn.CommissionRate,
		&txn.CommissionAmount,
		&txn.BillKey,
		&txn.InitiatedAt,
		&txn.ProcessingAt,
		&txn.CompletedAt,
		&txn.FailedAt,
		&txn.RefundedAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *ledgerRepository) Create(ctx context.Context, txn *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, user_id, schema_id, pg_id, gateway_code, gateway_reference,
			type, amount, currency, status, bill_key,
			initiated_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.SchemaID,
		txn.PGID,
		txn.GatewayCode,
		txn.GatewayReference,
		txn.Type,
		txn.Amount,
		txn.Currency,
		txn.Status,
		txn.BillKey,
		txn.InitiatedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// Unique (gateway_code, gateway_reference) violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateReference
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

func (r *ledgerRepository) GetByGatewayRef(ctx context.Context, gatewayCode, gatewayRef string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE gateway_code = $1 AND gateway_reference = $2`

	txn, err := scanTransaction(r.pool.QueryRow(ctx, query, gatewayCode, gatewayRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}

	return txn, nil
}

// Transition applies one state machine edge atomically.
//
// Flow inside a single database transaction:
// 1. Lock the transaction row by gateway reference (FOR UPDATE).
//    Concurrent webhook deliveries for the same reference queue here;
//    deliveries for other references are untouched.
// 2. Check the current status against fromAllowed and the state
//    machine; reject without writing on any mismatch.
// 3. Update status and the matching lifecycle timestamp.
// 4. Run the apply callback (commission write, wallet credit) on the
//    same pgx.Tx, so all effects commit or roll back together.
func (r *ledgerRepository) Transition(
	ctx context.Context,
	gatewayCode, gatewayRef string,
	fromAllowed []string,
	to string,
	apply TransitionFunc,
) (*model.Transaction, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Transaction, error) {
		query := `SELECT ` + transactionColumns + `
			FROM transactions
			WHERE gateway_code = $1 AND gateway_reference = $2
			FOR UPDATE`

		txn, err := scanTransaction(tx.QueryRow(ctx, query, gatewayCode, gatewayRef))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrTransactionNotFound
			}
			return nil, fmt.Errorf("failed to lock transaction: %w", err)
		}

		fromOK := false
		for _, allowed := range fromAllowed {
			if txn.Status == allowed {
				fromOK = true
				break
			}
		}
		if !fromOK || !model.CanTransition(txn.Status, to) {
			return nil, model.NewInvalidTransitionError(txn.Status, to)
		}

		now := time.Now()
		update := `UPDATE transactions SET status = $1, updated_at = $2`
		args := []interface{}{to, now}

		switch to {
		case model.StatusProcessing:
			update += `, processing_at = $3`
			args = append(args, now)
		case model.StatusSuccess:
			update += `, completed_at = $3`
			args = append(args, now)
		case model.StatusFailed:
			update += `, failed_at = $3`
			args = append(args, now)
		case model.StatusRefunded:
			update += `, refunded_at = $3`
			args = append(args, now)
		}

		update += fmt.Sprintf(` WHERE id = $%d`, len(args)+1)
		args = append(args, txn.ID)

		if _, err := tx.Exec(ctx, update, args...); err != nil {
			return nil, fmt.Errorf("failed to update transaction status: %w", err)
		}

		txn.Status = to
		txn.UpdatedAt = now

		if apply != nil {
			if err := apply(tx, txn); err != nil {
				return nil, err
			}
		}

		return txn, nil
	})
}

func (r *ledgerRepository) SetCommission(ctx context.Context, tx pgx.Tx, txnID uuid.UUID, rate, amount decimal.Decimal) error {
	query := `
		UPDATE transactions
		SET commission_rate = $2, commission_amount = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, txnID, rate, amount)
	if err != nil {
		return fmt.Errorf("failed to set commission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrTransactionNotFound
	}

	return nil
}
