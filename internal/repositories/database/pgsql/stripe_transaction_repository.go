package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invobook/invobook/internal/apperrors"
	"github.com/invobook/invobook/internal/core/domain"
	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
	"github.com/invobook/invobook/internal/models"
	"github.com/invobook/invobook/internal/utils/mapping"
)

type PgxStripeTransactionRepository struct {
	BaseRepository
}

// newPgxStripeTransactionRepository creates a new repository for imported
// payment processor transactions.
func newPgxStripeTransactionRepository(pool *pgxpool.Pool) portsrepo.StripeTransactionRepositoryWithTx {
	return &PgxStripeTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxStripeTransactionRepository implements the WithTx facade
var _ portsrepo.StripeTransactionRepositoryWithTx = (*PgxStripeTransactionRepository)(nil)

const stripeTransactionColumns = `transaction_id, stripe_account_id, external_id, type, amount_minor, currency, customer_name, customer_email, customer_country, transaction_date, status, is_complete, linked_invoice_item_id, created_at, created_by, last_updated_at, last_updated_by`

func scanStripeTransaction(row pgx.Row) (models.StripeTransaction, error) {
	var m models.StripeTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.StripeAccountID,
		&m.ExternalID,
		&m.Type,
		&m.AmountMinor,
		&m.Currency,
		&m.CustomerName,
		&m.CustomerEmail,
		&m.CustomerCountry,
		&m.TransactionDate,
		&m.Status,
		&m.IsComplete,
		&m.LinkedInvoiceItemID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction upserts a transaction delivered by the sync job, keyed on
// (stripe_account_id, external_id). Status, link and audit creation fields
// are never overwritten on conflict; the sync job only refreshes the data it
// owns.
func (r *PgxStripeTransactionRepository) SaveTransaction(ctx context.Context, txn domain.StripeTransaction) error {
	m := mapping.ToModelStripeTransaction(txn)

	query := `
		INSERT INTO stripe_transactions (transaction_id, stripe_account_id, external_id, type, amount_minor, currency, customer_name, customer_email, customer_country, transaction_date, status, is_complete, linked_invoice_item_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (stripe_account_id, external_id) DO UPDATE
		SET type = EXCLUDED.type,
			amount_minor = EXCLUDED.amount_minor,
			currency = EXCLUDED.currency,
			customer_name = EXCLUDED.customer_name,
			customer_email = EXCLUDED.customer_email,
			customer_country = EXCLUDED.customer_country,
			transaction_date = EXCLUDED.transaction_date,
			is_complete = EXCLUDED.is_complete,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.StripeAccountID,
		m.ExternalID,
		m.Type,
		m.AmountMinor,
		m.Currency,
		m.CustomerName,
		m.CustomerEmail,
		m.CustomerCountry,
		m.TransactionDate,
		m.Status,
		m.IsComplete,
		m.LinkedInvoiceItemID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxStripeTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.StripeTransaction, error) {
	query := `SELECT ` + stripeTransactionColumns + ` FROM stripe_transactions WHERE transaction_id = $1;`

	m, err := scanStripeTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainStripeTransaction(m)
	return &txn, nil
}

// FindTransactionByExternalID retrieves a transaction by its sync-job key.
func (r *PgxStripeTransactionRepository) FindTransactionByExternalID(ctx context.Context, stripeAccountID string, externalID string) (*domain.StripeTransaction, error) {
	query := `SELECT ` + stripeTransactionColumns + ` FROM stripe_transactions WHERE stripe_account_id = $1 AND external_id = $2;`

	m, err := scanStripeTransaction(r.Pool.QueryRow(ctx, query, stripeAccountID, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by external ID %s: %w", externalID, err)
	}

	txn := mapping.ToDomainStripeTransaction(m)
	return &txn, nil
}

// FindTransactionByIDForUpdate loads a transaction and locks its row until
// the database transaction ends. Two concurrent reconciliations of the same
// transaction serialize here; the second observes the link the first
// committed.
func (r *PgxStripeTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.StripeTransaction, error) {
	query := `SELECT ` + stripeTransactionColumns + ` FROM stripe_transactions WHERE transaction_id = $1 FOR UPDATE;`

	m, err := scanStripeTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find and lock transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainStripeTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves a paginated list of transactions, newest first.
// A nil status means all statuses.
func (r *PgxStripeTransactionRepository) ListTransactions(ctx context.Context, status *domain.StripeTransactionStatus, limit int, offset int) ([]domain.StripeTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + stripeTransactionColumns + ` FROM stripe_transactions`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, transaction_id LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.StripeTransaction{}
	for rows.Next() {
		m, err := scanStripeTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainStripeTransaction(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	return txns, nil
}

// UpdateTransactionStatus advances the transaction's status. INVOICED is
// terminal, so the write is guarded against it at the row level: a caller
// whose in-memory read raced a committing reconciliation cannot overwrite
// the link's status.
func (r *PgxStripeTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.StripeTransactionStatus, userID string, now time.Time) error {
	query := `
		UPDATE stripe_transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status <> $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, string(status), now, userID, string(domain.TransactionStatusInvoiced))
	if err != nil {
		return fmt.Errorf("failed to update transaction %s status: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s status can no longer change", apperrors.ErrConflict, transactionID)
	}
	return nil
}

// LinkTransactionToInvoiceItemInTx records the transaction's link to the
// generated invoice line item and moves it to INVOICED in the same statement.
// The guard on linked_invoice_item_id IS NULL makes the link write
// first-wins even outside the row lock.
func (r *PgxStripeTransactionRepository) LinkTransactionToInvoiceItemInTx(ctx context.Context, tx pgx.Tx, transactionID string, lineItemID string, userID string, now time.Time) error {
	query := `
		UPDATE stripe_transactions
		SET status = $2, linked_invoice_item_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1 AND linked_invoice_item_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, transactionID, string(domain.TransactionStatusInvoiced), lineItemID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to link transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is already linked to an invoice", apperrors.ErrConflict, transactionID)
	}
	return nil
}
