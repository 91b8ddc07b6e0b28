package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invobook/invobook/internal/apperrors"
	"github.com/invobook/invobook/internal/core/domain"
	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
	"github.com/invobook/invobook/internal/models"
	"github.com/invobook/invobook/internal/utils/mapping"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, status, payee_id, invoice_number, invoice_date, total_amount_minor, currency, parent_invoice_id, document_ref, document_ref_secondary, generated_at, error_message, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.Status,
		&m.PayeeID,
		&m.InvoiceNumber,
		&m.InvoiceDate,
		&m.TotalAmountMinor,
		&m.Currency,
		&m.ParentInvoiceID,
		&m.DocumentRef,
		&m.DocumentRefSecondary,
		&m.GeneratedAt,
		&m.ErrorMessage,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertInvoiceQuery = `
	INSERT INTO invoices (invoice_id, status, payee_id, invoice_number, invoice_date, total_amount_minor, currency, parent_invoice_id, document_ref, document_ref_secondary, generated_at, error_message, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`

func execInsertInvoice(ctx context.Context, q querier, m models.Invoice) error {
	_, err := q.Exec(ctx, insertInvoiceQuery,
		m.InvoiceID,
		m.Status,
		m.PayeeID,
		m.InvoiceNumber,
		m.InvoiceDate,
		m.TotalAmountMinor,
		m.Currency,
		m.ParentInvoiceID,
		m.DocumentRef,
		m.DocumentRefSecondary,
		m.GeneratedAt,
		m.ErrorMessage,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, m.InvoiceID)
		}
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}
	return nil
}

// SaveInvoice inserts a new invoice and its line items.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := r.SaveInvoiceInTx(ctx, tx, invoice); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveInvoiceInTx persists a new invoice and its line items inside the given
// transaction.
func (r *PgxInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	if err := execInsertInvoice(ctx, tx, mapping.ToModelInvoice(invoice)); err != nil {
		return err
	}
	return insertLineItems(ctx, tx, "invoice_line_items", "invoice_id", invoice.InvoiceID, invoice.LineItems)
}

// FindInvoiceByID retrieves an invoice with its line items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	items, err := queryLineItems(ctx, r.Pool, "invoice_line_items", "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}

	invoice := mapping.ToDomainInvoice(m, items)
	return &invoice, nil
}

// FindInvoiceByIDForUpdate loads an invoice with its line items and locks the
// invoice row until the transaction ends.
func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`

	m, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find and lock invoice %s: %w", invoiceID, err)
	}

	items, err := queryLineItems(ctx, tx, "invoice_line_items", "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}

	invoice := mapping.ToDomainInvoice(m, items)
	return &invoice, nil
}

// ListInvoices retrieves a paginated list of invoices, newest first. A nil
// status means all statuses.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += fmt.Sprintf(` ORDER BY invoice_date DESC, invoice_id LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m, nil))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}

	for i := range invoices {
		items, err := queryLineItems(ctx, r.Pool, "invoice_line_items", "invoice_id", invoices[i].InvoiceID)
		if err != nil {
			return nil, err
		}
		invoices[i].LineItems = mapping.ToDomainLineItems(items)
	}

	return invoices, nil
}

// UpdateInvoice rewrites the invoice's mutable fields and replaces its line
// items atomically.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE invoices
		SET payee_id = $2, invoice_date = $3, total_amount_minor = $4, currency = $5, parent_invoice_id = $6, error_message = $7, last_updated_at = $8, last_updated_by = $9
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.PayeeID,
		m.InvoiceDate,
		m.TotalAmountMinor,
		m.Currency,
		m.ParentInvoiceID,
		m.ErrorMessage,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update invoice %s: %w", m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := replaceLineItems(ctx, tx, "invoice_line_items", "invoice_id", invoice.InvoiceID, invoice.LineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateInvoiceStatus advances the invoice's status.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, userID string, now time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, invoiceID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s status: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateGeneratedDocuments persists regenerated document references without
// touching number, totals or status.
func (r *PgxInvoiceRepository) UpdateGeneratedDocuments(ctx context.Context, invoiceID string, docs domain.GeneratedDocuments, generatedAt time.Time, userID string, now time.Time) error {
	query := `
		UPDATE invoices
		SET document_ref = $2, document_ref_secondary = $3, generated_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, invoiceID, docs.Primary, docs.Secondary, generatedAt, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s documents: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateInvoiceFinalizationInTx writes the outcome of a successful
// finalization: the assigned number, the recomputed totals, the generated
// document references and the advanced status, all inside the caller's
// transaction.
func (r *PgxInvoiceRepository) UpdateInvoiceFinalizationInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, userID string, now time.Time) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		UPDATE invoices
		SET status = $2, invoice_number = $3, total_amount_minor = $4, currency = $5, document_ref = $6, document_ref_secondary = $7, generated_at = $8, last_updated_at = $9, last_updated_by = $10
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.Status,
		m.InvoiceNumber,
		m.TotalAmountMinor,
		m.Currency,
		m.DocumentRef,
		m.DocumentRefSecondary,
		m.GeneratedAt,
		now,
		userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on (payee_id, invoice_number)
			return fmt.Errorf("%w: invoice number %v already taken", apperrors.ErrConflict, m.InvoiceNumber)
		}
		return fmt.Errorf("failed to finalize invoice %s: %w", m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Recomputed per-line totals must land with the invoice total.
	return updateLineItemTotals(ctx, tx, "invoice_line_items", invoice.LineItems)
}
