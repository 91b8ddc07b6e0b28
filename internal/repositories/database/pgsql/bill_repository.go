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

type PgxBillRepository struct {
	BaseRepository
}

// newPgxBillRepository creates a new repository for bill data.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryFacade {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxBillRepository implements portsrepo.BillRepositoryFacade
var _ portsrepo.BillRepositoryFacade = (*PgxBillRepository)(nil)

const billColumns = `bill_id, status, supplier_name, payee_id, bill_number, bill_date, due_date, total_amount_minor, currency, error_message, created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row pgx.Row) (models.Bill, error) {
	var m models.Bill
	err := row.Scan(
		&m.BillID,
		&m.Status,
		&m.SupplierName,
		&m.PayeeID,
		&m.BillNumber,
		&m.BillDate,
		&m.DueDate,
		&m.TotalAmountMinor,
		&m.Currency,
		&m.ErrorMessage,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBill inserts a new bill and its line items.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO bills (bill_id, status, supplier_name, payee_id, bill_number, bill_date, due_date, total_amount_minor, currency, error_message, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.BillID,
		m.Status,
		m.SupplierName,
		m.PayeeID,
		m.BillNumber,
		m.BillDate,
		m.DueDate,
		m.TotalAmountMinor,
		m.Currency,
		m.ErrorMessage,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save bill %s: %w", m.BillID, err)
	}

	if err := insertLineItems(ctx, tx, "bill_line_items", "bill_id", bill.BillID, bill.LineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindBillByID retrieves a bill with its line items.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1;`

	m, err := scanBill(r.Pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID %s: %w", billID, err)
	}

	items, err := queryLineItems(ctx, r.Pool, "bill_line_items", "bill_id", billID)
	if err != nil {
		return nil, err
	}

	bill := mapping.ToDomainBill(m, items)
	return &bill, nil
}

// ListBills retrieves a paginated list of bills, newest first. A nil status
// means all statuses.
func (r *PgxBillRepository) ListBills(ctx context.Context, status *domain.BillStatus, limit int, offset int) ([]domain.Bill, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + billColumns + ` FROM bills`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += fmt.Sprintf(` ORDER BY bill_date DESC, bill_id LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		m, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, mapping.ToDomainBill(m, nil))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", rows.Err())
	}

	// Listings carry line items so review screens can render totals without
	// a per-bill fetch.
	for i := range bills {
		items, err := queryLineItems(ctx, r.Pool, "bill_line_items", "bill_id", bills[i].BillID)
		if err != nil {
			return nil, err
		}
		bills[i].LineItems = mapping.ToDomainLineItems(items)
	}

	return bills, nil
}

// UpdateBill rewrites the bill's mutable fields and replaces its line items
// atomically.
func (r *PgxBillRepository) UpdateBill(ctx context.Context, bill domain.Bill) error {
	m := mapping.ToModelBill(bill)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE bills
		SET supplier_name = $2, payee_id = $3, bill_number = $4, bill_date = $5, due_date = $6, total_amount_minor = $7, currency = $8, error_message = $9, last_updated_at = $10, last_updated_by = $11
		WHERE bill_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.BillID,
		m.SupplierName,
		m.PayeeID,
		m.BillNumber,
		m.BillDate,
		m.DueDate,
		m.TotalAmountMinor,
		m.Currency,
		m.ErrorMessage,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update bill %s: %w", m.BillID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := replaceLineItems(ctx, tx, "bill_line_items", "bill_id", bill.BillID, bill.LineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateBillStatus advances the bill's status and total.
func (r *PgxBillRepository) UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus, total domain.Money, userID string, now time.Time) error {
	query := `
		UPDATE bills
		SET status = $2, total_amount_minor = $3, currency = $4, last_updated_at = $5, last_updated_by = $6
		WHERE bill_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, billID, string(status), total.AmountMinor, total.Currency, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update bill %s status: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
