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

type PgxPayeeRepository struct {
	BaseRepository
}

// newPgxPayeeRepository creates a new repository for payee data.
func newPgxPayeeRepository(pool *pgxpool.Pool) portsrepo.PayeeRepositoryWithTx {
	return &PgxPayeeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPayeeRepository implements portsrepo.PayeeRepositoryWithTx
var _ portsrepo.PayeeRepositoryWithTx = (*PgxPayeeRepository)(nil)

const payeeColumns = `payee_id, name, address_line1, address_line2, city, postal_code, country, invoicing_prefix, next_invoice_number, created_at, created_by, last_updated_at, last_updated_by`

func scanPayee(row pgx.Row) (models.Payee, error) {
	var m models.Payee
	err := row.Scan(
		&m.PayeeID,
		&m.Name,
		&m.AddressLine1,
		&m.AddressLine2,
		&m.City,
		&m.PostalCode,
		&m.Country,
		&m.InvoicingPrefix,
		&m.NextInvoiceNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SavePayee inserts a new payee.
func (r *PgxPayeeRepository) SavePayee(ctx context.Context, payee domain.Payee) error {
	m := mapping.ToModelPayee(payee)

	query := `
		INSERT INTO payees (payee_id, name, address_line1, address_line2, city, postal_code, country, invoicing_prefix, next_invoice_number, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PayeeID,
		m.Name,
		m.AddressLine1,
		m.AddressLine2,
		m.City,
		m.PostalCode,
		m.Country,
		m.InvoicingPrefix,
		m.NextInvoiceNumber,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: payee with prefix %s already exists", apperrors.ErrDuplicate, m.InvoicingPrefix)
		}
		return fmt.Errorf("failed to save payee %s: %w", m.PayeeID, err)
	}
	return nil
}

// FindPayeeByID retrieves a payee by its ID.
func (r *PgxPayeeRepository) FindPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error) {
	query := `SELECT ` + payeeColumns + ` FROM payees WHERE payee_id = $1;`

	m, err := scanPayee(r.Pool.QueryRow(ctx, query, payeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payee by ID %s: %w", payeeID, err)
	}

	payee := mapping.ToDomainPayee(m)
	return &payee, nil
}

// ListPayees retrieves a paginated list of payees ordered by name.
func (r *PgxPayeeRepository) ListPayees(ctx context.Context, limit int, offset int) ([]domain.Payee, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + payeeColumns + ` FROM payees ORDER BY name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query payees: %w", err)
	}
	defer rows.Close()

	payees := []domain.Payee{}
	for rows.Next() {
		m, err := scanPayee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payee row: %w", err)
		}
		payees = append(payees, mapping.ToDomainPayee(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payee rows: %w", rows.Err())
	}

	return payees, nil
}

// UpdatePayee updates a payee's descriptive fields. The invoicing prefix and
// numbering counter are deliberately excluded.
func (r *PgxPayeeRepository) UpdatePayee(ctx context.Context, payee domain.Payee) error {
	m := mapping.ToModelPayee(payee)

	query := `
		UPDATE payees
		SET name = $2, address_line1 = $3, address_line2 = $4, city = $5, postal_code = $6, country = $7, last_updated_at = $8, last_updated_by = $9
		WHERE payee_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PayeeID,
		m.Name,
		m.AddressLine1,
		m.AddressLine2,
		m.City,
		m.PostalCode,
		m.Country,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update payee %s: %w", m.PayeeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IssueInvoiceNumberInTx claims the payee's next sequence value with a single
// UPDATE .. RETURNING. The row lock the update takes serializes concurrent
// issuance for the same payee until the enclosing transaction ends, and a
// rollback returns the claimed value to the counter.
func (r *PgxPayeeRepository) IssueInvoiceNumberInTx(ctx context.Context, tx pgx.Tx, payeeID string, userID string, now time.Time) (string, int64, error) {
	query := `
		UPDATE payees
		SET next_invoice_number = next_invoice_number + 1, last_updated_at = $2, last_updated_by = $3
		WHERE payee_id = $1
		RETURNING invoicing_prefix, next_invoice_number - 1;
	`
	var prefix string
	var sequence int64
	err := tx.QueryRow(ctx, query, payeeID, now, userID).Scan(&prefix, &sequence)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, apperrors.ErrNotFound
		}
		return "", 0, fmt.Errorf("failed to issue invoice number for payee %s: %w", payeeID, err)
	}
	return prefix, sequence, nil
}
