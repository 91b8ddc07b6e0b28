package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/models"
	"github.com/invobook/invobook/internal/utils/mapping"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so line item helpers
// can run inside or outside an explicit transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const lineItemColumns = `line_item_id, description, unit, quantity, unit_price_minor, total_minor, position`

// queryLineItems loads the line items of a bill or invoice ordered by their
// position.
func queryLineItems(ctx context.Context, q querier, table string, ownerColumn string, ownerID string) ([]models.LineItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY position;`, lineItemColumns, table, ownerColumn)

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for %s: %w", ownerID, err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var m models.LineItem
		err := rows.Scan(
			&m.LineItemID,
			&m.Description,
			&m.Unit,
			&m.Quantity,
			&m.UnitPriceMinor,
			&m.TotalMinor,
			&m.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row for %s: %w", ownerID, err)
		}
		m.DocumentID = ownerID
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating line item rows for %s: %w", ownerID, rows.Err())
	}

	return items, nil
}

// insertLineItems batch-inserts the line items of a bill or invoice.
func insertLineItems(ctx context.Context, q querier, table string, ownerColumn string, ownerID string, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (line_item_id, %s, description, unit, quantity, unit_price_minor, total_minor, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, table, ownerColumn)

	batch := &pgx.Batch{}
	for _, li := range items {
		m := mapping.ToModelLineItem(li, ownerID)
		batch.Queue(query, m.LineItemID, m.DocumentID, m.Description, m.Unit, m.Quantity, m.UnitPriceMinor, m.TotalMinor, m.Position)
	}

	br := q.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert line item %s: %w", items[i].LineItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line item insert batch: %w", err)
	}
	return batchErr
}

// replaceLineItems deletes and reinserts the line items of a bill or invoice.
// Must run inside the transaction that updates the owning row.
func replaceLineItems(ctx context.Context, q querier, table string, ownerColumn string, ownerID string, items []domain.LineItem) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`, table, ownerColumn)
	if _, err := q.Exec(ctx, query, ownerID); err != nil {
		return fmt.Errorf("failed to delete line items for %s: %w", ownerID, err)
	}
	return insertLineItems(ctx, q, table, ownerColumn, ownerID, items)
}

// updateLineItemTotals rewrites the stored totals of already-persisted line
// items after a recompute.
func updateLineItemTotals(ctx context.Context, q querier, table string, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE %s SET total_minor = $2 WHERE line_item_id = $1;`, table)

	batch := &pgx.Batch{}
	for _, li := range items {
		batch.Queue(query, li.LineItemID, li.TotalMinor)
	}

	br := q.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to update line item total %s: %w", items[i].LineItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line item total batch: %w", err)
	}
	return batchErr
}
