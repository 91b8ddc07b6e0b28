package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/invobook/invobook/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its line items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices, optionally
	// filtered by status (nil means all).
	ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice together with its line items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice rewrites the invoice's mutable fields and replaces its
	// line items atomically. Only valid before finalization.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus advances the invoice's status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, userID string, now time.Time) error

	// UpdateGeneratedDocuments persists regenerated document references and
	// the generation timestamp without touching number, total or status.
	UpdateGeneratedDocuments(ctx context.Context, invoiceID string, docs domain.GeneratedDocuments, generatedAt time.Time, userID string, now time.Time) error
}

// InvoiceTransactionSupport defines the invoice writes that participate in
// the finalization and reconciliation database transactions.
type InvoiceTransactionSupport interface {
	// FindInvoiceByIDForUpdate loads an invoice with its line items and
	// locks the invoice row for the duration of the transaction.
	FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error)

	// SaveInvoiceInTx persists a new invoice and its line items inside the
	// given transaction.
	SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// UpdateInvoiceFinalizationInTx writes the outcome of a successful
	// finalization: number, recomputed totals, document references,
	// generation timestamp and the advanced status.
	UpdateInvoiceFinalizationInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, userID string, now time.Time) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	InvoiceTransactionSupport
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
