package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/dto"
)

// InvoiceSvcFacade defines the invoice lifecycle operations, including the
// finalization workflow.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, updaterUserID string) (*domain.Invoice, error)

	// FinalizeInvoice runs the full finalization workflow: guard, total
	// recomputation, number issuance, document generation, persistence and
	// the status advance to READY_TO_SEND. All-or-nothing.
	FinalizeInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// RegenerateDocument re-renders the documents of an already finalized
	// invoice without re-issuing a number or re-aggregating totals.
	RegenerateDocument(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// MarkInvoiceSent records the manual send action.
	MarkInvoiceSent(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// RecordPayment moves a sent invoice to PARTIALLY_PAID or PAID.
	RecordPayment(ctx context.Context, invoiceID string, amount domain.Money, userID string) (*domain.Invoice, error)

	// WriteOff settles an uncollectible sent invoice.
	WriteOff(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}

// InvoiceFinalizer exposes finalization for callers that orchestrate their
// own database transaction, such as the reconciliation engine.
type InvoiceFinalizer interface {
	// FinalizeInTx runs the finalization steps against an invoice already
	// loaded (and locked) inside tx. The caller owns commit and rollback.
	FinalizeInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, userID string) (*domain.Invoice, error)
}
