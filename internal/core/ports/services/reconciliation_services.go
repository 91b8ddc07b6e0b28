package services

import (
	"context"

	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/dto"
)

// ReconciliationSvcFacade matches imported payment processor transactions to
// generated invoices, at most once per transaction.
type ReconciliationSvcFacade interface {
	// GenerateInvoiceForTransaction turns one complete, not-yet-invoiced
	// transaction into a finalized invoice and links the two atomically.
	GenerateInvoiceForTransaction(ctx context.Context, transactionID string, payeeID string, userID string) (*domain.Invoice, error)

	// GenerateInvoicesForTransactions applies the single-transaction
	// operation to each member independently and reports a summary.
	GenerateInvoicesForTransactions(ctx context.Context, transactionIDs []string, payeeID string, userID string) (*domain.ReconciliationSummary, error)

	GetTransactionByID(ctx context.Context, transactionID string) (*domain.StripeTransaction, error)
	ListTransactions(ctx context.Context, status *domain.StripeTransactionStatus, limit int, offset int) ([]domain.StripeTransaction, error)

	// ImportTransaction upserts a transaction delivered by the external
	// sync job. Re-imports refresh the sync-owned fields but never touch
	// the stored row's identity, status or invoice link.
	ImportTransaction(ctx context.Context, req dto.ImportTransactionRequest, userID string) (*domain.StripeTransaction, error)

	// IgnoreTransaction excludes a transaction from invoicing.
	IgnoreTransaction(ctx context.Context, transactionID string, userID string) (*domain.StripeTransaction, error)

	// ReinstateTransaction returns an ignored transaction to READY so it
	// can be invoiced after all.
	ReinstateTransaction(ctx context.Context, transactionID string, userID string) (*domain.StripeTransaction, error)
}
