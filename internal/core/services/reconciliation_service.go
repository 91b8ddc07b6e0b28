package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invobook/invobook/internal/core/domain"
	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

var (
	// ErrIncompleteTransaction is returned when invoicing is requested for
	// a transaction the sync job has not fully populated yet.
	ErrIncompleteTransaction = errors.New("transaction is incomplete")

	// ErrAlreadyInvoiced is returned when a transaction is already linked
	// to an invoice line item. A transaction is invoiced at most once.
	ErrAlreadyInvoiced = errors.New("transaction is already invoiced")
)

// reconciliationService turns imported payment processor transactions into
// finalized invoices, exactly once per transaction.
type reconciliationService struct {
	txnRepo     portsrepo.StripeTransactionRepositoryWithTx
	invoiceRepo portsrepo.InvoiceTransactionSupport
	finalizer   portssvc.InvoiceFinalizer
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	txnRepo portsrepo.StripeTransactionRepositoryWithTx,
	invoiceRepo portsrepo.InvoiceTransactionSupport,
	finalizer portssvc.InvoiceFinalizer,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		txnRepo:     txnRepo,
		invoiceRepo: invoiceRepo,
		finalizer:   finalizer,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// GenerateInvoiceForTransaction creates and finalizes an invoice for one
// transaction and links the two, all inside a single database transaction.
// The transaction row is locked first, so a concurrent attempt on the same
// transaction serializes behind this one and then fails with
// ErrAlreadyInvoiced. Any failure after invoice creation rolls the invoice
// back and leaves the transaction unlinked.
func (s *reconciliationService) GenerateInvoiceForTransaction(ctx context.Context, transactionID string, payeeID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reconciliation transaction: %w", err)
	}
	defer s.txnRepo.Rollback(ctx, tx)

	txn, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %s: %w", transactionID, err)
	}

	// Precondition order matters: completeness first, then the link check.
	if !txn.IsComplete {
		return nil, fmt.Errorf("%w: transaction %s", ErrIncompleteTransaction, transactionID)
	}
	if txn.LinkedInvoiceItemID != nil || txn.Status == domain.TransactionStatusInvoiced {
		return nil, fmt.Errorf("%w: transaction %s", ErrAlreadyInvoiced, transactionID)
	}

	now := time.Now().UTC()
	invoice := s.buildInvoice(txn, payeeID, userID, now)

	if err := s.invoiceRepo.SaveInvoiceInTx(ctx, tx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice for transaction %s: %w", transactionID, err)
	}

	finalized, err := s.finalizer.FinalizeInTx(ctx, tx, &invoice, userID)
	if err != nil {
		return nil, err
	}

	lineItemID := finalized.LineItems[0].LineItemID
	if err := s.txnRepo.LinkTransactionToInvoiceItemInTx(ctx, tx, transactionID, lineItemID, userID, now); err != nil {
		return nil, fmt.Errorf("failed to link transaction %s to invoice item: %w", transactionID, err)
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation of transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction invoiced",
		slog.String("transaction_id", transactionID),
		slog.String("invoice_id", finalized.InvoiceID),
		slog.String("invoice_number", *finalized.InvoiceNumber))
	return finalized, nil
}

// buildInvoice derives the single-line invoice for a transaction. Refunds
// and chargebacks flip the sign, so the resulting invoice is a credit note.
func (s *reconciliationService) buildInvoice(txn *domain.StripeTransaction, payeeID string, userID string, now time.Time) domain.Invoice {
	amount := txn.Amount
	if txn.IsCredit() {
		amount = amount.Neg()
	}

	item := domain.LineItem{
		LineItemID:     uuid.NewString(),
		Description:    txn.InvoiceLineDescription(),
		Unit:           domain.UnitUnits,
		Quantity:       decimal.NewFromInt(1),
		UnitPriceMinor: amount.AmountMinor,
	}
	item.TotalMinor = item.ComputeTotal()

	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		Status:      domain.InvoiceStatusReviewed,
		PayeeID:     &payeeID,
		InvoiceDate: txn.TransactionDate,
		TotalAmount: domain.Money{Currency: amount.Currency},
		LineItems:   []domain.LineItem{item},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	invoice.RecomputeTotal()
	return invoice
}

// GenerateInvoicesForTransactions applies the single-transaction operation
// to each member independently. A failing member is recorded in the summary
// and never aborts or rolls back the others.
func (s *reconciliationService) GenerateInvoicesForTransactions(ctx context.Context, transactionIDs []string, payeeID string, userID string) (*domain.ReconciliationSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	summary := &domain.ReconciliationSummary{}
	for _, transactionID := range transactionIDs {
		if _, err := s.GenerateInvoiceForTransaction(ctx, transactionID, payeeID, userID); err != nil {
			summary.Failures = append(summary.Failures, domain.ReconciliationFailure{
				TransactionID: transactionID,
				Reason:        err.Error(),
			})
			continue
		}
		summary.Succeeded++
	}

	logger.Info("Batch reconciliation finished",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", len(summary.Failures)))
	return summary, nil
}

// ImportTransaction upserts a transaction delivered by the external sync job.
// The upsert keys on (stripe account, external ID): a re-import refreshes the
// sync-owned fields and leaves the stored row's identity, status and invoice
// link untouched, so the persisted row is read back for the response.
func (s *reconciliationService) ImportTransaction(ctx context.Context, req dto.ImportTransactionRequest, userID string) (*domain.StripeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	txn := domain.StripeTransaction{
		TransactionID:   uuid.NewString(),
		StripeAccountID: req.StripeAccountID,
		ExternalID:      req.ExternalID,
		Type:            domain.StripeTransactionType(req.Type),
		Amount:          domain.NewMoney(req.AmountMinor, req.Currency),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerCountry: req.CustomerCountry,
		TransactionDate: req.TransactionDate,
		Status:          domain.TransactionStatusPendingReview,
		IsComplete:      req.IsComplete,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to import transaction",
			slog.String("external_id", req.ExternalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to import transaction %s: %w", req.ExternalID, err)
	}

	stored, err := s.txnRepo.FindTransactionByExternalID(ctx, req.StripeAccountID, req.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load imported transaction %s: %w", req.ExternalID, err)
	}

	logger.Info("Transaction imported",
		slog.String("transaction_id", stored.TransactionID),
		slog.String("external_id", stored.ExternalID))
	return stored, nil
}

// GetTransactionByID retrieves a single imported transaction.
func (s *reconciliationService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.StripeTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of imported transactions.
func (s *reconciliationService) ListTransactions(ctx context.Context, status *domain.StripeTransactionStatus, limit int, offset int) ([]domain.StripeTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.txnRepo.ListTransactions(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// IgnoreTransaction excludes a transaction from invoicing. Invoiced
// transactions cannot be ignored; the state machine rejects that move.
func (s *reconciliationService) IgnoreTransaction(ctx context.Context, transactionID string, userID string) (*domain.StripeTransaction, error) {
	return s.transitionTransaction(ctx, transactionID, domain.TransactionStatusIgnored, userID)
}

// ReinstateTransaction returns an ignored transaction to READY.
func (s *reconciliationService) ReinstateTransaction(ctx context.Context, transactionID string, userID string) (*domain.StripeTransaction, error) {
	return s.transitionTransaction(ctx, transactionID, domain.TransactionStatusReady, userID)
}

// transitionTransaction validates the move against the in-memory state
// machine and persists it. The repository re-checks that the row has not
// reached INVOICED in the meantime, so a reconciliation committing between
// the read and the write surfaces as ErrConflict instead of regressing the
// terminal status.
func (s *reconciliationService) transitionTransaction(ctx context.Context, transactionID string, target domain.StripeTransactionStatus, userID string) (*domain.StripeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	if err := txn.TransitionTo(target); err != nil {
		logger.Warn("Rejected transaction status transition", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, txn.Status, userID, now); err != nil {
		return nil, fmt.Errorf("failed to persist transaction status: %w", err)
	}
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	logger.Info("Transaction status advanced",
		slog.String("transaction_id", transactionID), slog.String("status", string(txn.Status)))
	return txn, nil
}
