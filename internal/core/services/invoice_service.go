package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/invobook/invobook/internal/apperrors"
	"github.com/invobook/invobook/internal/core/domain"
	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

var (
	// ErrNotFinalizable is returned when finalization is requested for an
	// invoice that is not in REVIEWED.
	ErrNotFinalizable = errors.New("invoice cannot be finalized")

	// ErrDocumentGenerationFailed is returned when the external document
	// generator fails. No finalization state is committed in that case.
	ErrDocumentGenerationFailed = errors.New("document generation failed")

	// ErrInvoiceNotOpen is returned when a mutation is attempted on an
	// invoice that has already been finalized.
	ErrInvoiceNotOpen = errors.New("invoice is finalized and immutable")

	// ErrNotRegenerable is returned when document regeneration is requested
	// for an invoice that has not been finalized yet.
	ErrNotRegenerable = errors.New("invoice has no finalized document to regenerate")
)

// invoiceService provides invoice lifecycle operations, including the
// finalization workflow that assigns numbers and generates documents.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	payeeRepo   portsrepo.PayeeRepositoryFacade
	docGen      portssvc.DocumentGenerator
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryWithTx, payeeRepo portsrepo.PayeeRepositoryFacade, docGen portssvc.DocumentGenerator) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		payeeRepo:   payeeRepo,
		docGen:      docGen,
	}
}

var (
	_ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)
	_ portssvc.InvoiceFinalizer = (*invoiceService)(nil)
)

// CreateInvoice creates a manually entered invoice in REVIEWED.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PayeeID != nil {
		if _, err := s.payeeRepo.FindPayeeByID(ctx, *req.PayeeID); err != nil {
			return nil, fmt.Errorf("failed to resolve payee %s: %w", *req.PayeeID, err)
		}
	}
	if req.ParentInvoiceID != nil {
		if _, err := s.invoiceRepo.FindInvoiceByID(ctx, *req.ParentInvoiceID); err != nil {
			return nil, fmt.Errorf("failed to resolve parent invoice %s: %w", *req.ParentInvoiceID, err)
		}
	}

	items, err := buildLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:       uuid.NewString(),
		Status:          domain.InvoiceStatusReviewed,
		PayeeID:         req.PayeeID,
		InvoiceDate:     req.InvoiceDate,
		TotalAmount:     domain.Money{Currency: req.Currency},
		LineItems:       items,
		ParentInvoiceID: req.ParentInvoiceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	invoice.RecomputeTotal()

	if invoice.IsCreditNote() && invoice.ParentInvoiceID == nil {
		return nil, fmt.Errorf("%w: credit note requires a parent invoice reference", apperrors.ErrValidation)
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice with its line items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices.
func (s *invoiceService) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	invoices, err := s.invoiceRepo.ListInvoices(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// UpdateInvoice applies partial updates to a not-yet-finalized invoice.
func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, updaterUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if invoice.Status.IsFinalized() {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvoiceNotOpen, invoiceID, invoice.Status)
	}

	if req.PayeeID != nil {
		if _, err := s.payeeRepo.FindPayeeByID(ctx, *req.PayeeID); err != nil {
			return nil, fmt.Errorf("failed to resolve payee %s: %w", *req.PayeeID, err)
		}
		invoice.PayeeID = req.PayeeID
	}
	if req.InvoiceDate != nil {
		invoice.InvoiceDate = *req.InvoiceDate
	}
	if req.ParentInvoiceID != nil {
		invoice.ParentInvoiceID = req.ParentInvoiceID
	}
	if req.LineItems != nil {
		items, err := buildLineItems(req.LineItems)
		if err != nil {
			return nil, err
		}
		invoice.LineItems = items
	}

	invoice.RecomputeTotal()

	now := time.Now().UTC()
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = updaterUserID

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice); err != nil {
		logger.Error("Failed to update invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	logger.Info("Invoice updated successfully", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// FinalizeInvoice runs the full finalization workflow inside one database
// transaction: guard, total recomputation, number issuance, document
// generation, persistence, status advance. Any failure rolls the whole
// operation back, including the number increment.
func (s *invoiceService) FinalizeInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.invoiceRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin finalization transaction: %w", err)
	}
	defer s.invoiceRepo.Rollback(ctx, tx)

	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice %s for finalization: %w", invoiceID, err)
	}

	finalized, err := s.FinalizeInTx(ctx, tx, invoice, userID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit finalization for invoice %s: %w", invoiceID, err)
	}

	logger.Info("Invoice finalized",
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_number", *finalized.InvoiceNumber))
	return finalized, nil
}

// FinalizeInTx runs the finalization steps against an invoice already loaded
// inside tx. The caller owns commit and rollback; a rollback releases the
// issued number because the counter increment lives in the same transaction.
func (s *invoiceService) FinalizeInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Step 1: guard. Reviewed is the only finalizable status, and the
	// numbering sequence requires a payee.
	if !invoice.Status.CanBeFinalized() {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrNotFinalizable, invoice.InvoiceID, invoice.Status)
	}
	if invoice.PayeeID == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrMissingPayee, invoice.InvoiceID)
	}

	payee, err := s.payeeRepo.FindPayeeByID(ctx, *invoice.PayeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payee %s: %w", *invoice.PayeeID, err)
	}

	// Step 2: rederive line item totals and the invoice total.
	invoice.RecomputeTotal()

	now := time.Now().UTC()

	// Step 3: issue a number unless one is already assigned. The atomic
	// counter update locks the payee row, serializing concurrent
	// finalizations per payee.
	if invoice.InvoiceNumber == nil {
		prefix, sequence, err := s.payeeRepo.IssueInvoiceNumberInTx(ctx, tx, payee.PayeeID, userID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to issue invoice number for payee %s: %w", payee.PayeeID, err)
		}
		number := domain.FormatInvoiceNumber(prefix, sequence)
		invoice.InvoiceNumber = &number
	}

	// Step 4: generate the durable documents. On failure the surrounding
	// transaction rolls back, so the issued number is released untouched.
	docs, err := s.docGen.GenerateInvoiceDocument(ctx, *invoice, *payee)
	if err != nil {
		logger.Error("Document generation failed",
			slog.String("invoice_id", invoice.InvoiceID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrDocumentGenerationFailed, err)
	}

	// Step 5: persist document references and generation timestamp.
	invoice.DocumentRef = &docs.Primary
	invoice.DocumentRefSecondary = docs.Secondary
	invoice.GeneratedAt = &now

	// Step 6: advance the status.
	if err := invoice.TransitionTo(domain.InvoiceStatusReadyToSend); err != nil {
		return nil, err
	}

	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateInvoiceFinalizationInTx(ctx, tx, *invoice, userID, now); err != nil {
		return nil, fmt.Errorf("failed to persist finalization of invoice %s: %w", invoice.InvoiceID, err)
	}

	return invoice, nil
}

// RegenerateDocument re-renders the documents of an already finalized
// invoice. The number and totals stay exactly as finalized.
func (s *invoiceService) RegenerateDocument(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if !invoice.Status.IsFinalized() || invoice.InvoiceNumber == nil {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrNotRegenerable, invoiceID, invoice.Status)
	}
	if invoice.PayeeID == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrMissingPayee, invoiceID)
	}

	payee, err := s.payeeRepo.FindPayeeByID(ctx, *invoice.PayeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payee %s: %w", *invoice.PayeeID, err)
	}

	docs, err := s.docGen.GenerateInvoiceDocument(ctx, *invoice, *payee)
	if err != nil {
		logger.Error("Document regeneration failed",
			slog.String("invoice_id", invoiceID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrDocumentGenerationFailed, err)
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateGeneratedDocuments(ctx, invoiceID, docs, now, userID, now); err != nil {
		return nil, fmt.Errorf("failed to persist regenerated documents for invoice %s: %w", invoiceID, err)
	}

	invoice.DocumentRef = &docs.Primary
	invoice.DocumentRefSecondary = docs.Secondary
	invoice.GeneratedAt = &now
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	logger.Info("Invoice documents regenerated", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

// MarkInvoiceSent records the manual send action.
func (s *invoiceService) MarkInvoiceSent(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.transitionInvoice(ctx, invoiceID, domain.InvoiceStatusSent, userID)
}

// RecordPayment moves a sent invoice to PARTIALLY_PAID or PAID depending on
// whether the received amount covers the total. No allocation bookkeeping
// happens here; the admin panel only tracks the resulting status.
func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, amount domain.Money, userID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if !invoice.Status.CanRecordPayment() {
		return nil, &domain.InvalidTransitionError{Entity: "invoice", From: string(invoice.Status), To: string(domain.InvoiceStatusPaid)}
	}

	covered, err := amount.GreaterThanOrEqual(invoice.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	target := domain.InvoiceStatusPartiallyPaid
	if covered {
		target = domain.InvoiceStatusPaid
	}
	return s.applyTransition(ctx, invoice, target, userID)
}

// WriteOff settles an uncollectible sent invoice.
func (s *invoiceService) WriteOff(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	if !invoice.Status.CanBeWrittenOff() {
		return nil, &domain.InvalidTransitionError{Entity: "invoice", From: string(invoice.Status), To: string(domain.InvoiceStatusPaid)}
	}
	return s.applyTransition(ctx, invoice, domain.InvoiceStatusPaid, userID)
}

func (s *invoiceService) transitionInvoice(ctx context.Context, invoiceID string, target domain.InvoiceStatus, userID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return s.applyTransition(ctx, invoice, target, userID)
}

func (s *invoiceService) applyTransition(ctx context.Context, invoice *domain.Invoice, target domain.InvoiceStatus, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := invoice.TransitionTo(target); err != nil {
		logger.Warn("Rejected invoice status transition", slog.String("invoice_id", invoice.InvoiceID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoice.InvoiceID, invoice.Status, userID, now); err != nil {
		logger.Error("Failed to persist invoice status", slog.String("error", err.Error()), slog.String("invoice_id", invoice.InvoiceID))
		return nil, fmt.Errorf("failed to persist invoice status: %w", err)
	}
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	logger.Info("Invoice status advanced", slog.String("invoice_id", invoice.InvoiceID), slog.String("status", string(invoice.Status)))
	return invoice, nil
}
