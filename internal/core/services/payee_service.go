package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invobook/internal/apperrors"
	"github.com/invobook/invobook/internal/core/domain"
	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

// payeeService manages payees and, through the repository, their invoice
// numbering sequences.
type payeeService struct {
	payeeRepo portsrepo.PayeeRepositoryWithTx
}

// NewPayeeService creates a new PayeeService.
func NewPayeeService(payeeRepo portsrepo.PayeeRepositoryWithTx) portssvc.PayeeSvcFacade {
	return &payeeService{payeeRepo: payeeRepo}
}

var _ portssvc.PayeeSvcFacade = (*payeeService)(nil)

// CreatePayee validates and persists a new payee. The numbering counter
// starts at 1.
func (s *payeeService) CreatePayee(ctx context.Context, req dto.CreatePayeeRequest, creatorUserID string) (*domain.Payee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	payee := domain.Payee{
		PayeeID:           uuid.NewString(),
		Name:              req.Name,
		AddressLine1:      req.AddressLine1,
		AddressLine2:      req.AddressLine2,
		City:              req.City,
		PostalCode:        req.PostalCode,
		Country:           req.Country,
		InvoicingPrefix:   req.InvoicingPrefix,
		NextInvoiceNumber: 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := payee.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.payeeRepo.SavePayee(ctx, payee); err != nil {
		logger.Error("Failed to save payee", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payee: %w", err)
	}

	logger.Info("Payee created successfully", slog.String("payee_id", payee.PayeeID))
	return &payee, nil
}

// GetPayeeByID retrieves a payee.
func (s *payeeService) GetPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error) {
	payee, err := s.payeeRepo.FindPayeeByID(ctx, payeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payee %s: %w", payeeID, err)
	}
	return payee, nil
}

// ListPayees retrieves a paginated list of payees.
func (s *payeeService) ListPayees(ctx context.Context, limit int, offset int) ([]domain.Payee, error) {
	if limit <= 0 {
		limit = 20
	}
	payees, err := s.payeeRepo.ListPayees(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}
	return payees, nil
}

// UpdatePayee applies partial updates to a payee. The invoicing prefix and
// the numbering counter stay untouched; changing the prefix would break the
// uniqueness of already issued numbers.
func (s *payeeService) UpdatePayee(ctx context.Context, payeeID string, req dto.UpdatePayeeRequest, updaterUserID string) (*domain.Payee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payee, err := s.payeeRepo.FindPayeeByID(ctx, payeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payee %s: %w", payeeID, err)
	}

	updated := false
	if req.Name != nil {
		payee.Name = *req.Name
		updated = true
	}
	if req.AddressLine1 != nil {
		payee.AddressLine1 = *req.AddressLine1
		updated = true
	}
	if req.AddressLine2 != nil {
		payee.AddressLine2 = *req.AddressLine2
		updated = true
	}
	if req.City != nil {
		payee.City = *req.City
		updated = true
	}
	if req.PostalCode != nil {
		payee.PostalCode = *req.PostalCode
		updated = true
	}
	if req.Country != nil {
		payee.Country = *req.Country
		updated = true
	}

	if !updated {
		return payee, nil
	}

	if err := payee.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	payee.LastUpdatedAt = time.Now().UTC()
	payee.LastUpdatedBy = updaterUserID

	if err := s.payeeRepo.UpdatePayee(ctx, *payee); err != nil {
		logger.Error("Failed to update payee", slog.String("error", err.Error()), slog.String("payee_id", payeeID))
		return nil, fmt.Errorf("failed to update payee: %w", err)
	}

	logger.Info("Payee updated successfully", slog.String("payee_id", payeeID))
	return payee, nil
}
