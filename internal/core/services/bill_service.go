package services

import (
	"context"
	"errors"
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

var (
	// ErrMissingPayee is returned when a bill operation requires a payee
	// assignment and none is present.
	ErrMissingPayee = errors.New("bill has no payee assigned")

	// ErrBillNotOpen is returned when a mutation is attempted on a bill
	// that is no longer open.
	ErrBillNotOpen = errors.New("bill is not open for changes")
)

// billService provides the bill lifecycle operations.
type billService struct {
	billRepo  portsrepo.BillRepositoryFacade
	payeeRepo portsrepo.PayeeReader
}

// NewBillService creates a new BillService.
func NewBillService(billRepo portsrepo.BillRepositoryFacade, payeeRepo portsrepo.PayeeReader) portssvc.BillSvcFacade {
	return &billService{billRepo: billRepo, payeeRepo: payeeRepo}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

// CreateBill creates a manually entered bill. Manual entry implies the
// operator already reviewed the document, so the bill starts in REVIEWED.
func (s *billService) CreateBill(ctx context.Context, req dto.CreateBillRequest, creatorUserID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PayeeID != nil {
		if _, err := s.payeeRepo.FindPayeeByID(ctx, *req.PayeeID); err != nil {
			return nil, fmt.Errorf("failed to resolve payee %s: %w", *req.PayeeID, err)
		}
	}

	items, err := buildLineItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bill := domain.Bill{
		BillID:       uuid.NewString(),
		Status:       domain.BillStatusReviewed,
		SupplierName: req.SupplierName,
		PayeeID:      req.PayeeID,
		BillNumber:   req.BillNumber,
		BillDate:     req.BillDate,
		DueDate:      req.DueDate,
		TotalAmount:  domain.Money{Currency: req.Currency},
		LineItems:    items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	bill.RecomputeTotal()

	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		logger.Error("Failed to save bill", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	logger.Info("Bill created successfully", slog.String("bill_id", bill.BillID))
	return &bill, nil
}

// GetBillByID retrieves a bill with its line items.
func (s *billService) GetBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}
	return bill, nil
}

// ListBills retrieves a paginated list of bills.
func (s *billService) ListBills(ctx context.Context, status *domain.BillStatus, limit int, offset int) ([]domain.Bill, error) {
	if limit <= 0 {
		limit = 20
	}
	bills, err := s.billRepo.ListBills(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// UpdateBill applies partial updates to an open bill. Line items, when
// provided, replace the full set and the total is recomputed before the
// bill is persisted.
func (s *billService) UpdateBill(ctx context.Context, billID string, req dto.UpdateBillRequest, updaterUserID string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}

	if !bill.Status.IsPending() {
		return nil, fmt.Errorf("%w: bill %s is %s", ErrBillNotOpen, billID, bill.Status)
	}

	if req.SupplierName != nil {
		bill.SupplierName = *req.SupplierName
	}
	if req.PayeeID != nil {
		if _, err := s.payeeRepo.FindPayeeByID(ctx, *req.PayeeID); err != nil {
			return nil, fmt.Errorf("failed to resolve payee %s: %w", *req.PayeeID, err)
		}
		bill.PayeeID = req.PayeeID
	}
	if req.BillNumber != nil {
		bill.BillNumber = req.BillNumber
	}
	if req.BillDate != nil {
		bill.BillDate = *req.BillDate
	}
	if req.DueDate != nil {
		bill.DueDate = *req.DueDate
	}
	if req.LineItems != nil {
		items, err := buildLineItems(req.LineItems)
		if err != nil {
			return nil, err
		}
		bill.LineItems = items
	}

	// Line item mutations require the derived total to be rebuilt before
	// any status-dependent decision is made.
	bill.RecomputeTotal()

	now := time.Now().UTC()
	bill.LastUpdatedAt = now
	bill.LastUpdatedBy = updaterUserID

	if err := s.billRepo.UpdateBill(ctx, *bill); err != nil {
		logger.Error("Failed to update bill", slog.String("error", err.Error()), slog.String("bill_id", billID))
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	logger.Info("Bill updated successfully", slog.String("bill_id", billID))
	return bill, nil
}

// MarkBillReviewed confirms an operator reviewed the bill. A payee must be
// assigned before a bill can count as reviewed, since payment eligibility
// depends on it.
func (s *billService) MarkBillReviewed(ctx context.Context, billID string, userID string) (*domain.Bill, error) {
	return s.transitionBill(ctx, billID, domain.BillStatusReviewed, userID, true)
}

// MarkBillPaid settles a reviewed bill. Reviewed is the only payable status.
func (s *billService) MarkBillPaid(ctx context.Context, billID string, userID string) (*domain.Bill, error) {
	return s.transitionBill(ctx, billID, domain.BillStatusPaid, userID, true)
}

// MarkBillNeedsReview regresses a paid bill to PAID_NEEDS_REVIEW after its
// source document changed.
func (s *billService) MarkBillNeedsReview(ctx context.Context, billID string, userID string) (*domain.Bill, error) {
	return s.transitionBill(ctx, billID, domain.BillStatusPaidNeedsReview, userID, false)
}

func (s *billService) transitionBill(ctx context.Context, billID string, target domain.BillStatus, userID string, requirePayee bool) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}

	if requirePayee && bill.PayeeID == nil {
		return nil, fmt.Errorf("%w: bill %s", ErrMissingPayee, billID)
	}

	// Totals feed payment eligibility, so they are rederived before the
	// status moves.
	bill.RecomputeTotal()

	if err := bill.TransitionTo(target); err != nil {
		logger.Warn("Rejected bill status transition", slog.String("bill_id", billID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.billRepo.UpdateBillStatus(ctx, billID, bill.Status, bill.TotalAmount, userID, now); err != nil {
		logger.Error("Failed to persist bill status", slog.String("error", err.Error()), slog.String("bill_id", billID))
		return nil, fmt.Errorf("failed to persist bill status: %w", err)
	}
	bill.LastUpdatedAt = now
	bill.LastUpdatedBy = userID

	logger.Info("Bill status advanced", slog.String("bill_id", billID), slog.String("status", string(bill.Status)))
	return bill, nil
}

// buildLineItems converts request line items into domain line items with
// fresh IDs and derived totals.
func buildLineItems(reqs []dto.LineItemRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, len(reqs))
	for i, r := range reqs {
		item := domain.LineItem{
			LineItemID:     uuid.NewString(),
			Description:    r.Description,
			Unit:           domain.LineItemUnit(r.Unit),
			Quantity:       r.Quantity,
			UnitPriceMinor: r.UnitPriceMinor,
			Position:       i,
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line item %d: %v", apperrors.ErrValidation, i, err)
		}
		item.TotalMinor = item.ComputeTotal()
		items[i] = item
	}
	return items, nil
}
