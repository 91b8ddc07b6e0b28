package services

import (
	"context"

	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/dto"
)

// BillSvcFacade defines the bill lifecycle operations.
type BillSvcFacade interface {
	CreateBill(ctx context.Context, req dto.CreateBillRequest, creatorUserID string) (*domain.Bill, error)
	GetBillByID(ctx context.Context, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, status *domain.BillStatus, limit int, offset int) ([]domain.Bill, error)
	UpdateBill(ctx context.Context, billID string, req dto.UpdateBillRequest, updaterUserID string) (*domain.Bill, error)

	// MarkBillReviewed confirms an operator reviewed the bill. Requires a
	// payee assignment.
	MarkBillReviewed(ctx context.Context, billID string, userID string) (*domain.Bill, error)

	// MarkBillPaid settles a reviewed bill.
	MarkBillPaid(ctx context.Context, billID string, userID string) (*domain.Bill, error)

	// MarkBillNeedsReview regresses a paid bill whose source document was
	// re-extracted.
	MarkBillNeedsReview(ctx context.Context, billID string, userID string) (*domain.Bill, error)
}
