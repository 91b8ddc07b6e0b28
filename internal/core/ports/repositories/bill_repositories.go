package repositories

import (
	"context"
	"time"

	"github.com/invobook/invobook/internal/core/domain"
)

// BillReader defines read operations for bill data
type BillReader interface {
	// FindBillByID retrieves a bill with its line items.
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bills, optionally filtered by
	// status (nil means all).
	ListBills(ctx context.Context, status *domain.BillStatus, limit int, offset int) ([]domain.Bill, error)
}

// BillWriter defines write operations for bill data
type BillWriter interface {
	// SaveBill persists a new bill together with its line items.
	SaveBill(ctx context.Context, bill domain.Bill) error

	// UpdateBill rewrites the bill's mutable fields and replaces its line
	// items atomically.
	UpdateBill(ctx context.Context, bill domain.Bill) error

	// UpdateBillStatus advances the bill's status and total. The caller has
	// already validated the transition against the state machine.
	UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus, total domain.Money, userID string, now time.Time) error
}

// BillRepositoryFacade combines all bill-related repository interfaces
type BillRepositoryFacade interface {
	BillReader
	BillWriter
}
