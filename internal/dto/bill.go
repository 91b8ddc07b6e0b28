package dto

import (
	"time"

	"github.com/invobook/invobook/internal/core/domain"
)

// CreateBillRequest defines the payload for creating a bill manually.
// Manually created bills start in REVIEWED; the extraction pipeline creates
// its bills directly through the repository in PENDING/EXTRACTED.
type CreateBillRequest struct {
	SupplierName string            `json:"supplierName" binding:"required"`
	PayeeID      *string           `json:"payeeID,omitempty"`
	BillNumber   *string           `json:"billNumber,omitempty"`
	BillDate     time.Time         `json:"billDate" binding:"required"`
	DueDate      time.Time         `json:"dueDate" binding:"required"`
	Currency     string            `json:"currency" binding:"required,len=3"`
	LineItems    []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateBillRequest defines the payload for updating an open bill.
// Providing lineItems replaces the full set.
type UpdateBillRequest struct {
	SupplierName *string           `json:"supplierName,omitempty"`
	PayeeID      *string           `json:"payeeID,omitempty"`
	BillNumber   *string           `json:"billNumber,omitempty"`
	BillDate     *time.Time        `json:"billDate,omitempty"`
	DueDate      *time.Time        `json:"dueDate,omitempty"`
	LineItems    []LineItemRequest `json:"lineItems,omitempty" binding:"omitempty,dive"`
}

// BillResponse defines the data returned for a bill.
type BillResponse struct {
	BillID           string             `json:"billID"`
	Status           string             `json:"status"`
	SupplierName     string             `json:"supplierName"`
	PayeeID          *string            `json:"payeeID,omitempty"`
	BillNumber       *string            `json:"billNumber,omitempty"`
	BillDate         time.Time          `json:"billDate"`
	DueDate          time.Time          `json:"dueDate"`
	TotalAmountMinor int64              `json:"totalAmountMinorUnits"`
	Currency         string             `json:"currency"`
	NeedsReview      bool               `json:"needsReview"`
	LineItems        []LineItemResponse `json:"lineItems"`
	ErrorMessage     *string            `json:"errorMessage,omitempty"`
}

// ToBillResponse converts a domain.Bill to BillResponse DTO.
func ToBillResponse(b *domain.Bill) BillResponse {
	return BillResponse{
		BillID:           b.BillID,
		Status:           string(b.Status),
		SupplierName:     b.SupplierName,
		PayeeID:          b.PayeeID,
		BillNumber:       b.BillNumber,
		BillDate:         b.BillDate,
		DueDate:          b.DueDate,
		TotalAmountMinor: b.TotalAmount.AmountMinor,
		Currency:         b.TotalAmount.Currency,
		NeedsReview:      b.Status.NeedsReview(),
		LineItems:        ToLineItemResponses(b.LineItems),
		ErrorMessage:     b.ErrorMessage,
	}
}

// ToBillResponses converts a slice of domain.Bill to []BillResponse.
func ToBillResponses(bills []domain.Bill) []BillResponse {
	responses := make([]BillResponse, len(bills))
	for i := range bills {
		responses[i] = ToBillResponse(&bills[i])
	}
	return responses
}
