package dto

import (
	"time"

	"github.com/invobook/invobook/internal/core/domain"
)

// CreateInvoiceRequest defines the payload for creating an invoice manually.
// Manually created invoices start in REVIEWED.
type CreateInvoiceRequest struct {
	PayeeID         *string           `json:"payeeID,omitempty"`
	InvoiceDate     time.Time         `json:"invoiceDate" binding:"required"`
	Currency        string            `json:"currency" binding:"required,len=3"`
	ParentInvoiceID *string           `json:"parentInvoiceID,omitempty"`
	LineItems       []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest defines the payload for updating a not-yet-finalized
// invoice. Providing lineItems replaces the full set.
type UpdateInvoiceRequest struct {
	PayeeID         *string           `json:"payeeID,omitempty"`
	InvoiceDate     *time.Time        `json:"invoiceDate,omitempty"`
	ParentInvoiceID *string           `json:"parentInvoiceID,omitempty"`
	LineItems       []LineItemRequest `json:"lineItems,omitempty" binding:"omitempty,dive"`
}

// RecordPaymentRequest defines the payload for recording a payment against a
// sent invoice.
type RecordPaymentRequest struct {
	AmountMinor int64  `json:"amountMinorUnits" binding:"required"`
	Currency    string `json:"currency" binding:"required,len=3"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID            string             `json:"invoiceID"`
	Status               string             `json:"status"`
	PayeeID              *string            `json:"payeeID,omitempty"`
	InvoiceNumber        *string            `json:"invoiceNumber,omitempty"`
	InvoiceDate          time.Time          `json:"invoiceDate"`
	TotalAmountMinor     int64              `json:"totalAmountMinorUnits"`
	Currency             string             `json:"currency"`
	IsCreditNote         bool               `json:"isCreditNote"`
	ParentInvoiceID      *string            `json:"parentInvoiceID,omitempty"`
	DocumentRef          *string            `json:"documentRef,omitempty"`
	DocumentRefSecondary *string            `json:"documentRefSecondary,omitempty"`
	GeneratedAt          *time.Time         `json:"generatedAt,omitempty"`
	HasPreview           bool               `json:"hasPreview"`
	LineItems            []LineItemResponse `json:"lineItems"`
	ErrorMessage         *string            `json:"errorMessage,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
// hasPreview is supplied by the caller from the storage existence check.
func ToInvoiceResponse(inv *domain.Invoice, hasPreview bool) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:            inv.InvoiceID,
		Status:               string(inv.Status),
		PayeeID:              inv.PayeeID,
		InvoiceNumber:        inv.InvoiceNumber,
		InvoiceDate:          inv.InvoiceDate,
		TotalAmountMinor:     inv.TotalAmount.AmountMinor,
		Currency:             inv.TotalAmount.Currency,
		IsCreditNote:         inv.IsCreditNote(),
		ParentInvoiceID:      inv.ParentInvoiceID,
		DocumentRef:          inv.DocumentRef,
		DocumentRefSecondary: inv.DocumentRefSecondary,
		GeneratedAt:          inv.GeneratedAt,
		HasPreview:           hasPreview,
		LineItems:            ToLineItemResponses(inv.LineItems),
		ErrorMessage:         inv.ErrorMessage,
	}
}
