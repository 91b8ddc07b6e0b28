package mapping

import (
	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/models"
)

// ToModelInvoice converts a domain.Invoice to its persistence model. Line
// items are mapped separately.
func ToModelInvoice(i domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:            i.InvoiceID,
		Status:               string(i.Status),
		PayeeID:              i.PayeeID,
		InvoiceNumber:        i.InvoiceNumber,
		InvoiceDate:          i.InvoiceDate,
		TotalAmountMinor:     i.TotalAmount.AmountMinor,
		Currency:             i.TotalAmount.Currency,
		ParentInvoiceID:      i.ParentInvoiceID,
		DocumentRef:          i.DocumentRef,
		DocumentRefSecondary: i.DocumentRefSecondary,
		GeneratedAt:          i.GeneratedAt,
		ErrorMessage:         i.ErrorMessage,
		AuditFields:          ToModelAuditFields(i.AuditFields),
	}
}

// ToDomainInvoice converts a persistence invoice and its line items to the
// domain form.
func ToDomainInvoice(i models.Invoice, items []models.LineItem) domain.Invoice {
	return domain.Invoice{
		InvoiceID:            i.InvoiceID,
		Status:               domain.InvoiceStatus(i.Status),
		PayeeID:              i.PayeeID,
		InvoiceNumber:        i.InvoiceNumber,
		InvoiceDate:          i.InvoiceDate,
		TotalAmount:          domain.Money{AmountMinor: i.TotalAmountMinor, Currency: i.Currency},
		LineItems:            ToDomainLineItems(items),
		ParentInvoiceID:      i.ParentInvoiceID,
		DocumentRef:          i.DocumentRef,
		DocumentRefSecondary: i.DocumentRefSecondary,
		GeneratedAt:          i.GeneratedAt,
		ErrorMessage:         i.ErrorMessage,
		AuditFields:          ToDomainAuditFields(i.AuditFields),
	}
}
