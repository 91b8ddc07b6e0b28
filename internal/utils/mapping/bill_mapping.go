package mapping

import (
	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/models"
)

// ToModelBill converts a domain.Bill to its persistence model. Line items
// are mapped separately.
func ToModelBill(b domain.Bill) models.Bill {
	return models.Bill{
		BillID:           b.BillID,
		Status:           string(b.Status),
		SupplierName:     b.SupplierName,
		PayeeID:          b.PayeeID,
		BillNumber:       b.BillNumber,
		BillDate:         b.BillDate,
		DueDate:          b.DueDate,
		TotalAmountMinor: b.TotalAmount.AmountMinor,
		Currency:         b.TotalAmount.Currency,
		ErrorMessage:     b.ErrorMessage,
		AuditFields:      ToModelAuditFields(b.AuditFields),
	}
}

// ToDomainBill converts a persistence bill and its line items to the domain
// form.
func ToDomainBill(b models.Bill, items []models.LineItem) domain.Bill {
	return domain.Bill{
		BillID:       b.BillID,
		Status:       domain.BillStatus(b.Status),
		SupplierName: b.SupplierName,
		PayeeID:      b.PayeeID,
		BillNumber:   b.BillNumber,
		BillDate:     b.BillDate,
		DueDate:      b.DueDate,
		TotalAmount:  domain.Money{AmountMinor: b.TotalAmountMinor, Currency: b.Currency},
		LineItems:    ToDomainLineItems(items),
		ErrorMessage: b.ErrorMessage,
		AuditFields:  ToDomainAuditFields(b.AuditFields),
	}
}
