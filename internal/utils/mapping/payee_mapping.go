package mapping

import (
	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/models"
)

// ToModelPayee converts a domain.Payee to its persistence model.
func ToModelPayee(p domain.Payee) models.Payee {
	return models.Payee{
		PayeeID:           p.PayeeID,
		Name:              p.Name,
		AddressLine1:      p.AddressLine1,
		AddressLine2:      p.AddressLine2,
		City:              p.City,
		PostalCode:        p.PostalCode,
		Country:           p.Country,
		InvoicingPrefix:   p.InvoicingPrefix,
		NextInvoiceNumber: p.NextInvoiceNumber,
		AuditFields:       ToModelAuditFields(p.AuditFields),
	}
}

// ToDomainPayee converts a persistence payee to its domain form.
func ToDomainPayee(p models.Payee) domain.Payee {
	return domain.Payee{
		PayeeID:           p.PayeeID,
		Name:              p.Name,
		AddressLine1:      p.AddressLine1,
		AddressLine2:      p.AddressLine2,
		City:              p.City,
		PostalCode:        p.PostalCode,
		Country:           p.Country,
		InvoicingPrefix:   p.InvoicingPrefix,
		NextInvoiceNumber: p.NextInvoiceNumber,
		AuditFields:       ToDomainAuditFields(p.AuditFields),
	}
}
