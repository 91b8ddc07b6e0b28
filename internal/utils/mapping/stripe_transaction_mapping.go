package mapping

import (
	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/models"
)

// ToModelStripeTransaction converts a domain transaction to its persistence
// model.
func ToModelStripeTransaction(t domain.StripeTransaction) models.StripeTransaction {
	return models.StripeTransaction{
		TransactionID:       t.TransactionID,
		StripeAccountID:     t.StripeAccountID,
		ExternalID:          t.ExternalID,
		Type:                string(t.Type),
		AmountMinor:         t.Amount.AmountMinor,
		Currency:            t.Amount.Currency,
		CustomerName:        t.CustomerName,
		CustomerEmail:       t.CustomerEmail,
		CustomerCountry:     t.CustomerCountry,
		TransactionDate:     t.TransactionDate,
		Status:              string(t.Status),
		IsComplete:          t.IsComplete,
		LinkedInvoiceItemID: t.LinkedInvoiceItemID,
		AuditFields:         ToModelAuditFields(t.AuditFields),
	}
}

// ToDomainStripeTransaction converts a persistence transaction to its domain
// form.
func ToDomainStripeTransaction(t models.StripeTransaction) domain.StripeTransaction {
	return domain.StripeTransaction{
		TransactionID:       t.TransactionID,
		StripeAccountID:     t.StripeAccountID,
		ExternalID:          t.ExternalID,
		Type:                domain.StripeTransactionType(t.Type),
		Amount:              domain.Money{AmountMinor: t.AmountMinor, Currency: t.Currency},
		CustomerName:        t.CustomerName,
		CustomerEmail:       t.CustomerEmail,
		CustomerCountry:     t.CustomerCountry,
		TransactionDate:     t.TransactionDate,
		Status:              domain.StripeTransactionStatus(t.Status),
		IsComplete:          t.IsComplete,
		LinkedInvoiceItemID: t.LinkedInvoiceItemID,
		AuditFields:         ToDomainAuditFields(t.AuditFields),
	}
}
