package models

import "time"

// StripeTransaction is the persistence model for the stripe_transactions
// table.
type StripeTransaction struct {
	TransactionID       string
	StripeAccountID     string
	ExternalID          string
	Type                string
	AmountMinor         int64
	Currency            string
	CustomerName        string
	CustomerEmail       string
	CustomerCountry     string
	TransactionDate     time.Time
	Status              string
	IsComplete          bool
	LinkedInvoiceItemID *string
	AuditFields
}
