package models

import "time"

// Invoice is the persistence model for the invoices table.
type Invoice struct {
	InvoiceID            string
	Status               string
	PayeeID              *string
	InvoiceNumber        *string
	InvoiceDate          time.Time
	TotalAmountMinor     int64
	Currency             string
	ParentInvoiceID      *string
	DocumentRef          *string
	DocumentRefSecondary *string
	GeneratedAt          *time.Time
	ErrorMessage         *string
	AuditFields
}
