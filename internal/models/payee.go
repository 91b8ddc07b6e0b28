package models

// Payee is the persistence model for the payees table.
type Payee struct {
	PayeeID           string
	Name              string
	AddressLine1      string
	AddressLine2      string
	City              string
	PostalCode        string
	Country           string
	InvoicingPrefix   string
	NextInvoiceNumber int64
	AuditFields
}
