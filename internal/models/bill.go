package models

import "time"

// Bill is the persistence model for the bills table.
type Bill struct {
	BillID           string
	Status           string
	SupplierName     string
	PayeeID          *string
	BillNumber       *string
	BillDate         time.Time
	DueDate          time.Time
	TotalAmountMinor int64
	Currency         string
	ErrorMessage     *string
	AuditFields
}
