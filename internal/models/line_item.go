package models

import "github.com/shopspring/decimal"

// LineItem is the persistence model for bill_line_items and
// invoice_line_items rows. DocumentID is the owning bill or invoice ID.
type LineItem struct {
	LineItemID     string
	DocumentID     string
	Description    string
	Unit           string
	Quantity       decimal.Decimal
	UnitPriceMinor int64
	TotalMinor     int64
	Position       int
}
