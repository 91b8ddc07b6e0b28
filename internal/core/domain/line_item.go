package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItemUnit is the billing unit a line item is quantified in.
type LineItemUnit string

const (
	UnitDays  LineItemUnit = "DAYS"
	UnitHours LineItemUnit = "HOURS"
	UnitUnits LineItemUnit = "UNITS"
)

// ValidLineItemUnit reports whether u is a known billing unit.
func ValidLineItemUnit(u LineItemUnit) bool {
	switch u {
	case UnitDays, UnitHours, UnitUnits:
		return true
	}
	return false
}

// LineItem is a single billable position on a bill or invoice.
// TotalMinor is always derived from Quantity and UnitPriceMinor and is
// recomputed before it is relied upon; it is never authoritative.
type LineItem struct {
	LineItemID     string          `json:"lineItemID"`
	Description    string          `json:"description"`
	Unit           LineItemUnit    `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"` // >= 0
	UnitPriceMinor int64           `json:"unitPriceMinorUnits"`
	TotalMinor     int64           `json:"totalMinorUnits"`
	Position       int             `json:"position"`
}

// ComputeTotal returns round(quantity * unitPrice) in minor units.
func (li LineItem) ComputeTotal() int64 {
	return li.Quantity.Mul(decimal.NewFromInt(li.UnitPriceMinor)).Round(0).IntPart()
}

// Validate checks structural line item invariants.
func (li LineItem) Validate() error {
	if li.Description == "" {
		return fmt.Errorf("line item description is required")
	}
	if !ValidLineItemUnit(li.Unit) {
		return fmt.Errorf("unknown line item unit %q", li.Unit)
	}
	if li.Quantity.IsNegative() {
		return fmt.Errorf("line item quantity must not be negative")
	}
	return nil
}

// recomputeLineItemTotals rewrites the derived total of every line item and
// returns their sum in the given currency. Calling it repeatedly with
// unchanged items yields the same result.
func recomputeLineItemTotals(items []LineItem, currency string) Money {
	var sum int64
	for i := range items {
		items[i].TotalMinor = items[i].ComputeTotal()
		sum += items[i].TotalMinor
	}
	return Money{AmountMinor: sum, Currency: currency}
}
