package domain

import (
	"fmt"
	"regexp"
)

var invoicingPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// Payee is the party invoices are issued to or on whose behalf bills are
// tracked. Each payee owns its own invoice numbering sequence:
// NextInvoiceNumber is the value the next issued invoice number will carry
// and is only ever incremented by the numbering sequencer.
type Payee struct {
	PayeeID           string `json:"payeeID"`
	Name              string `json:"name"`
	AddressLine1      string `json:"addressLine1"`
	AddressLine2      string `json:"addressLine2,omitempty"`
	City              string `json:"city"`
	PostalCode        string `json:"postalCode"`
	Country           string `json:"country"`
	InvoicingPrefix   string `json:"invoicingPrefix"`
	NextInvoiceNumber int64  `json:"nextInvoiceNumber"`
	AuditFields
}

// Validate checks structural payee invariants.
func (p Payee) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("payee name is required")
	}
	if !invoicingPrefixPattern.MatchString(p.InvoicingPrefix) {
		return fmt.Errorf("invoicing prefix %q must be 2-10 uppercase letters or digits", p.InvoicingPrefix)
	}
	if p.NextInvoiceNumber < 1 {
		return fmt.Errorf("next invoice number must be at least 1")
	}
	return nil
}
