package domain

import (
	"fmt"
	"time"
)

// InvoiceStatus indicates where an outgoing invoice is in its lifecycle.
// The happy path is linear: PENDING -> EXTRACTED -> REVIEWED -> READY_TO_SEND
// -> SENT -> (PARTIALLY_PAID) -> PAID.
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusExtracted     InvoiceStatus = "EXTRACTED"
	InvoiceStatusReviewed      InvoiceStatus = "REVIEWED"
	InvoiceStatusReadyToSend   InvoiceStatus = "READY_TO_SEND"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusFailed        InvoiceStatus = "FAILED"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusPending:       {InvoiceStatusExtracted, InvoiceStatusReviewed, InvoiceStatusFailed},
	InvoiceStatusExtracted:     {InvoiceStatusReviewed, InvoiceStatusFailed},
	InvoiceStatusReviewed:      {InvoiceStatusReadyToSend},
	InvoiceStatusReadyToSend:   {InvoiceStatusSent},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPartiallyPaid, InvoiceStatusPaid},
	InvoiceStatusFailed:        {InvoiceStatusPending},
}

// CanTransitionTo reports whether the invoice state machine allows moving
// from s to target.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range invoiceTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsPending reports whether the invoice is still open.
func (s InvoiceStatus) IsPending() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusExtracted, InvoiceStatusReviewed,
		InvoiceStatusReadyToSend, InvoiceStatusSent, InvoiceStatusPartiallyPaid:
		return true
	}
	return false
}

// NeedsReview reports whether the invoice awaits an operator's review.
func (s InvoiceStatus) NeedsReview() bool {
	return s == InvoiceStatusExtracted
}

// CanBeFinalized reports whether the invoice may enter finalization.
// Reviewed is the only finalizable status.
func (s InvoiceStatus) CanBeFinalized() bool {
	return s == InvoiceStatusReviewed
}

// CanBeSent reports whether the invoice may be marked as sent.
func (s InvoiceStatus) CanBeSent() bool {
	return s == InvoiceStatusReadyToSend
}

// CanRecordPayment reports whether a payment may be recorded against the
// invoice.
func (s InvoiceStatus) CanRecordPayment() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid
}

// CanBeWrittenOff reports whether the invoice may be written off as
// uncollectible.
func (s InvoiceStatus) CanBeWrittenOff() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid
}

// IsFinalized reports whether the invoice has passed finalization, i.e. has
// a permanently assigned number and a generated document.
func (s InvoiceStatus) IsFinalized() bool {
	switch s {
	case InvoiceStatusReadyToSend, InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// GeneratedDocuments holds references to the durable artifacts produced by
// the document generator, a primary-language document and an optional
// secondary-language one.
type GeneratedDocuments struct {
	Primary   string  `json:"documentRef"`
	Secondary *string `json:"documentRefSecondary,omitempty"`
}

// Invoice is an outgoing customer invoice. An invoice with a negative total
// is a credit note and carries a reference to the invoice it credits.
type Invoice struct {
	InvoiceID            string        `json:"invoiceID"`
	Status               InvoiceStatus `json:"status"`
	PayeeID              *string       `json:"payeeID,omitempty"`
	InvoiceNumber        *string       `json:"invoiceNumber,omitempty"` // unique per payee sequence
	InvoiceDate          time.Time     `json:"invoiceDate"`
	TotalAmount          Money         `json:"totalAmount"`
	LineItems            []LineItem    `json:"lineItems"`
	ParentInvoiceID      *string       `json:"parentInvoiceID,omitempty"`
	DocumentRef          *string       `json:"documentRef,omitempty"`
	DocumentRefSecondary *string       `json:"documentRefSecondary,omitempty"`
	GeneratedAt          *time.Time    `json:"generatedAt,omitempty"`
	ErrorMessage         *string       `json:"errorMessage,omitempty"`
	AuditFields
}

// TransitionTo advances the invoice's status, failing with an
// InvalidTransitionError when the state machine forbids the move.
func (i *Invoice) TransitionTo(target InvoiceStatus) error {
	if !i.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{Entity: "invoice", From: string(i.Status), To: string(target)}
	}
	i.Status = target
	return nil
}

// RecomputeTotal rederives every line item total and the invoice's total
// amount from its line items. Idempotent for unchanged line items.
func (i *Invoice) RecomputeTotal() Money {
	i.TotalAmount = recomputeLineItemTotals(i.LineItems, i.TotalAmount.Currency)
	return i.TotalAmount
}

// IsCreditNote reports whether the invoice credits a previous invoice.
func (i *Invoice) IsCreditNote() bool {
	return i.TotalAmount.IsNegative()
}

// FormatInvoiceNumber renders the deterministic invoice number for a payee's
// prefix and sequence value, e.g. ("ACME", 7) -> "ACME-0007".
func FormatInvoiceNumber(prefix string, sequence int64) string {
	return fmt.Sprintf("%s-%04d", prefix, sequence)
}
