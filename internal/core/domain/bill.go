package domain

import "time"

// BillStatus indicates where a supplier bill is in its lifecycle.
type BillStatus string

const (
	BillStatusPending         BillStatus = "PENDING"
	BillStatusExtracted       BillStatus = "EXTRACTED"
	BillStatusReviewed        BillStatus = "REVIEWED"
	BillStatusPaid            BillStatus = "PAID"
	BillStatusPaidNeedsReview BillStatus = "PAID_NEEDS_REVIEW"
	BillStatusFailed          BillStatus = "FAILED"
)

// billTransitions enumerates the legal status changes for bills. PAID may
// regress to PAID_NEEDS_REVIEW when a paid bill's document is re-extracted.
var billTransitions = map[BillStatus][]BillStatus{
	BillStatusPending:         {BillStatusExtracted, BillStatusReviewed, BillStatusFailed},
	BillStatusExtracted:       {BillStatusReviewed, BillStatusFailed},
	BillStatusReviewed:        {BillStatusPaid},
	BillStatusPaid:            {BillStatusPaidNeedsReview},
	BillStatusPaidNeedsReview: {BillStatusReviewed},
	BillStatusFailed:          {BillStatusPending},
}

// CanTransitionTo reports whether the bill state machine allows moving from
// s to target.
func (s BillStatus) CanTransitionTo(target BillStatus) bool {
	for _, t := range billTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsPending reports whether the bill is still open, i.e. not settled or failed.
func (s BillStatus) IsPending() bool {
	switch s {
	case BillStatusPending, BillStatusExtracted, BillStatusReviewed, BillStatusPaidNeedsReview:
		return true
	}
	return false
}

// NeedsReview reports whether the bill awaits an operator's review.
func (s BillStatus) NeedsReview() bool {
	return s == BillStatusExtracted || s == BillStatusPaidNeedsReview
}

// CanBePaid reports whether the bill may be marked as paid. Reviewed is the
// only payable status.
func (s BillStatus) CanBePaid() bool {
	return s == BillStatusReviewed
}

// Bill is a payable document received from a supplier.
type Bill struct {
	BillID       string     `json:"billID"`
	Status       BillStatus `json:"status"`
	SupplierName string     `json:"supplierName"`
	PayeeID      *string    `json:"payeeID,omitempty"`
	BillNumber   *string    `json:"billNumber,omitempty"`
	BillDate     time.Time  `json:"billDate"`
	DueDate      time.Time  `json:"dueDate"`
	TotalAmount  Money      `json:"totalAmount"`
	LineItems    []LineItem `json:"lineItems"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	AuditFields
}

// TransitionTo advances the bill's status, failing with an
// InvalidTransitionError when the state machine forbids the move.
func (b *Bill) TransitionTo(target BillStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{Entity: "bill", From: string(b.Status), To: string(target)}
	}
	b.Status = target
	return nil
}

// RecomputeTotal rederives every line item total and the bill's total amount
// from its line items. Idempotent for unchanged line items.
func (b *Bill) RecomputeTotal() Money {
	b.TotalAmount = recomputeLineItemTotals(b.LineItems, b.TotalAmount.Currency)
	return b.TotalAmount
}
