package domain

import (
	"fmt"
	"time"
)

// StripeTransactionType classifies a payment processor transaction.
type StripeTransactionType string

const (
	TransactionTypePayment    StripeTransactionType = "PAYMENT"
	TransactionTypeRefund     StripeTransactionType = "REFUND"
	TransactionTypeChargeback StripeTransactionType = "CHARGEBACK"
	TransactionTypeFee        StripeTransactionType = "FEE"
)

// StripeTransactionStatus tracks a transaction through reconciliation.
// INVOICED is terminal and is only ever reached through the reconciliation
// engine; it never reverts.
type StripeTransactionStatus string

const (
	TransactionStatusPendingReview StripeTransactionStatus = "PENDING_REVIEW"
	TransactionStatusReady         StripeTransactionStatus = "READY"
	TransactionStatusInvoiced      StripeTransactionStatus = "INVOICED"
	TransactionStatusIgnored       StripeTransactionStatus = "IGNORED"
)

var stripeTransactionTransitions = map[StripeTransactionStatus][]StripeTransactionStatus{
	TransactionStatusPendingReview: {TransactionStatusReady, TransactionStatusInvoiced, TransactionStatusIgnored},
	TransactionStatusReady:         {TransactionStatusInvoiced, TransactionStatusIgnored},
	TransactionStatusInvoiced:      {},
	TransactionStatusIgnored:       {TransactionStatusReady},
}

// CanTransitionTo reports whether the transaction status machine allows
// moving from s to target.
func (s StripeTransactionStatus) CanTransitionTo(target StripeTransactionStatus) bool {
	for _, t := range stripeTransactionTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// StripeTransaction is a payment processor transaction imported by the
// external sync job. The core only reads it and updates its status and
// invoice link. Invariant: at most one linked invoice line item per
// transaction, and Status is INVOICED iff the link exists.
type StripeTransaction struct {
	TransactionID       string                  `json:"transactionID"`
	StripeAccountID     string                  `json:"stripeAccountID"`
	ExternalID          string                  `json:"externalID"`
	Type                StripeTransactionType   `json:"type"`
	Amount              Money                   `json:"amount"`
	CustomerName        string                  `json:"customerName"`
	CustomerEmail       string                  `json:"customerEmail,omitempty"`
	CustomerCountry     string                  `json:"customerCountry,omitempty"`
	TransactionDate     time.Time               `json:"transactionDate"`
	Status              StripeTransactionStatus `json:"status"`
	IsComplete          bool                    `json:"isComplete"`
	LinkedInvoiceItemID *string                 `json:"linkedInvoiceItemID,omitempty"`
	AuditFields
}

// TransitionTo advances the transaction's status, failing with an
// InvalidTransitionError when the state machine forbids the move.
func (t *StripeTransaction) TransitionTo(target StripeTransactionStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{Entity: "stripe transaction", From: string(t.Status), To: string(target)}
	}
	t.Status = target
	return nil
}

// IsCredit reports whether the transaction reduces revenue and must appear
// on the invoice with its sign flipped.
func (t *StripeTransaction) IsCredit() bool {
	return t.Type == TransactionTypeRefund || t.Type == TransactionTypeChargeback
}

// InvoiceLineDescription derives the line item description for the invoice
// generated from this transaction.
func (t *StripeTransaction) InvoiceLineDescription() string {
	label := "Payment"
	switch t.Type {
	case TransactionTypeRefund:
		label = "Refund"
	case TransactionTypeChargeback:
		label = "Chargeback"
	case TransactionTypeFee:
		label = "Processing fee"
	}
	if t.CustomerName != "" {
		return fmt.Sprintf("%s %s (%s)", label, t.ExternalID, t.CustomerName)
	}
	return fmt.Sprintf("%s %s", label, t.ExternalID)
}
