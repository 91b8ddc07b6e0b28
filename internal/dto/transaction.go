package dto

import (
	"time"

	"github.com/invobook/invobook/internal/core/domain"
)

// ImportTransactionRequest defines the payload the external sync job posts
// for each payment processor transaction. Status and invoice link are never
// accepted from the sync job.
type ImportTransactionRequest struct {
	StripeAccountID string    `json:"stripeAccountID" binding:"required"`
	ExternalID      string    `json:"externalID" binding:"required"`
	Type            string    `json:"type" binding:"required,oneof=PAYMENT REFUND CHARGEBACK FEE"`
	AmountMinor     int64     `json:"amountMinorUnits"`
	Currency        string    `json:"currency" binding:"required,len=3"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerCountry string    `json:"customerCountry"`
	TransactionDate time.Time `json:"transactionDate" binding:"required"`
	IsComplete      bool      `json:"isComplete"`
}

// ReconcileTransactionRequest defines the payload for generating an invoice
// from a single transaction. The payee selects the numbering sequence the
// generated invoice draws from.
type ReconcileTransactionRequest struct {
	PayeeID string `json:"payeeID" binding:"required"`
}

// ReconcileBatchRequest defines the payload for batch reconciliation.
type ReconcileBatchRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"required,min=1"`
	PayeeID        string   `json:"payeeID" binding:"required"`
}

// ReconciliationFailureResponse reports why one transaction of a batch could
// not be invoiced.
type ReconciliationFailureResponse struct {
	TransactionID string `json:"transactionID"`
	Reason        string `json:"reason"`
}

// ReconciliationSummaryResponse aggregates the outcome of a batch run.
type ReconciliationSummaryResponse struct {
	Succeeded int                             `json:"succeeded"`
	Failures  []ReconciliationFailureResponse `json:"failures"`
}

// ToReconciliationSummaryResponse converts a domain summary to its DTO.
func ToReconciliationSummaryResponse(s *domain.ReconciliationSummary) ReconciliationSummaryResponse {
	failures := make([]ReconciliationFailureResponse, len(s.Failures))
	for i, f := range s.Failures {
		failures[i] = ReconciliationFailureResponse{TransactionID: f.TransactionID, Reason: f.Reason}
	}
	return ReconciliationSummaryResponse{Succeeded: s.Succeeded, Failures: failures}
}

// StripeTransactionResponse defines the data returned for an imported
// payment processor transaction.
type StripeTransactionResponse struct {
	TransactionID       string    `json:"transactionID"`
	StripeAccountID     string    `json:"stripeAccountID"`
	ExternalID          string    `json:"externalID"`
	Type                string    `json:"type"`
	AmountMinor         int64     `json:"amountMinorUnits"`
	Currency            string    `json:"currency"`
	CustomerName        string    `json:"customerName,omitempty"`
	CustomerEmail       string    `json:"customerEmail,omitempty"`
	TransactionDate     time.Time `json:"transactionDate"`
	Status              string    `json:"status"`
	IsComplete          bool      `json:"isComplete"`
	LinkedInvoiceItemID *string   `json:"linkedInvoiceItemID,omitempty"`
}

// ToStripeTransactionResponse converts a domain.StripeTransaction to its DTO.
func ToStripeTransactionResponse(t *domain.StripeTransaction) StripeTransactionResponse {
	return StripeTransactionResponse{
		TransactionID:       t.TransactionID,
		StripeAccountID:     t.StripeAccountID,
		ExternalID:          t.ExternalID,
		Type:                string(t.Type),
		AmountMinor:         t.Amount.AmountMinor,
		Currency:            t.Amount.Currency,
		CustomerName:        t.CustomerName,
		CustomerEmail:       t.CustomerEmail,
		TransactionDate:     t.TransactionDate,
		Status:              string(t.Status),
		IsComplete:          t.IsComplete,
		LinkedInvoiceItemID: t.LinkedInvoiceItemID,
	}
}

// ToStripeTransactionResponses converts a slice of transactions to DTOs.
func ToStripeTransactionResponses(txns []domain.StripeTransaction) []StripeTransactionResponse {
	responses := make([]StripeTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToStripeTransactionResponse(&txns[i])
	}
	return responses
}
