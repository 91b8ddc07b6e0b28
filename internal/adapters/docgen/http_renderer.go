// Package docgen calls the external document renderer that turns a finalized
// invoice into its durable PDF artifacts.
package docgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/invobook/invobook/internal/core/domain"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

const defaultTimeout = 30 * time.Second

// HTTPRenderer implements the DocumentGenerator port against the renderer's
// HTTP API.
type HTTPRenderer struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRenderer creates a renderer client for the given base URL.
func NewHTTPRenderer(baseURL string) *HTTPRenderer {
	return &HTTPRenderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

var _ portssvc.DocumentGenerator = (*HTTPRenderer)(nil)

type renderRequest struct {
	InvoiceID     string                 `json:"invoiceID"`
	InvoiceNumber string                 `json:"invoiceNumber"`
	InvoiceDate   time.Time              `json:"invoiceDate"`
	TotalMinor    int64                  `json:"totalAmountMinor"`
	Currency      string                 `json:"currency"`
	IsCreditNote  bool                   `json:"isCreditNote"`
	Payee         renderPayee            `json:"payee"`
	LineItems     []dto.LineItemResponse `json:"lineItems"`
}

type renderPayee struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type renderResponse struct {
	DocumentRef          string  `json:"documentRef"`
	DocumentRefSecondary *string `json:"documentRefSecondary,omitempty"`
}

// GenerateInvoiceDocument renders the invoice and returns storage references
// for the produced documents. The invoice must already carry its number.
func (r *HTTPRenderer) GenerateInvoiceDocument(ctx context.Context, invoice domain.Invoice, payee domain.Payee) (domain.GeneratedDocuments, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if invoice.InvoiceNumber == nil {
		return domain.GeneratedDocuments{}, fmt.Errorf("invoice %s has no number to render", invoice.InvoiceID)
	}

	payload := renderRequest{
		InvoiceID:     invoice.InvoiceID,
		InvoiceNumber: *invoice.InvoiceNumber,
		InvoiceDate:   invoice.InvoiceDate,
		TotalMinor:    invoice.TotalAmount.AmountMinor,
		Currency:      invoice.TotalAmount.Currency,
		IsCreditNote:  invoice.IsCreditNote(),
		Payee: renderPayee{
			Name:         payee.Name,
			AddressLine1: payee.AddressLine1,
			AddressLine2: payee.AddressLine2,
			City:         payee.City,
			PostalCode:   payee.PostalCode,
			Country:      payee.Country,
		},
		LineItems: dto.ToLineItemResponses(invoice.LineItems),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.GeneratedDocuments{}, fmt.Errorf("failed to encode render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render/invoice", bytes.NewReader(body))
	if err != nil {
		return domain.GeneratedDocuments{}, fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.GeneratedDocuments{}, fmt.Errorf("renderer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error("renderer returned non-OK status", "status", resp.StatusCode, "invoice_id", invoice.InvoiceID)
		return domain.GeneratedDocuments{}, fmt.Errorf("renderer returned status %d: %s", resp.StatusCode, string(msg))
	}

	var rendered renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&rendered); err != nil {
		return domain.GeneratedDocuments{}, fmt.Errorf("failed to decode render response: %w", err)
	}
	if rendered.DocumentRef == "" {
		return domain.GeneratedDocuments{}, fmt.Errorf("renderer returned no document reference for invoice %s", invoice.InvoiceID)
	}

	return domain.GeneratedDocuments{
		Primary:   rendered.DocumentRef,
		Secondary: rendered.DocumentRefSecondary,
	}, nil
}
