package dto

import "github.com/invobook/invobook/internal/core/domain"

// CreatePayeeRequest defines the payload for creating a payee.
type CreatePayeeRequest struct {
	Name            string `json:"name" binding:"required"`
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
	InvoicingPrefix string `json:"invoicingPrefix" binding:"required"`
}

// UpdatePayeeRequest defines the payload for updating a payee. The numbering
// counter is not updatable through the API.
type UpdatePayeeRequest struct {
	Name         *string `json:"name,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	PostalCode   *string `json:"postalCode,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// PayeeResponse defines the data returned for a payee.
type PayeeResponse struct {
	PayeeID           string `json:"payeeID"`
	Name              string `json:"name"`
	AddressLine1      string `json:"addressLine1,omitempty"`
	AddressLine2      string `json:"addressLine2,omitempty"`
	City              string `json:"city,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	Country           string `json:"country,omitempty"`
	InvoicingPrefix   string `json:"invoicingPrefix"`
	NextInvoiceNumber int64  `json:"nextInvoiceNumber"`
}

// ToPayeeResponse converts a domain.Payee to PayeeResponse DTO.
func ToPayeeResponse(p *domain.Payee) PayeeResponse {
	return PayeeResponse{
		PayeeID:           p.PayeeID,
		Name:              p.Name,
		AddressLine1:      p.AddressLine1,
		AddressLine2:      p.AddressLine2,
		City:              p.City,
		PostalCode:        p.PostalCode,
		Country:           p.Country,
		InvoicingPrefix:   p.InvoicingPrefix,
		NextInvoiceNumber: p.NextInvoiceNumber,
	}
}

// ToPayeeResponses converts a slice of domain.Payee to []PayeeResponse.
func ToPayeeResponses(payees []domain.Payee) []PayeeResponse {
	responses := make([]PayeeResponse, len(payees))
	for i := range payees {
		responses[i] = ToPayeeResponse(&payees[i])
	}
	return responses
}
