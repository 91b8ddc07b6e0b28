package dto

import (
	"github.com/shopspring/decimal"

	"github.com/invobook/invobook/internal/core/domain"
)

// LineItemRequest carries one billable position on a create/update request.
// The total is never accepted from the client; it is derived.
type LineItemRequest struct {
	Description    string          `json:"description" binding:"required"`
	Unit           string          `json:"unit" binding:"required,oneof=DAYS HOURS UNITS"`
	Quantity       decimal.Decimal `json:"quantity" binding:"dgte0"`
	UnitPriceMinor int64           `json:"unitPriceMinorUnits"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	LineItemID     string          `json:"lineItemID"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceMinor int64           `json:"unitPriceMinorUnits"`
	TotalMinor     int64           `json:"totalMinorUnits"`
}

// ToLineItemResponses converts domain line items to response DTOs.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		responses[i] = LineItemResponse{
			LineItemID:     item.LineItemID,
			Description:    item.Description,
			Unit:           string(item.Unit),
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
			TotalMinor:     item.TotalMinor,
		}
	}
	return responses
}
