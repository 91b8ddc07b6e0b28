package mapping

import (
	"github.com/invobook/invobook/internal/core/domain"
	"github.com/invobook/invobook/internal/models"
)

// ToModelLineItem converts a domain line item belonging to documentID to its
// persistence model.
func ToModelLineItem(li domain.LineItem, documentID string) models.LineItem {
	return models.LineItem{
		LineItemID:     li.LineItemID,
		DocumentID:     documentID,
		Description:    li.Description,
		Unit:           string(li.Unit),
		Quantity:       li.Quantity,
		UnitPriceMinor: li.UnitPriceMinor,
		TotalMinor:     li.TotalMinor,
		Position:       li.Position,
	}
}

// ToDomainLineItem converts a persistence line item to its domain form.
func ToDomainLineItem(li models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:     li.LineItemID,
		Description:    li.Description,
		Unit:           domain.LineItemUnit(li.Unit),
		Quantity:       li.Quantity,
		UnitPriceMinor: li.UnitPriceMinor,
		TotalMinor:     li.TotalMinor,
		Position:       li.Position,
	}
}

// ToDomainLineItems converts a slice of persistence line items.
func ToDomainLineItems(items []models.LineItem) []domain.LineItem {
	result := make([]domain.LineItem, len(items))
	for i, li := range items {
		result[i] = ToDomainLineItem(li)
	}
	return result
}
