package services

import (
	"context"

	"github.com/invobook/invobook/internal/core/domain"
)

// DocumentGenerator renders the durable artifact for a finalized document.
// Rendering itself is an external collaborator; the finalization workflow
// only cares that it either returns document references or fails.
type DocumentGenerator interface {
	GenerateInvoiceDocument(ctx context.Context, invoice domain.Invoice, payee domain.Payee) (domain.GeneratedDocuments, error)
}

// StorageChecker answers whether a generated document is present in storage.
// Used only to decide whether a preview can be offered.
type StorageChecker interface {
	Exists(ctx context.Context, ref string) (bool, error)
}
