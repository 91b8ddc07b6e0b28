package services

import (
	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, docGen portssvc.DocumentGenerator, storage portssvc.StorageChecker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Payee = NewPayeeService(repos.PayeeRepo)
	container.Bill = NewBillService(repos.BillRepo, repos.PayeeRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.PayeeRepo, docGen)

	// The reconciliation engine reuses the invoice service's finalization
	// inside its own database transaction.
	finalizer := container.Invoice.(portssvc.InvoiceFinalizer)
	container.Reconciliation = NewReconciliationService(repos.StripeTransactionRepo, repos.InvoiceRepo, finalizer)

	container.Storage = storage

	return container
}
