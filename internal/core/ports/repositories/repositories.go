package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container at startup.
type RepositoryProvider struct {
	PayeeRepo             PayeeRepositoryWithTx
	BillRepo              BillRepositoryFacade
	InvoiceRepo           InvoiceRepositoryWithTx
	StripeTransactionRepo StripeTransactionRepositoryWithTx
}
