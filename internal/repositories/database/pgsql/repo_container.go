package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/invobook/invobook/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	payeeRepo := newPgxPayeeRepository(dbPool)
	billRepo := newPgxBillRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	stripeTxnRepo := newPgxStripeTransactionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		PayeeRepo:             payeeRepo,
		BillRepo:              billRepo,
		InvoiceRepo:           invoiceRepo,
		StripeTransactionRepo: stripeTxnRepo,
	}
}
