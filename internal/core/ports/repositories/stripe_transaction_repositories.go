package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/invobook/invobook/internal/core/domain"
)

// StripeTransactionReader defines read operations for imported transactions
type StripeTransactionReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.StripeTransaction, error)

	// FindTransactionByExternalID retrieves a transaction by the key the
	// sync job delivers it under.
	FindTransactionByExternalID(ctx context.Context, stripeAccountID string, externalID string) (*domain.StripeTransaction, error)

	// ListTransactions retrieves a paginated list of transactions,
	// optionally filtered by status (nil means all).
	ListTransactions(ctx context.Context, status *domain.StripeTransactionStatus, limit int, offset int) ([]domain.StripeTransaction, error)
}

// StripeTransactionWriter defines write operations for imported transactions
type StripeTransactionWriter interface {
	// SaveTransaction upserts a transaction delivered by the sync job,
	// keyed on its external ID. Link fields are never overwritten.
	SaveTransaction(ctx context.Context, txn domain.StripeTransaction) error

	// UpdateTransactionStatus advances the transaction's status. The caller
	// has already validated the transition against the state machine.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.StripeTransactionStatus, userID string, now time.Time) error
}

// StripeTransactionReconciliationSupport defines the transaction writes that
// participate in the reconciliation database transaction.
type StripeTransactionReconciliationSupport interface {
	// FindTransactionByIDForUpdate loads a transaction and locks its row
	// for the duration of the database transaction, so two concurrent
	// reconciliations of the same transaction serialize and the second
	// observes the link the first committed.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.StripeTransaction, error)

	// LinkTransactionToInvoiceItemInTx records the transaction's link to
	// the generated invoice line item and moves it to INVOICED.
	LinkTransactionToInvoiceItemInTx(ctx context.Context, tx pgx.Tx, transactionID string, lineItemID string, userID string, now time.Time) error
}

// StripeTransactionRepositoryFacade combines all transaction-related repository interfaces
type StripeTransactionRepositoryFacade interface {
	StripeTransactionReader
	StripeTransactionWriter
	StripeTransactionReconciliationSupport
}

// StripeTransactionRepositoryWithTx extends the facade with transaction capabilities
type StripeTransactionRepositoryWithTx interface {
	StripeTransactionRepositoryFacade
	TransactionManager
}
