package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/invobook/invobook/internal/core/domain"
)

// PayeeReader defines read operations for payee data
type PayeeReader interface {
	// FindPayeeByID retrieves a specific payee by its unique identifier.
	FindPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error)

	// ListPayees retrieves a paginated list of payees.
	ListPayees(ctx context.Context, limit int, offset int) ([]domain.Payee, error)
}

// PayeeWriter defines write operations for payee data
type PayeeWriter interface {
	// SavePayee persists a new payee.
	SavePayee(ctx context.Context, payee domain.Payee) error

	// UpdatePayee updates an existing payee's details. The numbering counter
	// is excluded; it only moves through IssueInvoiceNumberInTx.
	UpdatePayee(ctx context.Context, payee domain.Payee) error
}

// PayeeNumberingSupport is the invoice numbering sequencer's persistence
// contract. The increment runs inside the caller's transaction so that a
// failed finalization rolls the counter back and never burns a number.
type PayeeNumberingSupport interface {
	// IssueInvoiceNumberInTx atomically claims the payee's next sequence
	// value and increments the counter by exactly one, returning the
	// invoicing prefix and the claimed value. The row-level lock the update
	// takes serializes concurrent issuance per payee.
	IssueInvoiceNumberInTx(ctx context.Context, tx pgx.Tx, payeeID string, userID string, now time.Time) (prefix string, sequence int64, err error)
}

// PayeeRepositoryFacade combines all payee-related repository interfaces
type PayeeRepositoryFacade interface {
	PayeeReader
	PayeeWriter
	PayeeNumberingSupport
}

// PayeeRepositoryWithTx extends PayeeRepositoryFacade with transaction capabilities
type PayeeRepositoryWithTx interface {
	PayeeRepositoryFacade
	TransactionManager
}
