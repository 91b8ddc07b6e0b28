package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/invobook/invobook/internal/core/domain"
)

// --- Mock for PayeeRepositoryWithTx ---

type MockPayeeRepository struct {
	mock.Mock
}

func (m *MockPayeeRepository) SavePayee(ctx context.Context, payee domain.Payee) error {
	args := m.Called(ctx, payee)
	return args.Error(0)
}

func (m *MockPayeeRepository) FindPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error) {
	args := m.Called(ctx, payeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payee), args.Error(1)
}

func (m *MockPayeeRepository) ListPayees(ctx context.Context, limit int, offset int) ([]domain.Payee, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payee), args.Error(1)
}

func (m *MockPayeeRepository) UpdatePayee(ctx context.Context, payee domain.Payee) error {
	args := m.Called(ctx, payee)
	return args.Error(0)
}

func (m *MockPayeeRepository) IssueInvoiceNumberInTx(ctx context.Context, tx pgx.Tx, payeeID string, userID string, now time.Time) (string, int64, error) {
	args := m.Called(ctx, tx, payeeID, userID, now)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockPayeeRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPayeeRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPayeeRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock for BillRepositoryFacade ---

type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListBills(ctx context.Context, status *domain.BillStatus, limit int, offset int) ([]domain.Bill, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) UpdateBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus, total domain.Money, userID string, now time.Time) error {
	args := m.Called(ctx, billID, status, total, userID, now)
	return args.Error(0)
}

// --- Mock for InvoiceRepositoryWithTx ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, userID string, now time.Time) error {
	args := m.Called(ctx, invoiceID, status, userID, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateGeneratedDocuments(ctx context.Context, invoiceID string, docs domain.GeneratedDocuments, generatedAt time.Time, userID string, now time.Time) error {
	args := m.Called(ctx, invoiceID, docs, generatedAt, userID, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceFinalizationInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, userID string, now time.Time) error {
	args := m.Called(ctx, tx, invoice, userID, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock for StripeTransactionRepositoryWithTx ---

type MockStripeTransactionRepository struct {
	mock.Mock
}

func (m *MockStripeTransactionRepository) SaveTransaction(ctx context.Context, txn domain.StripeTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockStripeTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.StripeTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StripeTransaction), args.Error(1)
}

func (m *MockStripeTransactionRepository) FindTransactionByExternalID(ctx context.Context, stripeAccountID string, externalID string) (*domain.StripeTransaction, error) {
	args := m.Called(ctx, stripeAccountID, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StripeTransaction), args.Error(1)
}

func (m *MockStripeTransactionRepository) ListTransactions(ctx context.Context, status *domain.StripeTransactionStatus, limit int, offset int) ([]domain.StripeTransaction, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StripeTransaction), args.Error(1)
}

func (m *MockStripeTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.StripeTransactionStatus, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, status, userID, now)
	return args.Error(0)
}

func (m *MockStripeTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.StripeTransaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StripeTransaction), args.Error(1)
}

func (m *MockStripeTransactionRepository) LinkTransactionToInvoiceItemInTx(ctx context.Context, tx pgx.Tx, transactionID string, lineItemID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, transactionID, lineItemID, userID, now)
	return args.Error(0)
}

func (m *MockStripeTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockStripeTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStripeTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock for DocumentGenerator ---

type MockDocumentGenerator struct {
	mock.Mock
}

func (m *MockDocumentGenerator) GenerateInvoiceDocument(ctx context.Context, invoice domain.Invoice, payee domain.Payee) (domain.GeneratedDocuments, error) {
	args := m.Called(ctx, invoice, payee)
	return args.Get(0).(domain.GeneratedDocuments), args.Error(1)
}

// --- Shared helpers ---

func stringPtr(s string) *string {
	return &s
}
