package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invobook/internal/core/domain"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/core/services"
	"github.com/invobook/invobook/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockPayeeRepo   *MockPayeeRepository
	mockDocGen      *MockDocumentGenerator
	service         portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockPayeeRepo = new(MockPayeeRepository)
	suite.mockDocGen = new(MockDocumentGenerator)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockPayeeRepo, suite.mockDocGen)
}

func (suite *InvoiceServiceTestSuite) reviewedInvoice(payeeID string) *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:   uuid.NewString(),
		Status:      domain.InvoiceStatusReviewed,
		PayeeID:     &payeeID,
		InvoiceDate: time.Now().UTC(),
		TotalAmount: domain.Money{Currency: "EUR"},
		LineItems: []domain.LineItem{
			{
				LineItemID:     uuid.NewString(),
				Description:    "Consulting",
				Unit:           domain.UnitUnits,
				Quantity:       decimal.NewFromInt(5),
				UnitPriceMinor: 500,
			},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		InvoiceDate: time.Now().UTC(),
		Currency:    "EUR",
		LineItems: []dto.LineItemRequest{
			{Description: "Consulting", Unit: "DAYS", Quantity: decimal.RequireFromString("2.5"), UnitPriceMinor: 80000},
		},
	}

	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.InvoiceStatusReviewed, created.Status)
	suite.Nil(created.InvoiceNumber)
	suite.Equal(int64(200000), created.TotalAmount.AmountMinor)
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_CreditNoteRequiresParent() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		InvoiceDate: time.Now().UTC(),
		Currency:    "EUR",
		LineItems: []dto.LineItemRequest{
			{Description: "Refund", Unit: "UNITS", Quantity: decimal.NewFromInt(1), UnitPriceMinor: -4500},
		},
	}

	created, err := suite.service.CreateInvoice(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoice_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	invoice := suite.reviewedInvoice(payeeID)
	payee := &domain.Payee{PayeeID: payeeID, Name: "Acme GmbH", InvoicingPrefix: "ACME", NextInvoiceNumber: 7}
	docs := domain.GeneratedDocuments{Primary: "invoices/ACME-0007.pdf"}

	suite.mockInvoiceRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockPayeeRepo.On("FindPayeeByID", ctx, payeeID).Return(payee, nil).Once()
	suite.mockPayeeRepo.On("IssueInvoiceNumberInTx", ctx, mock.Anything, payeeID, userID, mock.AnythingOfType("time.Time")).
		Return("ACME", int64(7), nil).Once()
	suite.mockDocGen.On("GenerateInvoiceDocument", ctx, mock.AnythingOfType("domain.Invoice"), *payee).Return(docs, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceFinalizationInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Invoice"), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockInvoiceRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	finalized, err := suite.service.FinalizeInvoice(ctx, invoice.InvoiceID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(finalized)
	suite.Require().NotNil(finalized.InvoiceNumber)
	suite.Equal("ACME-0007", *finalized.InvoiceNumber)
	suite.Equal(domain.InvoiceStatusReadyToSend, finalized.Status)
	suite.Equal(int64(2500), finalized.TotalAmount.AmountMinor)
	suite.Require().NotNil(finalized.DocumentRef)
	suite.Equal("invoices/ACME-0007.pdf", *finalized.DocumentRef)
	suite.NotNil(finalized.GeneratedAt)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockPayeeRepo.AssertExpectations(suite.T())
	suite.mockDocGen.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoice_DocGenFailureRollsBack() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	invoice := suite.reviewedInvoice(payeeID)
	payee := &domain.Payee{PayeeID: payeeID, Name: "Acme GmbH", InvoicingPrefix: "ACME", NextInvoiceNumber: 7}

	suite.mockInvoiceRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockPayeeRepo.On("FindPayeeByID", ctx, payeeID).Return(payee, nil).Once()
	suite.mockPayeeRepo.On("IssueInvoiceNumberInTx", ctx, mock.Anything, payeeID, userID, mock.AnythingOfType("time.Time")).
		Return("ACME", int64(7), nil).Once()
	suite.mockDocGen.On("GenerateInvoiceDocument", ctx, mock.AnythingOfType("domain.Invoice"), *payee).
		Return(domain.GeneratedDocuments{}, assert.AnError).Once()

	finalized, err := suite.service.FinalizeInvoice(ctx, invoice.InvoiceID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrDocumentGenerationFailed)
	suite.Nil(finalized)
	// the transaction is never committed, so the issued number rolls back
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceFinalizationInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoice_NotReviewed() {
	ctx := context.Background()
	payeeID := uuid.NewString()
	invoice := suite.reviewedInvoice(payeeID)
	invoice.Status = domain.InvoiceStatusSent

	suite.mockInvoiceRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).Return(invoice, nil).Once()

	finalized, err := suite.service.FinalizeInvoice(ctx, invoice.InvoiceID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotFinalizable)
	suite.Nil(finalized)
	suite.mockPayeeRepo.AssertNotCalled(suite.T(), "IssueInvoiceNumberInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestFinalizeInvoice_MissingPayee() {
	ctx := context.Background()
	invoice := suite.reviewedInvoice(uuid.NewString())
	invoice.PayeeID = nil

	suite.mockInvoiceRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockInvoiceRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).Return(invoice, nil).Once()

	finalized, err := suite.service.FinalizeInvoice(ctx, invoice.InvoiceID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingPayee)
	suite.Nil(finalized)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RejectedWhenFinalized() {
	ctx := context.Background()
	invoice := suite.reviewedInvoice(uuid.NewString())
	invoice.Status = domain.InvoiceStatusReadyToSend

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, invoice.InvoiceID, dto.UpdateInvoiceRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvoiceNotOpen)
	suite.Nil(updated)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_FullAmountPays() {
	ctx := context.Background()
	userID := uuid.NewString()
	invoice := suite.reviewedInvoice(uuid.NewString())
	invoice.Status = domain.InvoiceStatusSent
	invoice.TotalAmount = domain.NewMoney(2500, "EUR")

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.InvoiceStatusPaid, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, domain.NewMoney(2500, "EUR"), userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusPaid, updated.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_PartialAmount() {
	ctx := context.Background()
	userID := uuid.NewString()
	invoice := suite.reviewedInvoice(uuid.NewString())
	invoice.Status = domain.InvoiceStatusSent
	invoice.TotalAmount = domain.NewMoney(2500, "EUR")

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.InvoiceStatusPartiallyPaid, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, domain.NewMoney(1000, "EUR"), userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusPartiallyPaid, updated.Status)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_RejectedBeforeSend() {
	ctx := context.Background()
	invoice := suite.reviewedInvoice(uuid.NewString())

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, domain.NewMoney(2500, "EUR"), uuid.NewString())

	suite.Require().Error(err)
	suite.True(domain.IsInvalidTransition(err))
	suite.Nil(updated)
}

func (suite *InvoiceServiceTestSuite) TestRegenerateDocument_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	invoice := suite.reviewedInvoice(payeeID)
	invoice.Status = domain.InvoiceStatusSent
	invoice.InvoiceNumber = stringPtr("ACME-0003")
	payee := &domain.Payee{PayeeID: payeeID, Name: "Acme GmbH", InvoicingPrefix: "ACME"}
	docs := domain.GeneratedDocuments{Primary: "invoices/ACME-0003.pdf", Secondary: stringPtr("invoices/ACME-0003-sec.pdf")}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockPayeeRepo.On("FindPayeeByID", ctx, payeeID).Return(payee, nil).Once()
	suite.mockDocGen.On("GenerateInvoiceDocument", ctx, mock.AnythingOfType("domain.Invoice"), *payee).Return(docs, nil).Once()
	suite.mockInvoiceRepo.On("UpdateGeneratedDocuments", ctx, invoice.InvoiceID, docs, mock.AnythingOfType("time.Time"), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.RegenerateDocument(ctx, invoice.InvoiceID, userID)

	suite.Require().NoError(err)
	// number and status untouched by regeneration
	suite.Equal("ACME-0003", *updated.InvoiceNumber)
	suite.Equal(domain.InvoiceStatusSent, updated.Status)
	suite.Equal("invoices/ACME-0003.pdf", *updated.DocumentRef)
	suite.mockPayeeRepo.AssertNotCalled(suite.T(), "IssueInvoiceNumberInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRegenerateDocument_RejectedBeforeFinalization() {
	ctx := context.Background()
	invoice := suite.reviewedInvoice(uuid.NewString())

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.RegenerateDocument(ctx, invoice.InvoiceID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotRegenerable)
	suite.Nil(updated)
}

func (suite *InvoiceServiceTestSuite) TestMarkInvoiceSent_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	invoice := suite.reviewedInvoice(uuid.NewString())
	invoice.Status = domain.InvoiceStatusReadyToSend

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.InvoiceStatusSent, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.MarkInvoiceSent(ctx, invoice.InvoiceID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceStatusSent, updated.Status)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
