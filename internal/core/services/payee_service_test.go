package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invobook/internal/apperrors"
	"github.com/invobook/invobook/internal/core/domain"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/core/services"
	"github.com/invobook/invobook/internal/dto"
)

type PayeeServiceTestSuite struct {
	suite.Suite
	mockPayeeRepo *MockPayeeRepository
	service       portssvc.PayeeSvcFacade
}

func (suite *PayeeServiceTestSuite) SetupTest() {
	suite.mockPayeeRepo = new(MockPayeeRepository)
	suite.service = services.NewPayeeService(suite.mockPayeeRepo)
}

func (suite *PayeeServiceTestSuite) TestCreatePayee_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreatePayeeRequest{
		Name:            "Acme GmbH",
		AddressLine1:    "Musterstr. 1",
		City:            "Berlin",
		PostalCode:      "10115",
		Country:         "DE",
		InvoicingPrefix: "ACME",
	}

	suite.mockPayeeRepo.On("SavePayee", ctx, mock.AnythingOfType("domain.Payee")).Return(nil).Once()

	payee, err := suite.service.CreatePayee(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal("ACME", payee.InvoicingPrefix)
	// the numbering sequence always starts at 1
	suite.Equal(int64(1), payee.NextInvoiceNumber)
	suite.Equal(creatorUserID, payee.CreatedBy)
	suite.mockPayeeRepo.AssertExpectations(suite.T())
}

func (suite *PayeeServiceTestSuite) TestCreatePayee_InvalidPrefix() {
	ctx := context.Background()
	req := dto.CreatePayeeRequest{
		Name:            "Acme GmbH",
		AddressLine1:    "Musterstr. 1",
		City:            "Berlin",
		PostalCode:      "10115",
		Country:         "DE",
		InvoicingPrefix: "acme-01",
	}

	payee, err := suite.service.CreatePayee(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(payee)
	suite.mockPayeeRepo.AssertNotCalled(suite.T(), "SavePayee", mock.Anything, mock.Anything)
}

func (suite *PayeeServiceTestSuite) TestCreatePayee_DuplicatePrefix() {
	ctx := context.Background()
	req := dto.CreatePayeeRequest{
		Name:            "Acme GmbH",
		AddressLine1:    "Musterstr. 1",
		City:            "Berlin",
		PostalCode:      "10115",
		Country:         "DE",
		InvoicingPrefix: "ACME",
	}

	suite.mockPayeeRepo.On("SavePayee", ctx, mock.AnythingOfType("domain.Payee")).Return(apperrors.ErrDuplicate).Once()

	payee, err := suite.service.CreatePayee(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(payee)
}

func (suite *PayeeServiceTestSuite) TestUpdatePayee_PrefixAndCounterUntouched() {
	ctx := context.Background()
	userID := uuid.NewString()
	existing := &domain.Payee{
		PayeeID:           uuid.NewString(),
		Name:              "Acme GmbH",
		AddressLine1:      "Musterstr. 1",
		City:              "Berlin",
		PostalCode:        "10115",
		Country:           "DE",
		InvoicingPrefix:   "ACME",
		NextInvoiceNumber: 42,
	}

	suite.mockPayeeRepo.On("FindPayeeByID", ctx, existing.PayeeID).Return(existing, nil).Once()
	suite.mockPayeeRepo.On("UpdatePayee", ctx, mock.MatchedBy(func(p domain.Payee) bool {
		return p.InvoicingPrefix == "ACME" && p.NextInvoiceNumber == 42 && p.Name == "Acme AG"
	})).Return(nil).Once()

	updated, err := suite.service.UpdatePayee(ctx, existing.PayeeID, dto.UpdatePayeeRequest{Name: stringPtr("Acme AG")}, userID)

	suite.Require().NoError(err)
	suite.Equal("Acme AG", updated.Name)
	suite.Equal(int64(42), updated.NextInvoiceNumber)
	suite.mockPayeeRepo.AssertExpectations(suite.T())
}

func (suite *PayeeServiceTestSuite) TestUpdatePayee_NoFieldsIsNoOp() {
	ctx := context.Background()
	existing := &domain.Payee{
		PayeeID:         uuid.NewString(),
		Name:            "Acme GmbH",
		InvoicingPrefix: "ACME",
	}

	suite.mockPayeeRepo.On("FindPayeeByID", ctx, existing.PayeeID).Return(existing, nil).Once()

	updated, err := suite.service.UpdatePayee(ctx, existing.PayeeID, dto.UpdatePayeeRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(existing.Name, updated.Name)
	suite.mockPayeeRepo.AssertNotCalled(suite.T(), "UpdatePayee", mock.Anything, mock.Anything)
}

func (suite *PayeeServiceTestSuite) TestGetPayeeByID_NotFound() {
	ctx := context.Background()
	payeeID := uuid.NewString()

	suite.mockPayeeRepo.On("FindPayeeByID", ctx, payeeID).Return(nil, apperrors.ErrNotFound).Once()

	payee, err := suite.service.GetPayeeByID(ctx, payeeID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(payee)
}

func TestPayeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayeeServiceTestSuite))
}
