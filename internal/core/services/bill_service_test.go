package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invobook/internal/apperrors"
	"github.com/invobook/invobook/internal/core/domain"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/core/services"
	"github.com/invobook/invobook/internal/dto"
)

type BillServiceTestSuite struct {
	suite.Suite
	mockBillRepo  *MockBillRepository
	mockPayeeRepo *MockPayeeRepository
	service       portssvc.BillSvcFacade
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockBillRepo = new(MockBillRepository)
	suite.mockPayeeRepo = new(MockPayeeRepository)
	suite.service = services.NewBillService(suite.mockBillRepo, suite.mockPayeeRepo)
}

func (suite *BillServiceTestSuite) extractedBill(payeeID *string) *domain.Bill {
	return &domain.Bill{
		BillID:       uuid.NewString(),
		Status:       domain.BillStatusExtracted,
		SupplierName: "Cloud Hosting Ltd",
		PayeeID:      payeeID,
		BillDate:     time.Now().UTC().AddDate(0, 0, -3),
		DueDate:      time.Now().UTC().AddDate(0, 0, 27),
		TotalAmount:  domain.NewMoney(12000, "EUR"),
		LineItems: []domain.LineItem{
			{
				LineItemID:     uuid.NewString(),
				Description:    "Hosting",
				Unit:           domain.UnitUnits,
				Quantity:       decimal.NewFromInt(1),
				UnitPriceMinor: 12000,
				TotalMinor:     12000,
			},
		},
	}
}

func (suite *BillServiceTestSuite) TestCreateBill_StartsReviewedWithComputedTotal() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateBillRequest{
		SupplierName: "Cloud Hosting Ltd",
		BillDate:     time.Now().UTC(),
		DueDate:      time.Now().UTC().AddDate(0, 1, 0),
		Currency:     "EUR",
		LineItems: []dto.LineItemRequest{
			{Description: "Hosting", Unit: "UNITS", Quantity: decimal.NewFromInt(3), UnitPriceMinor: 12000},
			{Description: "Support", Unit: "HOURS", Quantity: decimal.RequireFromString("1.5"), UnitPriceMinor: 8000},
		},
	}

	suite.mockBillRepo.On("SaveBill", ctx, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	bill, err := suite.service.CreateBill(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillStatusReviewed, bill.Status)
	suite.Equal(int64(48000), bill.TotalAmount.AmountMinor)
	suite.Equal(int64(36000), bill.LineItems[0].TotalMinor)
	suite.Equal(int64(12000), bill.LineItems[1].TotalMinor)
	suite.Equal(creatorUserID, bill.CreatedBy)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestCreateBill_InvalidLineItem() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		SupplierName: "Cloud Hosting Ltd",
		BillDate:     time.Now().UTC(),
		DueDate:      time.Now().UTC().AddDate(0, 1, 0),
		Currency:     "EUR",
		LineItems: []dto.LineItemRequest{
			{Description: "", Unit: "UNITS", Quantity: decimal.NewFromInt(1), UnitPriceMinor: 12000},
		},
	}

	bill, err := suite.service.CreateBill(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(bill)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "SaveBill", mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestMarkBillReviewed_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	bill := suite.extractedBill(&payeeID)

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockBillRepo.On("UpdateBillStatus", ctx, bill.BillID, domain.BillStatusReviewed, mock.AnythingOfType("domain.Money"), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.MarkBillReviewed(ctx, bill.BillID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillStatusReviewed, updated.Status)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestMarkBillReviewed_MissingPayee() {
	ctx := context.Background()
	bill := suite.extractedBill(nil)

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()

	updated, err := suite.service.MarkBillReviewed(ctx, bill.BillID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingPayee)
	suite.Nil(updated)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "UpdateBillStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestMarkBillPaid_FromReviewed() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	bill := suite.extractedBill(&payeeID)
	bill.Status = domain.BillStatusReviewed

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockBillRepo.On("UpdateBillStatus", ctx, bill.BillID, domain.BillStatusPaid, mock.AnythingOfType("domain.Money"), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.MarkBillPaid(ctx, bill.BillID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillStatusPaid, updated.Status)
}

func (suite *BillServiceTestSuite) TestMarkBillPaid_RejectedFromExtracted() {
	ctx := context.Background()
	payeeID := uuid.NewString()
	bill := suite.extractedBill(&payeeID)

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()

	updated, err := suite.service.MarkBillPaid(ctx, bill.BillID, uuid.NewString())

	suite.Require().Error(err)
	suite.True(domain.IsInvalidTransition(err))
	suite.Nil(updated)
}

func (suite *BillServiceTestSuite) TestMarkBillNeedsReview_FromPaid() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	bill := suite.extractedBill(&payeeID)
	bill.Status = domain.BillStatusPaid

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockBillRepo.On("UpdateBillStatus", ctx, bill.BillID, domain.BillStatusPaidNeedsReview, mock.AnythingOfType("domain.Money"), userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.MarkBillNeedsReview(ctx, bill.BillID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillStatusPaidNeedsReview, updated.Status)
}

func (suite *BillServiceTestSuite) TestUpdateBill_ReplacesLineItemsAndRecomputesTotal() {
	ctx := context.Background()
	userID := uuid.NewString()
	payeeID := uuid.NewString()
	bill := suite.extractedBill(&payeeID)
	req := dto.UpdateBillRequest{
		LineItems: []dto.LineItemRequest{
			{Description: "Hosting", Unit: "UNITS", Quantity: decimal.NewFromInt(2), UnitPriceMinor: 12000},
		},
	}

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockBillRepo.On("UpdateBill", ctx, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	updated, err := suite.service.UpdateBill(ctx, bill.BillID, req, userID)

	suite.Require().NoError(err)
	suite.Require().Len(updated.LineItems, 1)
	suite.Equal(int64(24000), updated.TotalAmount.AmountMinor)
	suite.Equal(userID, updated.LastUpdatedBy)
}

func (suite *BillServiceTestSuite) TestUpdateBill_RejectedWhenPaid() {
	ctx := context.Background()
	payeeID := uuid.NewString()
	bill := suite.extractedBill(&payeeID)
	bill.Status = domain.BillStatusPaid

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()

	updated, err := suite.service.UpdateBill(ctx, bill.BillID, dto.UpdateBillRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrBillNotOpen)
	suite.Nil(updated)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "UpdateBill", mock.Anything, mock.Anything)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
