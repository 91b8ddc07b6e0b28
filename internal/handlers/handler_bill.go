package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invobook/invobook/internal/core/domain"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

// billHandler handles HTTP requests related to supplier bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

// newBillHandler creates a new billHandler.
func newBillHandler(bs portssvc.BillSvcFacade) *billHandler {
	return &billHandler{billService: bs}
}

// registerBillRoutes registers routes related to bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := newBillHandler(billService)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/:id", h.getBillByID)
		bills.PUT("/:id", h.updateBill)
		bills.POST("/:id/review", h.markBillReviewed)
		bills.POST("/:id/pay", h.markBillPaid)
		bills.POST("/:id/needs-review", h.markBillNeedsReview)
	}
}

func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger.Info("Received request to create bill", slog.String("supplier_name", req.SupplierName))

	bill, err := h.billService.CreateBill(c.Request.Context(), req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Bill created successfully", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill))
}

func (h *billHandler) getBillByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("id")

	bill, err := h.billService.GetBillByID(c.Request.Context(), billID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	var status *domain.BillStatus
	if s := c.Query("status"); s != "" {
		bs := domain.BillStatus(s)
		status = &bs
	}

	bills, err := h.billService.ListBills(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponses(bills))
}

func (h *billHandler) updateBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("id")

	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	bill, err := h.billService.UpdateBill(c.Request.Context(), billID, req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Bill updated successfully", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}

func (h *billHandler) markBillReviewed(c *gin.Context) {
	h.transition(c, "review", h.billService.MarkBillReviewed)
}

func (h *billHandler) markBillPaid(c *gin.Context) {
	h.transition(c, "pay", h.billService.MarkBillPaid)
}

func (h *billHandler) markBillNeedsReview(c *gin.Context) {
	h.transition(c, "needs-review", h.billService.MarkBillNeedsReview)
}

func (h *billHandler) transition(c *gin.Context, action string, fn func(ctx context.Context, billID string, userID string) (*domain.Bill, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)

	logger.Info("Received bill transition request", slog.String("bill_id", billID), slog.String("action", action))

	bill, err := fn(c.Request.Context(), billID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Bill transition applied", slog.String("bill_id", billID), slog.String("status", string(bill.Status)))
	c.JSON(http.StatusOK, dto.ToBillResponse(bill))
}
