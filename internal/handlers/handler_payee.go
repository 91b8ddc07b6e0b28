package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

// payeeHandler handles HTTP requests related to payees.
type payeeHandler struct {
	payeeService portssvc.PayeeSvcFacade
}

// newPayeeHandler creates a new payeeHandler.
func newPayeeHandler(ps portssvc.PayeeSvcFacade) *payeeHandler {
	return &payeeHandler{payeeService: ps}
}

// registerPayeeRoutes registers routes related to payees.
func registerPayeeRoutes(rg *gin.RouterGroup, payeeService portssvc.PayeeSvcFacade) {
	h := newPayeeHandler(payeeService)

	payees := rg.Group("/payees")
	{
		payees.POST("", h.createPayee)
		payees.GET("", h.listPayees)
		payees.GET("/:id", h.getPayeeByID)
		payees.PUT("/:id", h.updatePayee)
	}
}

func (h *payeeHandler) createPayee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePayeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger.Info("Received request to create payee", slog.String("invoicing_prefix", req.InvoicingPrefix))

	payee, err := h.payeeService.CreatePayee(c.Request.Context(), req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Payee created successfully", slog.String("payee_id", payee.PayeeID))
	c.JSON(http.StatusCreated, dto.ToPayeeResponse(payee))
}

func (h *payeeHandler) getPayeeByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payeeID := c.Param("id")

	payee, err := h.payeeService.GetPayeeByID(c.Request.Context(), payeeID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPayeeResponse(payee))
}

func (h *payeeHandler) listPayees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	payees, err := h.payeeService.ListPayees(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPayeeResponses(payees))
}

func (h *payeeHandler) updatePayee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payeeID := c.Param("id")

	var req dto.UpdatePayeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePayee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	payee, err := h.payeeService.UpdatePayee(c.Request.Context(), payeeID, req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Payee updated successfully", slog.String("payee_id", payee.PayeeID))
	c.JSON(http.StatusOK, dto.ToPayeeResponse(payee))
}
