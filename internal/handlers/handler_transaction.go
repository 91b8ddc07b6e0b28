package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invobook/invobook/internal/core/domain"
	portssvc "github.com/invobook/invobook/internal/core/ports/services"
	"github.com/invobook/invobook/internal/dto"
	"github.com/invobook/invobook/internal/middleware"
)

// transactionHandler handles HTTP requests related to imported payment
// processor transactions and their reconciliation into invoices.
type transactionHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(rs portssvc.ReconciliationSvcFacade) *transactionHandler {
	return &transactionHandler{reconciliationService: rs}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newTransactionHandler(reconciliationService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransactionByID)
		transactions.POST("/import", h.importTransaction)
		transactions.POST("/:id/ignore", h.ignoreTransaction)
		transactions.POST("/:id/reinstate", h.reinstateTransaction)
		transactions.POST("/:id/invoice", h.generateInvoice)
		transactions.POST("/invoice-batch", h.generateInvoiceBatch)
	}
}

func (h *transactionHandler) getTransactionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.reconciliationService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStripeTransactionResponse(txn))
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	var status *domain.StripeTransactionStatus
	if s := c.Query("status"); s != "" {
		ts := domain.StripeTransactionStatus(s)
		status = &ts
	}

	txns, err := h.reconciliationService.ListTransactions(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStripeTransactionResponses(txns))
}

func (h *transactionHandler) importTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger.Info("Received transaction import", slog.String("external_id", req.ExternalID))

	txn, err := h.reconciliationService.ImportTransaction(c.Request.Context(), req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStripeTransactionResponse(txn))
}

func (h *transactionHandler) reinstateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)

	logger.Info("Received request to reinstate transaction", slog.String("transaction_id", transactionID))

	txn, err := h.reconciliationService.ReinstateTransaction(c.Request.Context(), transactionID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Transaction reinstated", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToStripeTransactionResponse(txn))
}

func (h *transactionHandler) ignoreTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)

	logger.Info("Received request to ignore transaction", slog.String("transaction_id", transactionID))

	txn, err := h.reconciliationService.IgnoreTransaction(c.Request.Context(), transactionID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Transaction ignored", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToStripeTransactionResponse(txn))
}

func (h *transactionHandler) generateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	var req dto.ReconcileTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger.Info("Received request to invoice transaction",
		slog.String("transaction_id", transactionID), slog.String("payee_id", req.PayeeID))

	invoice, err := h.reconciliationService.GenerateInvoiceForTransaction(c.Request.Context(), transactionID, req.PayeeID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Transaction invoiced successfully",
		slog.String("transaction_id", transactionID), slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice, false))
}

func (h *transactionHandler) generateInvoiceBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReconcileBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateInvoiceBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger.Info("Received batch reconciliation request", slog.Int("count", len(req.TransactionIDs)))

	summary, err := h.reconciliationService.GenerateInvoicesForTransactions(c.Request.Context(), req.TransactionIDs, req.PayeeID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Batch reconciliation finished",
		slog.Int("succeeded", summary.Succeeded), slog.Int("failed", len(summary.Failures)))
	c.JSON(http.StatusOK, dto.ToReconciliationSummaryResponse(summary))
}
