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

// invoiceHandler handles HTTP requests related to outgoing invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	storage        portssvc.StorageChecker
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(is portssvc.InvoiceSvcFacade, storage portssvc.StorageChecker) *invoiceHandler {
	return &invoiceHandler{invoiceService: is, storage: storage}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, storage portssvc.StorageChecker) {
	h := newInvoiceHandler(invoiceService, storage)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoiceByID)
		invoices.PUT("/:id", h.updateInvoice)
		invoices.POST("/:id/finalize", h.finalizeInvoice)
		invoices.POST("/:id/regenerate", h.regenerateDocument)
		invoices.POST("/:id/send", h.markInvoiceSent)
		invoices.POST("/:id/record-payment", h.recordPayment)
		invoices.POST("/:id/write-off", h.writeOff)
	}
}

// hasPreview answers whether the invoice's primary document is present in
// storage. Presence failures degrade to "no preview" rather than failing the
// read.
func (h *invoiceHandler) hasPreview(ctx context.Context, inv *domain.Invoice) bool {
	if inv.DocumentRef == nil {
		return false
	}
	exists, err := h.storage.Exists(ctx, *inv.DocumentRef)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to check document presence",
			slog.String("invoice_id", inv.InvoiceID), slog.String("error", err.Error()))
		return false
	}
	return exists
}

func (h *invoiceHandler) respondInvoice(c *gin.Context, status int, inv *domain.Invoice) {
	c.JSON(status, dto.ToInvoiceResponse(inv, h.hasPreview(c.Request.Context(), inv)))
}

func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger.Info("Received request to create invoice")

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID))
	h.respondInvoice(c, http.StatusCreated, invoice)
}

func (h *invoiceHandler) getInvoiceByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	h.respondInvoice(c, http.StatusOK, invoice)
}

func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := parsePagination(c)

	var status *domain.InvoiceStatus
	if s := c.Query("status"); s != "" {
		is := domain.InvoiceStatus(s)
		status = &is
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = dto.ToInvoiceResponse(&invoices[i], h.hasPreview(c.Request.Context(), &invoices[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, req, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice updated successfully", slog.String("invoice_id", invoice.InvoiceID))
	h.respondInvoice(c, http.StatusOK, invoice)
}

func (h *invoiceHandler) finalizeInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)

	logger.Info("Received request to finalize invoice", slog.String("invoice_id", invoiceID))

	invoice, err := h.invoiceService.FinalizeInvoice(c.Request.Context(), invoiceID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice finalized successfully",
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_number", derefOrEmpty(invoice.InvoiceNumber)))
	h.respondInvoice(c, http.StatusOK, invoice)
}

func (h *invoiceHandler) regenerateDocument(c *gin.Context) {
	h.transition(c, "regenerate", h.invoiceService.RegenerateDocument)
}

func (h *invoiceHandler) markInvoiceSent(c *gin.Context) {
	h.transition(c, "send", h.invoiceService.MarkInvoiceSent)
}

func (h *invoiceHandler) writeOff(c *gin.Context) {
	h.transition(c, "write-off", h.invoiceService.WriteOff)
}

func (h *invoiceHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	amount := domain.Money{AmountMinor: req.AmountMinor, Currency: req.Currency}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), invoiceID, amount, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Payment recorded", slog.String("invoice_id", invoiceID), slog.String("status", string(invoice.Status)))
	h.respondInvoice(c, http.StatusOK, invoice)
}

func (h *invoiceHandler) transition(c *gin.Context, action string, fn func(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)

	logger.Info("Received invoice action request", slog.String("invoice_id", invoiceID), slog.String("action", action))

	invoice, err := fn(c.Request.Context(), invoiceID, operatorID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Invoice action applied", slog.String("invoice_id", invoiceID), slog.String("status", string(invoice.Status)))
	h.respondInvoice(c, http.StatusOK, invoice)
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
