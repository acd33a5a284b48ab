package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shademy/internal/service"
)

// InvoiceHandler handles HTTP requests for invoice resolution.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// ResolveInvoiceRequest is the HTTP request body for resolving an invoice.
type ResolveInvoiceRequest struct {
	SessionID string `json:"session_id"`
}

// InvoiceResponse is the HTTP response for a resolved invoice.
type InvoiceResponse struct {
	InvoiceURL string `json:"invoice_url"`
	InvoicePDF string `json:"invoice_pdf"`
	Status     string `json:"status"`
}

// ResolveInvoice handles POST /v1/invoices
func (h *InvoiceHandler) ResolveInvoice(c *gin.Context) {
	var req ResolveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.invoiceService.Resolve(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, InvoiceResponse{
		InvoiceURL: result.InvoiceURL,
		InvoicePDF: result.InvoicePDF,
		Status:     result.Status,
	})
}
