package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shademy/internal/service"
)

// maxWebhookBodyBytes bounds the provider payload size.
const maxWebhookBodyBytes = int64(65536)

// WebhookHandler handles inbound provider events.
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// WebhookResponse acknowledges a verified event.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// HandleStripeEvent handles POST /v1/webhooks/stripe
//
// The body must reach the service unparsed: signature verification runs
// over the raw bytes.
func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")

	if err := h.webhookService.Process(c.Request.Context(), payload, sigHeader); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WebhookResponse{Received: true})
}
