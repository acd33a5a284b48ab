package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shademy/internal/service"
)

// CheckoutHandler handles HTTP requests for code redemption and bookings.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// RedeemCodeRequest is the HTTP request body for redeeming a payment code.
type RedeemCodeRequest struct {
	Code string `json:"code"`
}

// CheckoutResponse is the HTTP response for session-creating operations.
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// RedeemCode handles POST /v1/checkout/redeem
func (h *CheckoutHandler) RedeemCode(c *gin.Context) {
	var req RedeemCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	redirect, err := h.checkoutService.Redeem(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckoutResponse{
		URL:       redirect.URL,
		SessionID: redirect.SessionID,
	})
}

// BookSessionRequest is the HTTP request body for booking a tutoring session.
type BookSessionRequest struct {
	CourseName   string  `json:"courseName"`
	StudentName  string  `json:"studentName"`
	StudentEmail string  `json:"studentEmail"`
	SessionDate  string  `json:"sessionDate"`
	SessionTime  string  `json:"sessionTime"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// BookSession handles POST /v1/checkout/bookings
func (h *CheckoutHandler) BookSession(c *gin.Context) {
	var req BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	redirect, err := h.checkoutService.BookSession(c.Request.Context(), service.BookSessionRequest{
		CourseName:   req.CourseName,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		SessionDate:  req.SessionDate,
		SessionTime:  req.SessionTime,
		Amount:       req.Amount,
		Currency:     req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CheckoutResponse{
		URL:       redirect.URL,
		SessionID: redirect.SessionID,
	})
}
