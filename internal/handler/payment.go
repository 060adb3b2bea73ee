package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/middleware"
	"rental/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
	bookingService *service.BookingService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, bookingService *service.BookingService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		bookingService: bookingService,
	}
}

// SubmitPaymentRequest is the HTTP request body for submitting a payment.
type SubmitPaymentRequest struct {
	Amount   int64  `json:"amount"`
	Method   string `json:"method"` // bank_transfer, cash
	ProofURL string `json:"proof_url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// VerifyPaymentRequest is the HTTP request body for verifying a payment.
type VerifyPaymentRequest struct {
	Approve bool `json:"approve"`
}

// PaymentResponse is the HTTP representation of a payment.
type PaymentResponse struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	ProofURL      string `json:"proof_url,omitempty"`
	Status        string `json:"status"`
	InvoiceNumber string `json:"invoice_number"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		ProofURL:      p.ProofURL,
		Status:        string(p.Status),
		InvoiceNumber: p.InvoiceNumber,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// requireBookingAccess checks that the requester owns the booking or is an
// admin.
func (h *PaymentHandler) requireBookingAccess(c *gin.Context, bookingID string) bool {
	role, _ := middleware.Role(c)
	if role == domain.RoleAdmin {
		return true
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return false
	}

	detail, err := h.bookingService.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if detail.Booking.UserID != userID {
		respondError(c, service.ErrNotBookingOwner)
		return false
	}
	return true
}

// SubmitPayment handles POST /v1/bookings/:id/payments
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	bookingID := c.Param("id")
	if !h.requireBookingAccess(c, bookingID) {
		return
	}

	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.SubmitPayment(c.Request.Context(), service.SubmitPaymentRequest{
		BookingID: bookingID,
		Amount:    req.Amount,
		Method:    req.Method,
		ProofURL:  req.ProofURL,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// GetPayments handles GET /v1/bookings/:id/payments
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	bookingID := c.Param("id")
	if !h.requireBookingAccess(c, bookingID) {
		return
	}

	payments, err := h.paymentService.GetPayments(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}

	respondJSON(c, http.StatusOK, response)
}

// VerifyPayment handles POST /v1/payments/:id/verify (admin)
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), c.Param("id"), req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}
