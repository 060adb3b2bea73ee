package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/middleware"
	"rental/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	CarID         string `json:"car_id"`
	StartDate     string `json:"start_date"` // YYYY-MM-DD
	EndDate       string `json:"end_date"`   // YYYY-MM-DD
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID            string `json:"id"`
	CarID         string `json:"car_id"`
	UserID        string `json:"user_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	TotalPrice    int64  `json:"total_price"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Notes         string `json:"notes,omitempty"`
	InvoiceNumber string `json:"invoice_number"`

	PickupLocation  string `json:"pickup_location,omitempty"`
	PickupTime      string `json:"pickup_time,omitempty"`
	PickupCompleted bool   `json:"pickup_completed"`
	ReturnLocation  string `json:"return_location,omitempty"`
	ReturnTime      string `json:"return_time,omitempty"`
	ReturnCompleted bool   `json:"return_completed"`

	CreatedAt string `json:"created_at"`
}

// BookingDetailResponse is a booking together with its related records.
type BookingDetailResponse struct {
	Booking     BookingResponse      `json:"booking"`
	Car         *CarResponse         `json:"car,omitempty"`
	Payments    []PaymentResponse    `json:"payments"`
	Inspections []InspectionResponse `json:"inspections"`
}

const dateLayout = "2006-01-02"

func toBookingResponse(b *domain.Booking) BookingResponse {
	response := BookingResponse{
		ID:              b.ID,
		CarID:           b.CarID,
		UserID:          b.UserID,
		StartDate:       b.StartDate.Format(dateLayout),
		EndDate:         b.EndDate.Format(dateLayout),
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		Notes:           b.Notes,
		InvoiceNumber:   b.InvoiceNumber,
		PickupLocation:  b.PickupLocation,
		PickupCompleted: b.PickupCompleted,
		ReturnLocation:  b.ReturnLocation,
		ReturnCompleted: b.ReturnCompleted,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if !b.PickupTime.IsZero() {
		response.PickupTime = b.PickupTime.Format(time.RFC3339)
	}
	if !b.ReturnTime.IsZero() {
		response.ReturnTime = b.ReturnTime.Format(time.RFC3339)
	}
	return response
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date, expected YYYY-MM-DD"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CarID:         req.CarID,
		UserID:        userID,
		StartDate:     startDate,
		EndDate:       endDate,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	detail, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Owners see their own bookings; everything else needs admin.
	role, _ := middleware.Role(c)
	if role != domain.RoleAdmin {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, service.ErrNotAuthenticated)
			return
		}
		if detail.Booking.UserID != userID {
			respondError(c, service.ErrNotBookingOwner)
			return
		}
	}

	response := BookingDetailResponse{
		Booking:     toBookingResponse(detail.Booking),
		Payments:    []PaymentResponse{},
		Inspections: []InspectionResponse{},
	}
	if detail.Car != nil {
		car := toCarResponse(detail.Car)
		response.Car = &car
	}
	for _, p := range detail.Payments {
		response.Payments = append(response.Payments, toPaymentResponse(p))
	}
	for _, i := range detail.Inspections {
		response.Inspections = append(response.Inspections, toInspectionResponse(i))
	}

	respondJSON(c, http.StatusOK, response)
}

// ListBookings handles GET /v1/bookings (admin). An optional user_id
// query narrows the list to one customer's bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var (
		bookings []*domain.Booking
		err      error
	)
	if userID := c.Query("user_id"); userID != "" {
		bookings, err = h.bookingService.ListUserBookings(c.Request.Context(), userID)
	} else {
		bookings, err = h.bookingService.ListBookings(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// ListMyBookings handles GET /v1/bookings/me
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	bookings, err := h.bookingService.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// ConfirmBooking handles POST /v1/bookings/:id/confirm (admin)
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	booking, err := h.bookingService.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")

	// Owners may cancel their own booking; admins may cancel any.
	role, _ := middleware.Role(c)
	if role != domain.RoleAdmin {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, service.ErrNotAuthenticated)
			return
		}
		detail, err := h.bookingService.GetBooking(c.Request.Context(), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		if detail.Booking.UserID != userID {
			respondError(c, service.ErrNotBookingOwner)
			return
		}
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
