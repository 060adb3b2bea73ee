package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/service"
)

// InspectionHandler handles HTTP requests for pickup/return inspections.
type InspectionHandler struct {
	inspectionService *service.InspectionService
}

// NewInspectionHandler creates a new InspectionHandler.
func NewInspectionHandler(inspectionService *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

// RecordInspectionRequest is the HTTP request body for a pickup or return
// inspection.
type RecordInspectionRequest struct {
	Location          string   `json:"location"`
	Time              string   `json:"time,omitempty"` // RFC3339, defaults to now
	FuelLevel         int      `json:"fuel_level"`     // Percentage, 0-100
	Odometer          int      `json:"odometer"`
	ExteriorCondition string   `json:"exterior_condition,omitempty"`
	InteriorCondition string   `json:"interior_condition,omitempty"`
	DamageNotes       string   `json:"damage_notes,omitempty"`
	Images            []string `json:"images,omitempty"`
}

// InspectionResponse is the HTTP representation of an inspection.
type InspectionResponse struct {
	ID                string   `json:"id"`
	BookingID         string   `json:"booking_id"`
	Type              string   `json:"type"`
	FuelLevel         int      `json:"fuel_level"`
	Odometer          int      `json:"odometer"`
	ExteriorCondition string   `json:"exterior_condition,omitempty"`
	InteriorCondition string   `json:"interior_condition,omitempty"`
	DamageNotes       string   `json:"damage_notes,omitempty"`
	Images            []string `json:"images,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

func toInspectionResponse(i *domain.Inspection) InspectionResponse {
	return InspectionResponse{
		ID:                i.ID,
		BookingID:         i.BookingID,
		Type:              string(i.Type),
		FuelLevel:         i.FuelLevel,
		Odometer:          i.Odometer,
		ExteriorCondition: i.ExteriorCondition,
		InteriorCondition: i.InteriorCondition,
		DamageNotes:       i.DamageNotes,
		Images:            i.Images,
		CreatedAt:         i.CreatedAt.Format(time.RFC3339),
	}
}

func (h *InspectionHandler) bindInspection(c *gin.Context) (service.RecordInspectionRequest, bool) {
	var req RecordInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return service.RecordInspectionRequest{}, false
	}

	var at time.Time
	if req.Time != "" {
		parsed, err := time.Parse(time.RFC3339, req.Time)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time, expected RFC3339"})
			return service.RecordInspectionRequest{}, false
		}
		at = parsed
	}

	return service.RecordInspectionRequest{
		BookingID:         c.Param("id"),
		Location:          req.Location,
		Time:              at,
		FuelLevel:         req.FuelLevel,
		Odometer:          req.Odometer,
		ExteriorCondition: req.ExteriorCondition,
		InteriorCondition: req.InteriorCondition,
		DamageNotes:       req.DamageNotes,
		Images:            req.Images,
	}, true
}

// RecordPickup handles POST /v1/bookings/:id/pickup (admin)
func (h *InspectionHandler) RecordPickup(c *gin.Context) {
	req, ok := h.bindInspection(c)
	if !ok {
		return
	}

	booking, err := h.inspectionService.RecordPickup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// RecordReturn handles POST /v1/bookings/:id/return (admin)
func (h *InspectionHandler) RecordReturn(c *gin.Context) {
	req, ok := h.bindInspection(c)
	if !ok {
		return
	}

	booking, err := h.inspectionService.RecordReturn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetInspections handles GET /v1/bookings/:id/inspections (admin)
func (h *InspectionHandler) GetInspections(c *gin.Context) {
	inspections, err := h.inspectionService.GetInspections(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]InspectionResponse, 0, len(inspections))
	for _, i := range inspections {
		response = append(response, toInspectionResponse(i))
	}

	respondJSON(c, http.StatusOK, response)
}
