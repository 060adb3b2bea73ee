package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/service"
)

// maxImageUploadBytes bounds the size of an uploaded car image.
const maxImageUploadBytes = 5 << 20

// CarHandler handles HTTP requests for the car catalog.
type CarHandler struct {
	catalogService *service.CatalogService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(catalogService *service.CatalogService) *CarHandler {
	return &CarHandler{catalogService: catalogService}
}

// CreateCarRequest is the HTTP request body for adding a car.
type CreateCarRequest struct {
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Year         int      `json:"year"`
	PricePerDay  int64    `json:"price_per_day"`
	Transmission string   `json:"transmission,omitempty"` // Manual, Automatic
	Capacity     int      `json:"capacity,omitempty"`
	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// UpdateCarRequest is the HTTP request body for a partial car update.
// Omitted fields are left unchanged.
type UpdateCarRequest struct {
	Name         *string   `json:"name,omitempty"`
	Brand        *string   `json:"brand,omitempty"`
	Year         *int      `json:"year,omitempty"`
	PricePerDay  *int64    `json:"price_per_day,omitempty"`
	Transmission *string   `json:"transmission,omitempty"`
	Capacity     *int      `json:"capacity,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Features     *[]string `json:"features,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
}

// CarResponse is the HTTP representation of a car.
type CarResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Year         int      `json:"year"`
	PricePerDay  int64    `json:"price_per_day"`
	Transmission string   `json:"transmission"`
	Capacity     int      `json:"capacity"`
	Category     string   `json:"category"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// ListCarsResponse is the HTTP response for a catalog page.
type ListCarsResponse struct {
	Cars       []CarResponse `json:"cars"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
}

func toCarResponse(car *domain.Car) CarResponse {
	return CarResponse{
		ID:           car.ID,
		Name:         car.Name,
		Brand:        car.Brand,
		Year:         car.Year,
		PricePerDay:  car.PricePerDay,
		Transmission: string(car.Transmission),
		Capacity:     car.Capacity,
		Category:     car.Category,
		Description:  car.Description,
		Features:     car.Features,
		ImageURL:     car.ImageURL,
	}
}

// ListCars handles GET /v1/cars
func (h *CarHandler) ListCars(c *gin.Context) {
	page, err := h.catalogService.ListCars(c.Request.Context(), service.ListCarsRequest{
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
		Transmission: c.Query("transmission"),
		Category:     c.Query("category"),
		Sort:         c.Query("sort"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := ListCarsResponse{
		Cars:       []CarResponse{},
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       page.Page,
	}
	for _, car := range page.Cars {
		response.Cars = append(response.Cars, toCarResponse(car))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetCar handles GET /v1/cars/:id
func (h *CarHandler) GetCar(c *gin.Context) {
	car, err := h.catalogService.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// CreateCar handles POST /v1/cars
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	car, err := h.catalogService.CreateCar(c.Request.Context(), service.CreateCarRequest{
		Name:         req.Name,
		Brand:        req.Brand,
		Year:         req.Year,
		PricePerDay:  req.PricePerDay,
		Transmission: req.Transmission,
		Capacity:     req.Capacity,
		Category:     req.Category,
		Description:  req.Description,
		Features:     req.Features,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCarResponse(car))
}

// UpdateCar handles PATCH /v1/cars/:id
func (h *CarHandler) UpdateCar(c *gin.Context) {
	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	car, err := h.catalogService.UpdateCar(c.Request.Context(), c.Param("id"), service.UpdateCarRequest{
		Name:         req.Name,
		Brand:        req.Brand,
		Year:         req.Year,
		PricePerDay:  req.PricePerDay,
		Transmission: req.Transmission,
		Capacity:     req.Capacity,
		Category:     req.Category,
		Description:  req.Description,
		Features:     req.Features,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCarResponse(car))
}

// DeleteCar handles DELETE /v1/cars/:id
func (h *CarHandler) DeleteCar(c *gin.Context) {
	if err := h.catalogService.DeleteCar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadCarImage handles POST /v1/cars/:id/image
func (h *CarHandler) UploadCarImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read image file"})
		return
	}

	car, err := h.catalogService.AttachImage(c.Request.Context(), c.Param("id"), header.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCarResponse(car))
}
