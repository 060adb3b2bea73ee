package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/middleware"
	"rental/internal/service"
)

// UserHandler handles HTTP requests for identity records.
type UserHandler struct {
	identityService *service.IdentityService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identityService *service.IdentityService) *UserHandler {
	return &UserHandler{identityService: identityService}
}

// RegisterUserRequest is the HTTP request body for registering an identity
// record.
type RegisterUserRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // only "user"; elevation happens out of band
}

// UserResponse is the HTTP representation of an identity record.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Register handles POST /v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.identityService.Register(c.Request.Context(), service.RegisterRequest{
		ID:    req.ID,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// GetMyRole handles GET /v1/users/me/role
func (h *UserHandler) GetMyRole(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	role, err := h.identityService.GetRole(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"user_id": userID, "role": string(role)})
}

// ListUsers handles GET /v1/users (admin)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.identityService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}

	respondJSON(c, http.StatusOK, response)
}

// SignOut handles POST /v1/users/me/signout
func (h *UserHandler) SignOut(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	if err := h.identityService.SignOut(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
