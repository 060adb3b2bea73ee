package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/repository"
)

// UserIDHeader carries the authenticated subject set by the identity
// provider's edge proxy. The service trusts it; token verification happens
// upstream.
const UserIDHeader = "X-User-ID"

const (
	userIDContextKey   = "identity.userID"
	userRoleContextKey = "identity.userRole"
)

// RoleResolver resolves the role of an authenticated user.
type RoleResolver interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
}

// Identity resolves the requester's role from the X-User-ID header and
// stores both on the request context. Requests without the header pass
// through anonymous; RequireAuth and RequireAdmin gate the routes that
// need an identity.
func Identity(resolver RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.Next()
			return
		}

		role, err := resolver.GetRole(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user role"})
			return
		}

		c.Set(userIDContextKey, userID)
		c.Set(userRoleContextKey, role)
		c.Next()
	}
}

// RequireAuth rejects requests that carry no resolved identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose resolved identity is not an admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := Role(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID stored by Identity.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// Role returns the authenticated user's role stored by Identity.
func Role(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(userRoleContextKey)
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok
}
