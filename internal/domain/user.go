package domain

import "time"

// Role represents a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an identity record. Authentication itself is handled by
// the external identity provider; this record carries the role the service
// uses to gate admin-only operations.
type User struct {
	ID        string
	Email     string
	Role      Role
	CreatedAt time.Time
}
