package models

import "time"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user account in the system.
type User struct {
	ID                   string     `json:"_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"` // Never expose this to the client
	Salary               Money      `json:"salary"`
	Role                 string     `json:"role"`
	LastNotificationSent *time.Time `json:"lastNotificationSent,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
