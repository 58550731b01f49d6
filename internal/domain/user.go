package domain

import "time"

type UserRole string

const (
	UserRoleRenter UserRole = "renter"
	UserRoleAdmin  UserRole = "admin"
)

// User is the read-side view of the identity service. Account management
// lives elsewhere; the rental core only needs who is booking and whether
// they are an administrator.
type User struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
