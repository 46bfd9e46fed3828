package domain

import "time"

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleDelivery Role = "delivery"
)

// ParseRole maps a stored role value onto a Role, defaulting to RoleUser.
func ParseRole(v string) Role {
	switch Role(v) {
	case RoleAdmin:
		return RoleAdmin
	case RoleDelivery:
		return RoleDelivery
	default:
		return RoleUser
	}
}

type User struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	DefaultAddress *string   `json:"defaultAddress,omitempty"`
	DefaultPhone   string    `json:"defaultPhone"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsDelivery() bool {
	return u.Role == RoleDelivery
}
