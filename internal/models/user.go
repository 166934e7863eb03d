package models

import "time"

// UserRole is the closed set of roles understood by the API.
type UserRole string

const (
	RoleCustomer        UserRole = "CUSTOMER"
	RoleRestaurantOwner UserRole = "RESTAURANT_OWNER"
	RoleDriver          UserRole = "DRIVER"
	RoleAdmin           UserRole = "ADMIN"
)

// Valid reports whether the role is part of the closed enumeration.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleRestaurantOwner, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// User represents an account stored in the users table. The password hash and
// the single-slot refresh token never serialize outward.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	RefreshToken *string   `db:"refresh_token" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
