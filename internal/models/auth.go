package models

// RegisterRequest creates a new account. Role defaults to CUSTOMER when empty.
type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=CUSTOMER RESTAURANT_OWNER DRIVER"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is the common shape returned by register, login and refresh.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MessageResponse carries a generic status message.
type MessageResponse struct {
	Message string `json:"message"`
}
