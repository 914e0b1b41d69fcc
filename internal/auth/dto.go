package auth

import (
	"github.com/tabegoro/tabegoro-backend/internal/users"
)

// RegisterRequest contains the payload required for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest carries the credentials for the login flow.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
