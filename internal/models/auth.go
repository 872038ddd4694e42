package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the role-tagged actor.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        Actor  `json:"user"`
}

// RegistrationRequest mirrors the account section of the registration form.
// Fields are declared in the order the form checks them.
type RegistrationRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email" validate:"required,contains=@"`
	Phone           string `json:"phone" validate:"required,min=10"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Role            Role   `json:"userType,omitempty" validate:"omitempty,oneof=student teacher admin"`
	Grade           string `json:"grade,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
