package models

import "github.com/shopspring/decimal"

// User is the authenticated wallet user.
type User struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
}

// SignUpRequest is the body of POST /auth/sign-up.
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=100" validate:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255" validate:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=12" validate:"required,min=6,max=12"`
}

// SignInRequest is the body of POST /auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=12" validate:"required,min=6,max=12"`
}

// AuthResult is returned by sign-in and sign-up.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
