package dto

import "time"

// AuthRequest is the body of both signin and signup. Emptiness is checked
// by the auth flow after trimming, not by binding.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type AuthResponse struct {
	Message string        `json:"message"`
	Next    string        `json:"next"`
	Token   TokenResponse `json:"token"`
	UserID  string        `json:"userId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
