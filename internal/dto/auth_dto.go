package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID       uuid.UUID `json:"id"`
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// GoogleSignInRequest carries the OAuth access token obtained by the client;
// the server resolves it to a profile against Google's userinfo endpoint.
type GoogleSignInRequest struct {
	AccessToken string `json:"access_token"`
}

// RequestResetRequest accepts either an email address or a username.
type RequestResetRequest struct {
	Input string `json:"input"`
}

type ResetPasswordRequest struct {
	ID       uuid.UUID `json:"id"`
	Token    string    `json:"token"`
	Password string    `json:"password"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
