package api

import "time"

// TokenRequest represents the request payload for the token exchange. A
// device presents its subscription key and receives a short-lived
// authorization token.
type TokenRequest struct {
	SubscriptionKey string `json:"subscription_key" validate:"required"`
	Region          string `json:"region,omitempty"`
}

// TokenResponse represents the response payload for the token exchange
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	DeviceID  string    `json:"device_id"`
	Region    string    `json:"region"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
