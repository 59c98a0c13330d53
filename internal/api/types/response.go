// internal/api/types/response.go
package types

import (
	"time"

	"customer-portal/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse is returned by POST /auth/register.
type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Message string `json:"message"`
	domain.Profile
}

// CreatePaymentResponse is returned by POST /payments/create.
type CreatePaymentResponse struct {
	Message       string         `json:"message"`
	TransactionID string         `json:"transactionId"`
	Transaction   domain.Summary `json:"transaction"`
}

// VerifyResponse is returned by POST /payments/verify/{id}.
type VerifyResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
