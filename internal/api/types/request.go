// internal/api/types/request.go
package types

import "encoding/json"

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FullName      string `json:"fullName"`
	IDNumber      string `json:"idNumber"`
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

// CreatePaymentRequest is the body of POST /payments/create. Amount accepts
// either a JSON string or a JSON number.
type CreatePaymentRequest struct {
	UserID       string      `json:"userId"`
	Amount       json.Number `json:"amount"`
	Currency     string      `json:"currency"`
	Provider     string      `json:"provider"`
	PayeeAccount string      `json:"payeeAccount"`
	SWIFT        string      `json:"swift"`
	PayeeName    string      `json:"payeeName"`
	Description  string      `json:"description"`
}
