// internal/api/handler/response.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"customer-portal/internal/api/types"
	"customer-portal/internal/util"
	"customer-portal/pkg/validation"
)

// DefaultTimeout bounds the time spent on a single request.
const DefaultTimeout = 30 * time.Second

// RespondWithJSON writes payload as JSON with the given status code.
func RespondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// RespondWithError maps err onto a status code and a client-safe message.
// Errors outside the application taxonomy are logged and answered with 500.
func RespondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	body := types.ErrorResponse{Message: "Internal server error"}

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		body.Message = "Invalid input format"
		body.Errors = fieldErrors(err)
	case util.IsError(err, util.ErrDuplicateAccount):
		statusCode = http.StatusConflict
		body.Message = "Account already registered"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		body.Message = "Invalid credentials"
	case util.IsError(err, util.ErrAccountInactive):
		statusCode = http.StatusForbidden
		body.Message = "Account is inactive"
	case util.IsError(err, util.ErrSessionInvalid):
		statusCode = http.StatusUnauthorized
		body.Message = "Session expired or invalid"
	case util.IsError(err, util.ErrNotAuthorized):
		statusCode = http.StatusForbidden
		body.Message = "Not authorized"
	case util.IsError(err, util.ErrAmountOutOfRange):
		statusCode = http.StatusBadRequest
		body.Message = "Amount outside the allowed range"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		body.Message = "Transaction not found"
	case util.IsError(err, util.ErrInvalidTransition):
		statusCode = http.StatusConflict
		body.Message = "Transaction already processed"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	RespondWithJSON(w, logger, statusCode, body)
}

func fieldErrors(err error) []types.FieldError {
	var all *validation.Errors
	if errors.As(err, &all) {
		out := make([]types.FieldError, 0, len(all.Fields))
		for _, fe := range all.Fields {
			out = append(out, types.FieldError{Field: fe.Field, Reason: fe.Reason})
		}
		return out
	}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return []types.FieldError{{Field: fe.Field, Reason: fe.Reason}}
	}
	return nil
}

// decodeJSON reads a request body of at most 1 MiB into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return util.ErrInvalidInput
	}
	return nil
}
