// internal/api/handler/payment.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"customer-portal/internal/api/types"
	"customer-portal/internal/domain"
	"customer-portal/internal/service"
	"customer-portal/internal/session"
	"customer-portal/internal/util"
)

// PaymentHandler handles HTTP requests for payment requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger,
	}
}

// caller builds the ledger caller from the validated session. Requests
// without a session (unguarded staff routes) yield a zero Caller.
func caller(r *http.Request) (service.Caller, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: s.UserID, Role: s.Role}, true
}

// Create handles a new payment request from the logged-in customer.
// POST /payments/create
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(r)
	if !ok {
		RespondWithError(w, h.logger, util.ErrSessionInvalid)
		return
	}

	var req types.CreatePaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondWithError(w, h.logger, err)
		return
	}

	transaction, err := h.service.Create(r.Context(), who, service.CreatePaymentInput{
		UserID:       req.UserID,
		Amount:       req.Amount.String(),
		Currency:     req.Currency,
		Provider:     req.Provider,
		PayeeAccount: req.PayeeAccount,
		SWIFT:        req.SWIFT,
		PayeeName:    req.PayeeName,
		Description:  req.Description,
	})
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}

	RespondWithJSON(w, h.logger, http.StatusCreated, types.CreatePaymentResponse{
		Message:       "Transaction created successfully",
		TransactionID: transaction.ID,
		Transaction:   transaction.Summary(),
	})
}

// ListMine returns the transactions of one customer.
// GET /payments/my/{userId}
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	who, ok := caller(r)
	if !ok {
		RespondWithError(w, h.logger, util.ErrSessionInvalid)
		return
	}

	transactions, err := h.service.ListMine(r.Context(), who, chi.URLParam(r, "userId"))
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}
	RespondWithJSON(w, h.logger, http.StatusOK, nonNil(transactions))
}

// ListPending returns every pending transaction for staff review.
// GET /payments/pending
func (h *PaymentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListPending(r.Context())
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}
	RespondWithJSON(w, h.logger, http.StatusOK, nonNil(transactions))
}

// Verify verifies a pending transaction and simulates its SWIFT submission.
// POST /payments/verify/{id}
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.service.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, h.logger, err)
		return
	}
	RespondWithJSON(w, h.logger, http.StatusOK, types.VerifyResponse{
		Message:       "Transaction verified and submitted to SWIFT",
		TransactionID: transaction.ID,
	})
}

func nonNil(transactions []domain.Transaction) []domain.Transaction {
	if transactions == nil {
		return []domain.Transaction{}
	}
	return transactions
}
