package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/gateway"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// PaymentHandler serves payment endpoints, including the unauthenticated
// gateway webhook.
type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Webhook handles POST /api/v1/payments/notification. The gateway is the
// caller; authentication is the sha512 signature inside the payload. It
// answers 200 only once the status change is committed, so the gateway
// retries anything we failed to persist.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var n gateway.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeError(w, fmt.Errorf("invalid notification body: %w", domain.ErrValidation))
		return
	}
	if err := h.payments.HandleNotification(r.Context(), &n); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Sync handles POST /api/v1/payments/{order_id}/sync
func (h *PaymentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orderID := mux.Vars(r)["order_id"]

	payment, err := h.payments.SyncStatus(r.Context(), claims.UserID, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// Retry handles POST /api/v1/rentals/{id}/payment/retry
func (h *PaymentHandler) Retry(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	payment, session, err := h.payments.RetryPayment(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"payment":      payment,
		"snap_token":   session.Token,
		"redirect_url": session.RedirectURL,
	})
}

// List handles GET /api/v1/payments
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	payments, total, err := h.payments.ListPayments(r.Context(), claims.UserID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, payments, page, pageSize, total)
}
