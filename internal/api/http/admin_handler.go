package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// AdminHandler serves the approval queue and operator overrides
type AdminHandler struct {
	rentals  service.RentalService
	payments service.PaymentService
}

func NewAdminHandler(rentals service.RentalService, payments service.PaymentService) *AdminHandler {
	return &AdminHandler{rentals: rentals, payments: payments}
}

// ListRentals handles GET /api/v1/admin/rentals
func (h *AdminHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	approvalStatus := r.URL.Query().Get("approval_status")

	rentals, total, err := h.rentals.ListAllRentals(r.Context(), status, approvalStatus, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rentals, page, pageSize, total)
}

// PendingApprovals handles GET /api/v1/admin/rentals/pending
func (h *AdminHandler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	rentals, total, err := h.rentals.ListPendingApprovals(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rentals, page, pageSize, total)
}

// Approve handles POST /api/v1/admin/rentals/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentals.ApproveRental(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Reject handles POST /api/v1/admin/rentals/{id}/reject
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, fmt.Errorf("rejection reason is required: %w", domain.ErrValidation))
		return
	}

	rental, err := h.rentals.RejectRental(r.Context(), claims.UserID, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// Complete handles POST /api/v1/admin/rentals/{id}/complete
func (h *AdminHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rentals.CompleteRental(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rentals.AdminStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type overridePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending settlement capture deny cancel expire failure"`
}

// OverridePayment handles POST /api/v1/admin/payments/{order_id}/override
func (h *AdminHandler) OverridePayment(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["order_id"]

	var req overridePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, fmt.Errorf("unknown payment status %q: %w", req.Status, domain.ErrValidation))
		return
	}

	payment, err := h.payments.OverrideStatus(r.Context(), orderID, domain.PaymentStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
