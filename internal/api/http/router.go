package http

import (
	"net/http"

	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint. Three tiers: public catalog and the
// gateway webhook, authenticated renter routes, and admin routes behind the
// role guard.
func NewRouter(
	tokens security.TokenManager,
	rentals service.RentalService,
	payments service.PaymentService,
	vehicles service.VehicleService,
) *mux.Router {
	rentalHandler := NewRentalHandler(rentals)
	paymentHandler := NewPaymentHandler(payments)
	vehicleHandler := NewVehicleHandler(vehicles)
	adminHandler := NewAdminHandler(rentals, payments)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", vehicleHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/availability", vehicleHandler.Availability).Methods(http.MethodGet)
	api.HandleFunc("/payments/notification", paymentHandler.Webhook).Methods(http.MethodPost)

	// Authenticated renter routes
	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))
	authed.HandleFunc("/rentals", rentalHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/rentals", rentalHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/stats", rentalHandler.Stats).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}", rentalHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/rentals/{id}/cancel", rentalHandler.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/rentals/{id}/payment/retry", paymentHandler.Retry).Methods(http.MethodPost)
	authed.HandleFunc("/payments", paymentHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/payments/{order_id}/sync", paymentHandler.Sync).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(AuthMiddleware(tokens), AdminOnly)
	admin.HandleFunc("/rentals", adminHandler.ListRentals).Methods(http.MethodGet)
	admin.HandleFunc("/rentals/pending", adminHandler.PendingApprovals).Methods(http.MethodGet)
	admin.HandleFunc("/rentals/{id}/approve", adminHandler.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/reject", adminHandler.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/complete", adminHandler.Complete).Methods(http.MethodPost)
	admin.HandleFunc("/stats", adminHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/payments/{order_id}/override", adminHandler.OverridePayment).Methods(http.MethodPost)

	return r
}
