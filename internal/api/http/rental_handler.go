package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

// RentalHandler serves the renter-facing booking endpoints
type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type createRentalRequest struct {
	VehicleID      int32    `json:"vehicle_id" validate:"required_without=UnitID"`
	UnitID         *int32   `json:"unit_id"`
	StartDate      string   `json:"start_date" validate:"required"`
	EndDate        string   `json:"end_date" validate:"required"`
	PickupLocation string   `json:"pickup_location"`
	PickupLat      *float64 `json:"pickup_lat"`
	PickupLng      *float64 `json:"pickup_lng"`
	ReturnLocation string   `json:"return_location"`
	ReturnLat      *float64 `json:"return_lat"`
	ReturnLng      *float64 `json:"return_lng"`
	Notes          string   `json:"notes"`
}

type createRentalResponse struct {
	Rental      *domain.Rental `json:"rental"`
	SnapToken   string         `json:"snap_token"`
	RedirectURL string         `json:"redirect_url"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, domain.ErrValidation)
	}
	return t, nil
}

// Create handles POST /api/v1/rentals
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	rental, session, err := h.rentals.CreateRental(r.Context(), claims.UserID, &service.CreateRentalInput{
		VehicleID:      req.VehicleID,
		UnitID:         req.UnitID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: req.PickupLocation,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		ReturnLocation: req.ReturnLocation,
		ReturnLat:      req.ReturnLat,
		ReturnLng:      req.ReturnLng,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createRentalResponse{
		Rental:      rental,
		SnapToken:   session.Token,
		RedirectURL: session.RedirectURL,
	})
}

// Get handles GET /api/v1/rentals/{id}
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentals.GetRental(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// List handles GET /api/v1/rentals
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	rentals, total, err := h.rentals.ListRentals(r.Context(), claims.UserID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, rentals, page, pageSize, total)
}

// Cancel handles POST /api/v1/rentals/{id}/cancel
func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rentals.CancelRental(r.Context(), claims.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Stats handles GET /api/v1/rentals/stats
func (h *RentalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	stats, err := h.rentals.UserStats(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, domain.ErrValidation)
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
