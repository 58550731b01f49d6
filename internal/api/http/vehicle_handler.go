package http

import (
	"fmt"
	"net/http"
	"strconv"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
)

// VehicleHandler serves the public catalog endpoints
type VehicleHandler struct {
	vehicles service.VehicleService
}

func NewVehicleHandler(vehicles service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List handles GET /api/v1/vehicles
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	vehicles, total, err := h.vehicles.ListVehicles(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, vehicles, page, pageSize, total)
}

// Get handles GET /api/v1/vehicles/{id}
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Availability handles GET /api/v1/vehicles/{id}/availability
func (h *VehicleHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	start, err := parseDate(q.Get("start_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}

	var unitID *int32
	if raw := q.Get("unit_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v <= 0 {
			writeError(w, fmt.Errorf("invalid unit_id %q: %w", raw, domain.ErrValidation))
			return
		}
		uid := int32(v)
		unitID = &uid
	}

	free, err := h.vehicles.CheckAvailability(r.Context(), id, unitID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicle_id":      id,
		"available_units": free,
		"available":       free > 0,
	})
}
