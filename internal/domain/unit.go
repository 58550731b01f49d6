package domain

import "time"

type UnitStatus string

const (
	UnitStatusAvailable    UnitStatus = "available"
	UnitStatusRented       UnitStatus = "rented"
	UnitStatusMaintenance  UnitStatus = "maintenance"
	UnitStatusOutOfService UnitStatus = "out_of_service"
)

// VehicleUnit is one physical vehicle. Its status field is the single point
// of mutual exclusion for inventory: it is written only by allocation,
// approval, cancellation and the expiry sweep, always in the same
// transaction as the rental change that caused it.
type VehicleUnit struct {
	ID                  int32      `json:"id"`
	VehicleID           int32      `json:"vehicle_id"`
	PlateNumber         string     `json:"plate_number"`
	Status              UnitStatus `json:"status"`
	CurrentLocation     string     `json:"current_location,omitempty"`
	CurrentLat          *float64   `json:"current_latitude,omitempty"`
	CurrentLng          *float64   `json:"current_longitude,omitempty"`
	Mileage             int32      `json:"mileage"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (u *VehicleUnit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}
