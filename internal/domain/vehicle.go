package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleStatus is the vehicle's displayed status. It is a cached projection
// of the unit roster, recomputed whenever a unit changes hands, never a
// source of truth on its own.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
)

type Vehicle struct {
	ID                int32           `json:"id"`
	Title             string          `json:"title"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	Category          string          `json:"vehicle_category"`
	Year              int32           `json:"year"`
	PricePerDay       decimal.Decimal `json:"price_per_day"`
	Description       string          `json:"description,omitempty"`
	Status            VehicleStatus   `json:"status"`
	Photos            []string        `json:"photos,omitempty"`
	Features          []string        `json:"features,omitempty"`
	Transmission      string          `json:"transmission"`
	FuelType          string          `json:"fuel_type"`
	PassengerCapacity int32           `json:"passenger_capacity"`
	Units             []VehicleUnit   `json:"units,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DisplayStatus derives the vehicle's projected status from how many of its
// units are currently free.
func DisplayStatus(availableUnits int32) VehicleStatus {
	if availableUnits > 0 {
		return VehicleStatusAvailable
	}
	return VehicleStatusRented
}

func (v *Vehicle) AvailableUnits() []VehicleUnit {
	var free []VehicleUnit
	for _, u := range v.Units {
		if u.Status == UnitStatusAvailable {
			free = append(free, u)
		}
	}
	return free
}
