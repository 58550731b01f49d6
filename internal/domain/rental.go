package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusConfirmed RentalStatus = "confirmed"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusRejected  RentalStatus = "rejected"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// rentalTransitions is the closed set of legal status moves. Anything not in
// this table is rejected by CanTransition.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:   {RentalStatusConfirmed, RentalStatusCancelled},
	RentalStatusConfirmed: {RentalStatusApproved, RentalStatusRejected, RentalStatusCompleted, RentalStatusCancelled},
	RentalStatusApproved:  {RentalStatusActive, RentalStatusCancelled},
	RentalStatusActive:    {RentalStatusCompleted},
}

// CanTransition reports whether moving a rental between the two statuses is
// legal. Self-transitions are allowed so re-delivered webhooks stay idempotent.
func CanTransition(from, to RentalStatus) bool {
	if from == to {
		return true
	}
	for _, next := range rentalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OccupyingStatuses are the rental statuses that consume a unit's capacity.
var OccupyingStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusConfirmed,
	RentalStatusApproved,
	RentalStatusActive,
}

func (s RentalStatus) IsOccupying() bool {
	for _, o := range OccupyingStatuses {
		if s == o {
			return true
		}
	}
	return false
}

func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled || s == RentalStatusRejected
}

type Rental struct {
	ID              int32           `json:"id"`
	UserID          int32           `json:"user_id"`
	VehicleID       int32           `json:"vehicle_id"`
	UnitID          *int32          `json:"unit_id,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TotalDays       int32           `json:"total_days"`
	PricePerDay     decimal.Decimal `json:"price_per_day"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          RentalStatus    `json:"status"`
	ApprovalStatus  ApprovalStatus  `json:"admin_approval_status"`
	ApprovedBy      *int32          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	PickupLocation  string          `json:"pickup_location,omitempty"`
	PickupLat       *float64        `json:"pickup_latitude,omitempty"`
	PickupLng       *float64        `json:"pickup_longitude,omitempty"`
	ReturnLocation  string          `json:"return_location,omitempty"`
	ReturnLat       *float64        `json:"return_latitude,omitempty"`
	ReturnLng       *float64        `json:"return_longitude,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TotalDays returns the billable day count for a [start, end) range.
func TotalDays(start, end time.Time) int32 {
	return int32(math.Ceil(end.Sub(start).Hours() / 24))
}

// Overlaps reports whether the rental's [start, end) range intersects the
// given range. Ranges that only touch at a boundary do not overlap, so
// back-to-back bookings on the same day are fine.
func (r *Rental) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}

// CanBeCancelled reports whether the renter may still call the rental off:
// only before the start date, and only while the rental has not gone active
// or reached a terminal status.
func (r *Rental) CanBeCancelled(today time.Time) bool {
	if !today.Before(r.StartDate) {
		return false
	}
	switch r.Status {
	case RentalStatusPending, RentalStatusConfirmed, RentalStatusApproved:
		return true
	}
	return false
}

// NeedsApproval reports whether the rental is waiting on an administrator
// decision. The approval sub-state only means anything while the rental is
// payment-confirmed.
func (r *Rental) NeedsApproval() bool {
	return r.Status == RentalStatusConfirmed && r.ApprovalStatus == ApprovalStatusPending
}

func (r *Rental) IsExpired(today time.Time) bool {
	return r.EndDate.Before(today)
}
