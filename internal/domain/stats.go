package domain

import "github.com/shopspring/decimal"

// UserRentalStats summarises one renter's history.
type UserRentalStats struct {
	TotalTrips    int32 `json:"total_trips"`
	ActiveRentals int32 `json:"active_rentals"`
}

// RentalStats is the administrator dashboard aggregate. Revenue only counts
// completed rentals.
type RentalStats struct {
	TotalRentals     int32           `json:"total_rentals"`
	PendingApprovals int32           `json:"pending_approvals"`
	ActiveRentals    int32           `json:"active_rentals"`
	CompletedRentals int32           `json:"completed_rentals"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}
