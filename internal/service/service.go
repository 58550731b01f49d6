package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/gateway"
)

// PaymentGateway is the slice of the payment provider the rental core needs.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req *gateway.ChargeRequest) (*gateway.Session, error)
	GetStatus(ctx context.Context, orderID string) (*gateway.Notification, error)
	Cancel(ctx context.Context, orderID string) error
	VerifySignature(n *gateway.Notification) bool
}

// CreateRentalInput carries a booking request. Either UnitID or VehicleID
// must identify a real catalog entry; when UnitID is nil the first available
// unit of the vehicle is assigned.
type CreateRentalInput struct {
	VehicleID      int32
	UnitID         *int32
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	PickupLat      *float64
	PickupLng      *float64
	ReturnLocation string
	ReturnLat      *float64
	ReturnLng      *float64
	Notes          string
}

type RentalService interface {
	CreateRental(ctx context.Context, userID int32, in *CreateRentalInput) (*domain.Rental, *gateway.Session, error)
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	CancelRental(ctx context.Context, userID, rentalID int32) error
	CompleteRental(ctx context.Context, rentalID int32) error
	ApproveRental(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	RejectRental(ctx context.Context, adminID, rentalID int32, reason string) (*domain.Rental, error)
	ListAllRentals(ctx context.Context, status, approvalStatus string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListPendingApprovals(ctx context.Context, page, pageSize int32) ([]domain.Rental, int32, error)
	UserStats(ctx context.Context, userID int32) (*domain.UserRentalStats, error)
	AdminStats(ctx context.Context) (*domain.RentalStats, error)
}

type PaymentService interface {
	HandleNotification(ctx context.Context, n *gateway.Notification) error
	SyncStatus(ctx context.Context, userID int32, orderID string) (*domain.Payment, error)
	RetryPayment(ctx context.Context, userID, rentalID int32) (*domain.Payment, *gateway.Session, error)
	ListPayments(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Payment, int32, error)
	OverrideStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Payment, error)
}

type VehicleService interface {
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error)
	CheckAvailability(ctx context.Context, vehicleID int32, unitID *int32, start, end time.Time) (int32, error)
}

// EmailService sends booking lifecycle notifications. Delivery is
// best-effort; callers log failures and move on.
type EmailService interface {
	SendBookingConfirmed(ctx context.Context, user *domain.User, rental *domain.Rental) error
	SendBookingApproved(ctx context.Context, user *domain.User, rental *domain.Rental) error
	SendBookingRejected(ctx context.Context, user *domain.User, rental *domain.Rental, reason string) error
	SendBookingCancelled(ctx context.Context, user *domain.User, rental *domain.Rental) error
}
