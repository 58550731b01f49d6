package repository

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error)
	UpdateStatus(ctx context.Context, id int32, status domain.VehicleStatus) error
}

type UnitRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.VehicleUnit, error)
	// GetForUpdate locks the unit row for the rest of the enclosing
	// transaction. Allocation must hold this lock across the availability
	// re-check and the reservation write.
	GetForUpdate(ctx context.Context, id int32) (*domain.VehicleUnit, error)
	// FirstAvailableForUpdate picks and locks the first free unit of a
	// vehicle, for bookings that name a vehicle but no specific unit.
	FirstAvailableForUpdate(ctx context.Context, vehicleID int32) (*domain.VehicleUnit, error)
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.VehicleUnit, error)
	CountByVehicle(ctx context.Context, vehicleID int32) (int32, error)
	CountAvailable(ctx context.Context, vehicleID int32) (int32, error)
	UpdateStatus(ctx context.Context, id int32, status domain.UnitStatus) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	// CountOverlapping counts rentals in occupying statuses whose [start, end)
	// range intersects the given one, scoped to the unit when unitID is set
	// and to the whole vehicle otherwise.
	CountOverlapping(ctx context.Context, vehicleID int32, unitID *int32, start, end time.Time) (int32, error)
	ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	List(ctx context.Context, status, approvalStatus string, page, pageSize int32) ([]domain.Rental, int32, error)
	// ListExpired returns occupying rentals whose end date has passed.
	ListExpired(ctx context.Context, today time.Time) ([]domain.Rental, error)
	// ListDueToStart returns approved rentals whose start date has arrived.
	ListDueToStart(ctx context.Context, today time.Time) ([]domain.Rental, error)
	UserStats(ctx context.Context, userID int32) (*domain.UserRentalStats, error)
	AdminStats(ctx context.Context) (*domain.RentalStats, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	GetByRentalID(ctx context.Context, rentalID int32) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Payment, int32, error)
	// ListPendingOrders returns order ids of payments still awaiting a
	// gateway verdict, oldest first.
	ListPendingOrders(ctx context.Context, limit int32) ([]string, error)
}

// Repositories bundles every repository over one database handle. The
// Transactor hands services a Repositories bound to a single transaction.
type Repositories struct {
	Users    UserRepository
	Vehicles VehicleRepository
	Units    UnitRepository
	Rentals  RentalRepository
	Payments PaymentRepository
}

// Transactor runs fn with all repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise, so a
// failing step leaves no partial writes behind.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(r *Repositories) error) error
}
