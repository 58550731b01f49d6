package http

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/gateway"
	"vehicle-rental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateRental(ctx context.Context, userID int32, in *service.CreateRentalInput) (*domain.Rental, *gateway.Session, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Rental), args.Get(1).(*gateway.Session), args.Error(2)
}
func (m *MockRentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) CancelRental(ctx context.Context, userID, rentalID int32) error {
	args := m.Called(ctx, userID, rentalID)
	return args.Error(0)
}
func (m *MockRentalService) CompleteRental(ctx context.Context, rentalID int32) error {
	args := m.Called(ctx, rentalID)
	return args.Error(0)
}
func (m *MockRentalService) ApproveRental(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, adminID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) RejectRental(ctx context.Context, adminID, rentalID int32, reason string) (*domain.Rental, error) {
	args := m.Called(ctx, adminID, rentalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListAllRentals(ctx context.Context, status, approvalStatus string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, status, approvalStatus, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) ListPendingApprovals(ctx context.Context, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) UserStats(ctx context.Context, userID int32) (*domain.UserRentalStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRentalStats), args.Error(1)
}
func (m *MockRentalService) AdminStats(ctx context.Context) (*domain.RentalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalStats), args.Error(1)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, n *gateway.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockPaymentService) SyncStatus(ctx context.Context, userID int32, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) RetryPayment(ctx context.Context, userID, rentalID int32) (*domain.Payment, *gateway.Session, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Get(1).(*gateway.Session), args.Error(2)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}
func (m *MockPaymentService) OverrideStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Payment, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// MockVehicleService
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleService) ListVehicles(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleService) CheckAvailability(ctx context.Context, vehicleID int32, unitID *int32, start, end time.Time) (int32, error) {
	args := m.Called(ctx, vehicleID, unitID, start, end)
	return args.Get(0).(int32), args.Error(1)
}
