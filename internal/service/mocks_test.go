package service_test

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/gateway"
	"vehicle-rental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, id int32, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUnitRepo
type MockUnitRepo struct {
	mock.Mock
}

func (m *MockUnitRepo) GetByID(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleUnit), args.Error(1)
}
func (m *MockUnitRepo) GetForUpdate(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleUnit), args.Error(1)
}
func (m *MockUnitRepo) FirstAvailableForUpdate(ctx context.Context, vehicleID int32) (*domain.VehicleUnit, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleUnit), args.Error(1)
}
func (m *MockUnitRepo) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.VehicleUnit, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.VehicleUnit), args.Error(1)
}
func (m *MockUnitRepo) CountByVehicle(ctx context.Context, vehicleID int32) (int32, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUnitRepo) CountAvailable(ctx context.Context, vehicleID int32) (int32, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUnitRepo) UpdateStatus(ctx context.Context, id int32, status domain.UnitStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) CountOverlapping(ctx context.Context, vehicleID int32, unitID *int32, start, end time.Time) (int32, error) {
	args := m.Called(ctx, vehicleID, unitID, start, end)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRentalRepo) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) List(ctx context.Context, status, approvalStatus string, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, status, approvalStatus, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListExpired(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListDueToStart(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UserStats(ctx context.Context, userID int32) (*domain.UserRentalStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRentalStats), args.Error(1)
}
func (m *MockRentalRepo) AdminStats(ctx context.Context) (*domain.RentalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalStats), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) GetByRentalID(ctx context.Context, rentalID int32) (*domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}
func (m *MockPaymentRepo) ListPendingOrders(ctx context.Context, limit int32) ([]string, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]string), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req *gateway.ChargeRequest) (*gateway.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}
func (m *MockGateway) GetStatus(ctx context.Context, orderID string) (*gateway.Notification, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Notification), args.Error(1)
}
func (m *MockGateway) Cancel(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
func (m *MockGateway) VerifySignature(n *gateway.Notification) bool {
	args := m.Called(n)
	return args.Bool(0)
}

// MockEmail
type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendBookingConfirmed(ctx context.Context, user *domain.User, rt *domain.Rental) error {
	args := m.Called(ctx, user, rt)
	return args.Error(0)
}
func (m *MockEmail) SendBookingApproved(ctx context.Context, user *domain.User, rt *domain.Rental) error {
	args := m.Called(ctx, user, rt)
	return args.Error(0)
}
func (m *MockEmail) SendBookingRejected(ctx context.Context, user *domain.User, rt *domain.Rental, reason string) error {
	args := m.Called(ctx, user, rt, reason)
	return args.Error(0)
}
func (m *MockEmail) SendBookingCancelled(ctx context.Context, user *domain.User, rt *domain.Rental) error {
	args := m.Called(ctx, user, rt)
	return args.Error(0)
}

// fakeTransactor hands the same repository bundle to the callback; there is
// no real transaction underneath, the tests only exercise the business flow.
type fakeTransactor struct {
	repos *repository.Repositories
}

func (t *fakeTransactor) WithinTx(_ context.Context, fn func(r *repository.Repositories) error) error {
	return fn(t.repos)
}

// testEnv bundles the mocks behind a service-ready repository set.
type testEnv struct {
	users    *MockUserRepo
	vehicles *MockVehicleRepo
	units    *MockUnitRepo
	rentals  *MockRentalRepo
	payments *MockPaymentRepo
	gw       *MockGateway
	email    *MockEmail
	repos    *repository.Repositories
	tx       *fakeTransactor
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    new(MockUserRepo),
		vehicles: new(MockVehicleRepo),
		units:    new(MockUnitRepo),
		rentals:  new(MockRentalRepo),
		payments: new(MockPaymentRepo),
		gw:       new(MockGateway),
		email:    new(MockEmail),
	}
	env.repos = &repository.Repositories{
		Users:    env.users,
		Vehicles: env.vehicles,
		Units:    env.units,
		Rentals:  env.rentals,
		Payments: env.payments,
	}
	env.tx = &fakeTransactor{repos: env.repos}
	return env
}
