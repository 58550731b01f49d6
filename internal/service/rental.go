package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/gateway"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type rentalService struct {
	repos    *repository.Repositories
	tx       repository.Transactor
	gw       PaymentGateway
	emailSvc EmailService
}

func NewRentalService(repos *repository.Repositories, tx repository.Transactor, gw PaymentGateway, emailSvc EmailService) RentalService {
	return &rentalService{
		repos:    repos,
		tx:       tx,
		gw:       gw,
		emailSvc: emailSvc,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newOrderID(rentalID int32) string {
	return fmt.Sprintf("RENTAL-%d-%s", rentalID, uuid.New().String())
}

// CreateRental reserves a unit for the date range and opens a payment
// session, all inside one transaction. The unit row is locked before the
// availability re-check so two racing bookings for the same unit cannot
// both pass it. Any failure, including the gateway call, rolls the whole
// reservation back.
func (s *rentalService) CreateRental(ctx context.Context, userID int32, in *CreateRentalInput) (*domain.Rental, *gateway.Session, error) {
	if !in.EndDate.After(in.StartDate) {
		return nil, nil, fmt.Errorf("end date must be after start date: %w", domain.ErrValidation)
	}
	if in.StartDate.Before(startOfDay(time.Now())) {
		return nil, nil, fmt.Errorf("start date must not be in the past: %w", domain.ErrValidation)
	}
	if in.UnitID == nil && in.VehicleID == 0 {
		return nil, nil, fmt.Errorf("either unit id or vehicle id is required: %w", domain.ErrValidation)
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var (
		rental  *domain.Rental
		session *gateway.Session
	)
	err = s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		// Resolve and lock the unit first; the lock is held across the
		// availability re-check and every write below.
		var (
			unit    *domain.VehicleUnit
			vehicle *domain.Vehicle
			err     error
		)
		if in.UnitID != nil {
			unit, err = r.Units.GetForUpdate(ctx, *in.UnitID)
			if err != nil {
				return err
			}
			if !unit.IsAvailable() {
				return fmt.Errorf("unit %s is %s: %w", unit.PlateNumber, unit.Status, domain.ErrConflict)
			}
			vehicle, err = r.Vehicles.GetByID(ctx, unit.VehicleID)
			if err != nil {
				return err
			}
		} else {
			vehicle, err = r.Vehicles.GetByID(ctx, in.VehicleID)
			if err != nil {
				return err
			}
			unit, err = r.Units.FirstAvailableForUpdate(ctx, vehicle.ID)
			if err != nil {
				return err
			}
		}

		if err := s.checkCapacity(ctx, r, vehicle.ID, in.UnitID, unit.ID, in.StartDate, in.EndDate); err != nil {
			return err
		}

		days := domain.TotalDays(in.StartDate, in.EndDate)
		rental = &domain.Rental{
			UserID:         userID,
			VehicleID:      vehicle.ID,
			UnitID:         &unit.ID,
			StartDate:      in.StartDate,
			EndDate:        in.EndDate,
			TotalDays:      days,
			PricePerDay:    vehicle.PricePerDay,
			TotalAmount:    vehicle.PricePerDay.Mul(decimal.NewFromInt(int64(days))),
			Status:         domain.RentalStatusPending,
			ApprovalStatus: domain.ApprovalStatusPending,
			PickupLocation: in.PickupLocation,
			PickupLat:      in.PickupLat,
			PickupLng:      in.PickupLng,
			ReturnLocation: in.ReturnLocation,
			ReturnLat:      in.ReturnLat,
			ReturnLng:      in.ReturnLng,
			Notes:          in.Notes,
		}
		if err := r.Rentals.Create(ctx, rental); err != nil {
			return err
		}

		if err := r.Units.UpdateStatus(ctx, unit.ID, domain.UnitStatusRented); err != nil {
			return err
		}
		if err := refreshVehicleStatus(ctx, r, vehicle.ID); err != nil {
			return err
		}

		payment := &domain.Payment{
			RentalID: rental.ID,
			UserID:   userID,
			Amount:   rental.TotalAmount,
			Status:   domain.PaymentStatusPending,
			OrderID:  newOrderID(rental.ID),
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}

		session, err = s.gw.CreateTransaction(ctx, &gateway.ChargeRequest{
			OrderID:       payment.OrderID,
			GrossAmount:   rental.TotalAmount,
			CustomerName:  user.Name,
			CustomerEmail: user.Email,
			CustomerPhone: user.PhoneNumber,
			ItemID:        fmt.Sprintf("vehicle-%d", vehicle.ID),
			ItemName:      fmt.Sprintf("Vehicle Rental - %d days", days),
			ItemPrice:     rental.PricePerDay,
			ItemQuantity:  days,
		})
		if err != nil {
			return err
		}

		payment.SnapToken = session.Token
		payment.RedirectURL = session.RedirectURL
		return r.Payments.Update(ctx, payment)
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("rental created", "rental_id", rental.ID, "user_id", userID,
		"vehicle_id", rental.VehicleID, "unit_id", *rental.UnitID, "total_amount", rental.TotalAmount)
	return rental, session, nil
}

// checkCapacity re-validates date availability inside the allocation
// transaction. A booking for a specific unit is binary; a vehicle-level
// booking checks remaining capacity across the whole roster.
func (s *rentalService) checkCapacity(ctx context.Context, r *repository.Repositories, vehicleID int32, requestedUnit *int32, resolvedUnit int32, start, end time.Time) error {
	if requestedUnit != nil {
		overlapping, err := r.Rentals.CountOverlapping(ctx, vehicleID, &resolvedUnit, start, end)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return fmt.Errorf("unit %d already booked for these dates: %w", resolvedUnit, domain.ErrConflict)
		}
		return nil
	}

	overlapping, err := r.Rentals.CountOverlapping(ctx, vehicleID, nil, start, end)
	if err != nil {
		return err
	}
	total, err := r.Units.CountByVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if total-overlapping <= 0 {
		return fmt.Errorf("no units available for the selected dates (%d booked of %d): %w",
			overlapping, total, domain.ErrConflict)
	}
	return nil
}

// refreshVehicleStatus recomputes the vehicle's display status from its
// units. The stored value is a projection only.
func refreshVehicleStatus(ctx context.Context, r *repository.Repositories, vehicleID int32) error {
	available, err := r.Units.CountAvailable(ctx, vehicleID)
	if err != nil {
		return err
	}
	return r.Vehicles.UpdateStatus(ctx, vehicleID, domain.DisplayStatus(available))
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.UserID != userID {
		return nil, fmt.Errorf("rental %d does not belong to user %d: %w", rentalID, userID, domain.ErrUnauthorized)
	}
	return rt, nil
}

func (s *rentalService) ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.repos.Rentals.ListByUser(ctx, userID, status, page, pageSize)
}

// CancelRental is a renter's early termination: allowed only before the
// start date and before the rental goes active. The gateway-side cancel is
// best-effort; a gateway failure never strands the rental locally.
func (s *rentalService) CancelRental(ctx context.Context, userID, rentalID int32) error {
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		rt, err := r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rt.UserID != userID {
			return fmt.Errorf("rental %d does not belong to user %d: %w", rentalID, userID, domain.ErrUnauthorized)
		}
		if !rt.CanBeCancelled(startOfDay(time.Now())) {
			return fmt.Errorf("rental %d in status %s cannot be cancelled: %w", rentalID, rt.Status, domain.ErrInvalidTransition)
		}

		payment, err := r.Payments.GetByRentalID(ctx, rentalID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if payment != nil && payment.OrderID != "" {
			if gwErr := s.gw.Cancel(ctx, payment.OrderID); gwErr != nil {
				logger.Warn("gateway cancellation failed, proceeding locally",
					"order_id", payment.OrderID, "error", gwErr)
			}
		}

		rt.Status = domain.RentalStatusCancelled
		if err := r.Rentals.Update(ctx, rt); err != nil {
			return err
		}
		if payment != nil {
			payment.Status = domain.PaymentStatusCancel
			payment.PaidAt = nil
			if err := r.Payments.Update(ctx, payment); err != nil {
				return err
			}
		}
		return releaseUnit(ctx, r, rt)
	})
	if err != nil {
		return err
	}
	logger.Info("rental cancelled", "rental_id", rentalID, "user_id", userID)
	return nil
}

// CompleteRental terminates a rental and restores its unit. Used by the
// administrative override and by the expiry sweep.
func (s *rentalService) CompleteRental(ctx context.Context, rentalID int32) error {
	return s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		rt, err := r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(rt.Status, domain.RentalStatusCompleted) {
			return fmt.Errorf("rental %d in status %s cannot be completed: %w", rentalID, rt.Status, domain.ErrInvalidTransition)
		}
		rt.Status = domain.RentalStatusCompleted
		if err := r.Rentals.Update(ctx, rt); err != nil {
			return err
		}
		return releaseUnit(ctx, r, rt)
	})
}

// releaseUnit returns a rental's unit to the pool and refreshes the owning
// vehicle's projected status.
func releaseUnit(ctx context.Context, r *repository.Repositories, rt *domain.Rental) error {
	if rt.UnitID != nil {
		if err := r.Units.UpdateStatus(ctx, *rt.UnitID, domain.UnitStatusAvailable); err != nil {
			return err
		}
	}
	return refreshVehicleStatus(ctx, r, rt.VehicleID)
}

// ApproveRental promotes a paid rental into a fulfillable booking. If the
// start date has already arrived the rental goes straight to active.
func (s *rentalService) ApproveRental(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	var approved *domain.Rental
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		rt, err := r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if !rt.NeedsApproval() {
			return fmt.Errorf("rental %d (status %s, approval %s) cannot be approved: %w",
				rentalID, rt.Status, rt.ApprovalStatus, domain.ErrInvalidTransition)
		}

		now := time.Now()
		rt.ApprovalStatus = domain.ApprovalStatusApproved
		rt.ApprovedBy = &adminID
		rt.ApprovedAt = &now
		rt.Status = domain.RentalStatusApproved

		if !rt.StartDate.After(startOfDay(now)) {
			rt.Status = domain.RentalStatusActive
			if rt.UnitID != nil {
				// Usually already rented since allocation; harmless repeat.
				if err := r.Units.UpdateStatus(ctx, *rt.UnitID, domain.UnitStatusRented); err != nil {
					return err
				}
			}
			if err := refreshVehicleStatus(ctx, r, rt.VehicleID); err != nil {
				return err
			}
		}

		if err := r.Rentals.Update(ctx, rt); err != nil {
			return err
		}
		approved = rt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, approved.UserID, func(user *domain.User) error {
		return s.emailSvc.SendBookingApproved(ctx, user, approved)
	})
	logger.Info("rental approved", "rental_id", rentalID, "admin_id", adminID, "status", approved.Status)
	return approved, nil
}

// RejectRental is the admin's terminal refusal of a paid booking. The
// rental lands in rejected, the payment is voided and the unit goes back to
// the pool, all in one transaction.
func (s *rentalService) RejectRental(ctx context.Context, adminID, rentalID int32, reason string) (*domain.Rental, error) {
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", domain.ErrValidation)
	}

	var rejected *domain.Rental
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		rt, err := r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if !rt.NeedsApproval() {
			return fmt.Errorf("rental %d (status %s, approval %s) cannot be rejected: %w",
				rentalID, rt.Status, rt.ApprovalStatus, domain.ErrInvalidTransition)
		}

		now := time.Now()
		rt.ApprovalStatus = domain.ApprovalStatusRejected
		rt.ApprovedBy = &adminID
		rt.ApprovedAt = &now
		rt.RejectionReason = reason
		rt.Status = domain.RentalStatusRejected
		if err := r.Rentals.Update(ctx, rt); err != nil {
			return err
		}

		payment, err := r.Payments.GetByRentalID(ctx, rentalID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if payment != nil {
			payment.Status = domain.PaymentStatusCancel
			payment.PaidAt = nil
			if err := r.Payments.Update(ctx, payment); err != nil {
				return err
			}
		}

		if err := releaseUnit(ctx, r, rt); err != nil {
			return err
		}
		rejected = rt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, rejected.UserID, func(user *domain.User) error {
		return s.emailSvc.SendBookingRejected(ctx, user, rejected, reason)
	})
	logger.Info("rental rejected", "rental_id", rentalID, "admin_id", adminID, "reason", reason)
	return rejected, nil
}

func (s *rentalService) ListAllRentals(ctx context.Context, status, approvalStatus string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.repos.Rentals.List(ctx, status, approvalStatus, page, pageSize)
}

func (s *rentalService) ListPendingApprovals(ctx context.Context, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.repos.Rentals.List(ctx, string(domain.RentalStatusConfirmed), string(domain.ApprovalStatusPending), page, pageSize)
}

func (s *rentalService) UserStats(ctx context.Context, userID int32) (*domain.UserRentalStats, error) {
	return s.repos.Rentals.UserStats(ctx, userID)
}

func (s *rentalService) AdminStats(ctx context.Context) (*domain.RentalStats, error) {
	return s.repos.Rentals.AdminStats(ctx)
}

// notify delivers a booking email without letting a delivery failure bubble
// into the caller's result.
func (s *rentalService) notify(ctx context.Context, userID int32, send func(*domain.User) error) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("skipping booking notification, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := send(user); err != nil {
		logger.Warn("booking notification failed", "user_id", userID, "error", err)
	}
}
