package jobs

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

// startOfToday truncates the wall clock to a UTC calendar date so the
// sweeps compare date-only against the DATE columns. A rental whose end
// date is today is still within its rental period.
func startOfToday() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompleteExpiredRentals completes rentals whose end date has passed and
// returns their units to the pool. Each rental is completed in its own
// transaction so one bad row cannot stall the sweep.
func (jr *JobRunner) CompleteExpiredRentals() {
	jr.runWithRecovery("CompleteExpiredRentals", func() {
		ctx := context.Background()

		expired, err := jr.store.Rentals.ListExpired(ctx, startOfToday())
		if err != nil {
			logger.Error("Failed to list expired rentals", "error", err)
			return
		}

		completed, failed := 0, 0
		for _, rt := range expired {
			if err := jr.services.Rental.CompleteRental(ctx, rt.ID); err != nil {
				logger.Error("Failed to complete expired rental", "rental_id", rt.ID, "error", err)
				failed++
				continue
			}
			logger.Debug("Completed expired rental",
				"rental_id", rt.ID, "user_id", rt.UserID, "end_date", rt.EndDate.Format("2006-01-02"))
			completed++
		}

		logger.Info("Completed expired rentals", "completed", completed, "failed", failed)
	})
}

// ActivateDueRentals promotes approved rentals whose start date has arrived
// into active status.
func (jr *JobRunner) ActivateDueRentals() {
	jr.runWithRecovery("ActivateDueRentals", func() {
		ctx := context.Background()

		due, err := jr.store.Rentals.ListDueToStart(ctx, startOfToday())
		if err != nil {
			logger.Error("Failed to list due rentals", "error", err)
			return
		}

		activated, failed := 0, 0
		for _, rt := range due {
			err := jr.store.WithinTx(ctx, func(r *repository.Repositories) error {
				fresh, err := r.Rentals.GetByID(ctx, rt.ID)
				if err != nil {
					return err
				}
				if !domain.CanTransition(fresh.Status, domain.RentalStatusActive) {
					logger.Debug("Skipping rental, not activatable", "rental_id", fresh.ID, "status", fresh.Status)
					return nil
				}
				fresh.Status = domain.RentalStatusActive
				if err := r.Rentals.Update(ctx, fresh); err != nil {
					return err
				}
				if fresh.UnitID != nil {
					if err := r.Units.UpdateStatus(ctx, *fresh.UnitID, domain.UnitStatusRented); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				logger.Error("Failed to activate rental", "rental_id", rt.ID, "error", err)
				failed++
				continue
			}
			activated++
		}

		logger.Info("Activated due rentals", "activated", activated, "failed", failed)
	})
}

// SyncPendingPayments polls the gateway for payments still marked pending,
// catching up on any notifications the webhook missed.
func (jr *JobRunner) SyncPendingPayments() {
	jr.runWithRecovery("SyncPendingPayments", func() {
		ctx := context.Background()

		orders, err := jr.store.Payments.ListPendingOrders(ctx, 200)
		if err != nil {
			logger.Error("Failed to list pending payment orders", "error", err)
			return
		}

		synced, failed := 0, 0
		for _, orderID := range orders {
			payment, err := jr.store.Payments.GetByOrderID(ctx, orderID)
			if err != nil {
				logger.Error("Failed to load pending payment", "order_id", orderID, "error", err)
				failed++
				continue
			}
			if _, err := jr.services.Payment.SyncStatus(ctx, payment.UserID, orderID); err != nil {
				logger.Error("Failed to sync pending payment", "order_id", orderID, "error", err)
				failed++
				continue
			}
			synced++
		}

		logger.Info("Synced pending payments", "synced", synced, "failed", failed)
	})
}
