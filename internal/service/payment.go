package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/gateway"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type paymentService struct {
	repos    *repository.Repositories
	tx       repository.Transactor
	gw       PaymentGateway
	emailSvc EmailService
}

func NewPaymentService(repos *repository.Repositories, tx repository.Transactor, gw PaymentGateway, emailSvc EmailService) PaymentService {
	return &paymentService{
		repos:    repos,
		tx:       tx,
		gw:       gw,
		emailSvc: emailSvc,
	}
}

// HandleNotification reconciles a gateway callback. The signature is
// verified before anything is touched; the mapped status and the rental
// cascade are then applied in one transaction. Replayed notifications with
// an unchanged status are acknowledged without writes.
func (s *paymentService) HandleNotification(ctx context.Context, n *gateway.Notification) error {
	if !s.gw.VerifySignature(n) {
		return fmt.Errorf("notification for order %s: %w", n.OrderID, domain.ErrBadSignature)
	}

	mapped := gateway.MapStatus(n.TransactionStatus, n.FraudStatus)

	var (
		confirmed *domain.Rental
		notified  int32
	)
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		payment, err := r.Payments.GetByOrderID(ctx, n.OrderID)
		if err != nil {
			return err
		}
		if payment.Status.IsPaid() && !mapped.IsPaid() {
			// A settled payment never regresses off a late callback.
			logger.Warn("ignoring status downgrade for settled payment",
				"order_id", n.OrderID, "current", payment.Status, "incoming", mapped)
			return nil
		}

		raw, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshal notification: %w", err)
		}
		payment.Method = n.PaymentType
		payment.TransactionID = n.TransactionID
		payment.RawResponse = raw

		if payment.Status == mapped {
			// Replays and early pending callbacks still carry the gateway's
			// transaction id, payment type and raw payload; record those
			// without re-running the rental cascade.
			logger.Debug("notification with unchanged status, payload recorded",
				"order_id", n.OrderID, "status", mapped)
			return r.Payments.Update(ctx, payment)
		}

		payment.Status = mapped
		if mapped.IsPaid() {
			now := time.Now()
			payment.PaidAt = &now
		}
		if err := r.Payments.Update(ctx, payment); err != nil {
			return err
		}

		rt, err := cascadeRentalFromPayment(ctx, r, payment, mapped)
		if err != nil {
			return err
		}
		if rt != nil && mapped.IsPaid() {
			confirmed = rt
			notified = rt.UserID
		}
		return nil
	})
	if err != nil {
		return err
	}

	if confirmed != nil {
		s.notifyConfirmed(ctx, notified, confirmed)
	}
	logger.Info("payment notification processed", "order_id", n.OrderID,
		"transaction_status", n.TransactionStatus, "fraud_status", n.FraudStatus, "mapped", mapped)
	return nil
}

// cascadeRentalFromPayment applies the rental-side consequence of a payment
// status change. Paid promotes a pending rental to confirmed; a failure
// cancels the rental and returns its unit to the pool.
func cascadeRentalFromPayment(ctx context.Context, r *repository.Repositories, payment *domain.Payment, status domain.PaymentStatus) (*domain.Rental, error) {
	rt, err := r.Rentals.GetByID(ctx, payment.RentalID)
	if err != nil {
		return nil, err
	}

	switch {
	case status.IsPaid():
		if rt.Status != domain.RentalStatusPending {
			return nil, nil
		}
		rt.Status = domain.RentalStatusConfirmed
		if err := r.Rentals.Update(ctx, rt); err != nil {
			return nil, err
		}
		return rt, nil

	case status.IsFailed():
		if rt.Status.IsTerminal() {
			return nil, nil
		}
		rt.Status = domain.RentalStatusCancelled
		if err := r.Rentals.Update(ctx, rt); err != nil {
			return nil, err
		}
		if err := releaseUnit(ctx, r, rt); err != nil {
			return nil, err
		}
		return rt, nil
	}
	return nil, nil
}

// SyncStatus pulls the authoritative transaction state from the gateway for
// a payment the renter owns. Only the payment record is refreshed here; the
// rental cascade stays with the notification path.
func (s *paymentService) SyncStatus(ctx context.Context, userID int32, orderID string) (*domain.Payment, error) {
	payment, err := s.repos.Payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, fmt.Errorf("payment %s does not belong to user %d: %w", orderID, userID, domain.ErrUnauthorized)
	}

	status, err := s.gw.GetStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}

	mapped := gateway.MapStatus(status.TransactionStatus, status.FraudStatus)
	if mapped == payment.Status {
		return payment, nil
	}
	if payment.Status.IsPaid() && !mapped.IsPaid() {
		return payment, nil
	}

	raw, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("marshal status response: %w", err)
	}
	payment.Status = mapped
	payment.Method = status.PaymentType
	payment.TransactionID = status.TransactionID
	payment.RawResponse = raw
	if mapped.IsPaid() && payment.PaidAt == nil {
		now := time.Now()
		payment.PaidAt = &now
	}
	if err := s.repos.Payments.Update(ctx, payment); err != nil {
		return nil, err
	}

	logger.Info("payment status synced", "order_id", orderID, "status", mapped)
	return payment, nil
}

// RetryPayment issues a fresh checkout session for an unpaid or failed
// payment. A new order id is minted so the gateway treats it as a new
// transaction; the amount never changes.
func (s *paymentService) RetryPayment(ctx context.Context, userID, rentalID int32) (*domain.Payment, *gateway.Session, error) {
	var (
		payment *domain.Payment
		session *gateway.Session
	)
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		rt, err := r.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rt.UserID != userID {
			return fmt.Errorf("rental %d does not belong to user %d: %w", rentalID, userID, domain.ErrUnauthorized)
		}
		if rt.Status != domain.RentalStatusPending {
			return fmt.Errorf("rental %d in status %s is not awaiting payment: %w", rentalID, rt.Status, domain.ErrInvalidTransition)
		}

		payment, err = r.Payments.GetByRentalID(ctx, rentalID)
		if err != nil {
			return err
		}
		if !payment.CanBeRetried() {
			return fmt.Errorf("payment for rental %d in status %s cannot be retried: %w",
				rentalID, payment.Status, domain.ErrInvalidTransition)
		}

		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		payment.OrderID = newOrderID(rentalID)
		payment.Status = domain.PaymentStatusPending
		payment.PaidAt = nil

		session, err = s.gw.CreateTransaction(ctx, &gateway.ChargeRequest{
			OrderID:       payment.OrderID,
			GrossAmount:   payment.Amount,
			CustomerName:  user.Name,
			CustomerEmail: user.Email,
			CustomerPhone: user.PhoneNumber,
			ItemID:        fmt.Sprintf("vehicle-%d", rt.VehicleID),
			ItemName:      fmt.Sprintf("Vehicle Rental - %d days", rt.TotalDays),
			ItemPrice:     rt.PricePerDay,
			ItemQuantity:  rt.TotalDays,
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

	logger.Info("payment retried", "rental_id", rentalID, "order_id", payment.OrderID)
	return payment, session, nil
}

func (s *paymentService) ListPayments(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Payment, int32, error) {
	return s.repos.Payments.ListByUser(ctx, userID, status, page, pageSize)
}

// OverrideStatus lets an operator force a payment into a given state when
// the gateway and local records have diverged. The same rental cascade as
// the notification path applies, so the rental cannot be left inconsistent.
func (s *paymentService) OverrideStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Payment, error) {
	var overridden *domain.Payment
	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		payment, err := r.Payments.GetByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		payment.Status = status
		if status.IsPaid() && payment.PaidAt == nil {
			now := time.Now()
			payment.PaidAt = &now
		}
		if !status.IsPaid() {
			payment.PaidAt = nil
		}
		if err := r.Payments.Update(ctx, payment); err != nil {
			return err
		}
		if _, err := cascadeRentalFromPayment(ctx, r, payment, status); err != nil {
			return err
		}
		overridden = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Warn("payment status overridden", "order_id", orderID, "status", status)
	return overridden, nil
}

func (s *paymentService) notifyConfirmed(ctx context.Context, userID int32, rt *domain.Rental) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("skipping payment confirmation email, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := s.emailSvc.SendBookingConfirmed(ctx, user, rt); err != nil {
		logger.Warn("payment confirmation email failed", "user_id", userID, "error", err)
	}
}
