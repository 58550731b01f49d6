package service

import (
	"context"
	"fmt"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &sendgridEmailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.From,
		fromName:  cfg.FromName,
	}
}

func (s *sendgridEmailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func bookingSummary(rt *domain.Rental) string {
	return fmt.Sprintf("Booking #%d: %s to %s, %d day(s), total %s",
		rt.ID,
		rt.StartDate.Format("2006-01-02"),
		rt.EndDate.Format("2006-01-02"),
		rt.TotalDays,
		rt.TotalAmount.StringFixed(2))
}

func (s *sendgridEmailService) SendBookingConfirmed(_ context.Context, user *domain.User, rt *domain.Rental) error {
	subject := fmt.Sprintf("Payment received for booking #%d", rt.ID)
	plain := fmt.Sprintf("Hi %s,\n\nWe received your payment. %s\n\nYour booking is now awaiting approval.",
		user.Name, bookingSummary(rt))
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received your payment.</p>
		<p>%s</p>
		<p>Your booking is now awaiting approval.</p>`,
		user.Name, bookingSummary(rt))
	return s.send(user.Email, user.Name, subject, plain, html)
}

func (s *sendgridEmailService) SendBookingApproved(_ context.Context, user *domain.User, rt *domain.Rental) error {
	subject := fmt.Sprintf("Booking #%d approved", rt.ID)
	plain := fmt.Sprintf("Hi %s,\n\nYour booking was approved. %s\n\nPickup: %s",
		user.Name, bookingSummary(rt), rt.PickupLocation)
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking was approved.</p>
		<p>%s</p>
		<p>Pickup: %s</p>`,
		user.Name, bookingSummary(rt), rt.PickupLocation)
	return s.send(user.Email, user.Name, subject, plain, html)
}

func (s *sendgridEmailService) SendBookingRejected(_ context.Context, user *domain.User, rt *domain.Rental, reason string) error {
	subject := fmt.Sprintf("Booking #%d rejected", rt.ID)
	plain := fmt.Sprintf("Hi %s,\n\nUnfortunately your booking was rejected. %s\n\nReason: %s\n\nYour payment will be refunded.",
		user.Name, bookingSummary(rt), reason)
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Unfortunately your booking was rejected.</p>
		<p>%s</p>
		<p>Reason: %s</p>
		<p>Your payment will be refunded.</p>`,
		user.Name, bookingSummary(rt), reason)
	return s.send(user.Email, user.Name, subject, plain, html)
}

func (s *sendgridEmailService) SendBookingCancelled(_ context.Context, user *domain.User, rt *domain.Rental) error {
	subject := fmt.Sprintf("Booking #%d cancelled", rt.ID)
	plain := fmt.Sprintf("Hi %s,\n\nYour booking was cancelled. %s", user.Name, bookingSummary(rt))
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking was cancelled.</p>
		<p>%s</p>`,
		user.Name, bookingSummary(rt))
	return s.send(user.Email, user.Name, subject, plain, html)
}
