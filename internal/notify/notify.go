// Package notify e-mails customers about their bookings.
package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
)

// BookingConfirmation is everything the confirmation e-mail shows.
type BookingConfirmation struct {
	CustomerName  string
	CustomerEmail string
	ProviderName  string
	Booking       domain.BookingRecord
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error
}

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridNotifier struct {
	client    sender
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridNotifier) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	if c.CustomerEmail == "" {
		return nil
	}
	message := s.confirmationMessage(c)

	logger.ExternalServiceCall("sendgrid", "Send", "booking_id", c.Booking.BookingID)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "booking_id", c.Booking.BookingID)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SendGridNotifier) confirmationMessage(c BookingConfirmation) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(c.CustomerName, c.CustomerEmail)
	subject := fmt.Sprintf("Booking %s confirmed with %s", c.Booking.BookingID, c.ProviderName)
	plain, html := confirmationBody(c)
	return mail.NewSingleEmail(from, subject, to, plain, html)
}

func confirmationBody(c BookingConfirmation) (string, string) {
	b := c.Booking
	handover := "We will deliver the bikes to your address on the first day."
	if b.Collected {
		handover = "Please collect the bikes from the shop on the first day."
	}
	plain := fmt.Sprintf("Hello %s,\n\nYour booking %s with %s is confirmed.\nDates: %s to %s\nBikes: %d\nPrice: %s\nDeposit: %s\n\n%s\n",
		c.CustomerName, b.BookingID, c.ProviderName, b.StartDate, b.EndDate, len(b.BikeIDs), b.Price, b.Deposit, handover)
	html := fmt.Sprintf(`<html>
	<body>
		<h2>Booking %s confirmed</h2>
		<p>Hello %s, your booking with <strong>%s</strong> is confirmed.</p>
		<ul>
			<li>Dates: %s to %s</li>
			<li>Bikes: %d</li>
			<li>Price: %s</li>
			<li>Deposit: %s</li>
		</ul>
		<p>%s</p>
	</body>
</html>`, b.BookingID, c.CustomerName, c.ProviderName, b.StartDate, b.EndDate, len(b.BikeIDs), b.Price, b.Deposit, handover)
	return plain, html
}

// LogNotifier logs confirmations instead of sending them.
type LogNotifier struct{}

func (LogNotifier) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	logger.InfoContext(ctx, "Booking confirmation", "to", c.CustomerEmail, "booking_id", c.Booking.BookingID)
	return nil
}
