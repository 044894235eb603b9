package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bike-rental-marketplace/internal/domain"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}

func confirmation(collected bool) BookingConfirmation {
	return BookingConfirmation{
		CustomerName:  "Juan Del Potro",
		CustomerEmail: "juan@example.com",
		ProviderName:  "EnCyclePedia",
		Booking: domain.BookingRecord{
			BookingID: "3",
			StartDate: "2024-06-04",
			EndDate:   "2024-06-11",
			BikeIDs:   []string{"a", "b"},
			Price:     "420",
			Deposit:   "470",
			Collected: collected,
		},
	}
}

func TestSendGridNotifier_SendBookingConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := new(MockSender)
		n := &SendGridNotifier{client: client, fromEmail: "noreply@bikes.example", fromName: "Bike Rental"}

		var sent *mail.SGMailV3
		client.On("SendWithContext", ctx, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(*mail.SGMailV3) }).
			Return(&rest.Response{StatusCode: 202}, nil)

		require.NoError(t, n.SendBookingConfirmation(ctx, confirmation(true)))
		require.NotNil(t, sent)
		assert.Equal(t, "Booking 3 confirmed with EnCyclePedia", sent.Subject)
		assert.Equal(t, "noreply@bikes.example", sent.From.Address)
		require.Len(t, sent.Personalizations, 1)
		assert.Equal(t, "juan@example.com", sent.Personalizations[0].To[0].Address)
		assert.Contains(t, sent.Content[0].Value, "Please collect the bikes")
		client.AssertExpectations(t)
	})

	t.Run("Rejected by SendGrid", func(t *testing.T) {
		client := new(MockSender)
		n := &SendGridNotifier{client: client}
		client.On("SendWithContext", ctx, mock.Anything).Return(&rest.Response{StatusCode: 401, Body: "unauthorized"}, nil)

		err := n.SendBookingConfirmation(ctx, confirmation(false))
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("Transport error", func(t *testing.T) {
		client := new(MockSender)
		n := &SendGridNotifier{client: client}
		down := errors.New("connection refused")
		client.On("SendWithContext", ctx, mock.Anything).Return(nil, down)

		assert.ErrorIs(t, n.SendBookingConfirmation(ctx, confirmation(false)), down)
	})

	t.Run("No address", func(t *testing.T) {
		client := new(MockSender)
		n := &SendGridNotifier{client: client}
		c := confirmation(false)
		c.CustomerEmail = ""

		assert.NoError(t, n.SendBookingConfirmation(ctx, c))
		client.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
	})
}

func TestConfirmationBody(t *testing.T) {
	plain, html := confirmationBody(confirmation(false))
	assert.Contains(t, plain, "2024-06-04 to 2024-06-11")
	assert.Contains(t, plain, "Bikes: 2")
	assert.Contains(t, plain, "We will deliver")
	assert.Contains(t, html, "<strong>EnCyclePedia</strong>")
}
