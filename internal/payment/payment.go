// Package payment holds the payment authorizers the booking desk can be
// wired with. Real card processing is outside this system.
package payment

import (
	"context"
	"fmt"

	"bike-rental-marketplace/internal/rental"
)

const (
	ModeApprove = "approve"
	ModeDecline = "decline"
)

// Static answers every authorization with the same result.
type Static struct {
	Approve bool
}

func (s Static) Authorize(_ context.Context, _ *rental.BookedQuote) (bool, error) {
	return s.Approve, nil
}

// Func adapts a function to rental.PaymentAuthorizer.
type Func func(ctx context.Context, booking *rental.BookedQuote) (bool, error)

func (f Func) Authorize(ctx context.Context, booking *rental.BookedQuote) (bool, error) {
	return f(ctx, booking)
}

// New returns the authorizer for a configured payment mode.
func New(mode string) (rental.PaymentAuthorizer, error) {
	switch mode {
	case "", ModeApprove:
		return Static{Approve: true}, nil
	case ModeDecline:
		return Static{Approve: false}, nil
	default:
		return nil, fmt.Errorf("unknown payment mode: %s", mode)
	}
}
