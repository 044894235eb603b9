package http

import (
	"context"
	"errors"
)

type contextKey string

const customerIDKey contextKey = "customer-id"

var errNoCustomer = errors.New("customer id is not provided")

func withCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}

// CustomerIDFromContext returns the customer the access token was issued to.
func CustomerIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(customerIDKey).(string)
	if !ok || id == "" {
		return "", errNoCustomer
	}
	return id, nil
}
