package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocation   = errors.New("invalid location")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrUnknownBikeType   = errors.New("bike type not in price book")
	ErrDuplicateBikeType = errors.New("bike type already in price book")
)

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConfigurationError reports a rejected price-book change. The policy is
// left untouched.
type ConfigurationError struct {
	Op       string
	BikeType string
	Err      error
}

func (e ConfigurationError) Error() string {
	if e.BikeType == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.BikeType, e.Err)
}

func (e ConfigurationError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target ConfigurationError
	return errors.As(err, &target)
}
