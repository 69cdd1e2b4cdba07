package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Domain errors: inputs outside the mathematical domain of an operation
	ErrDomain               = errors.New("value outside valid domain")
	ErrNonPositiveParameter = fmt.Errorf("%w: parameter must be strictly positive", ErrDomain)
	ErrInvalidPopulation    = fmt.Errorf("%w: population must be positive", ErrDomain)
	ErrInvalidHorizon       = fmt.Errorf("%w: horizon must be positive", ErrDomain)

	// Shape errors: array dimensions disagree between collaborating inputs
	ErrShapeMismatch = errors.New("shape mismatch between posterior samples and ground truth")

	// Data sufficiency errors
	ErrInsufficientData = errors.New("insufficient data for calibration")

	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrStudyNotFound = fmt.Errorf("%w: study", ErrNotFound)
)

// Error constructors with context
func NewDomainError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrDomain, field, reason)
}

func NewShapeMismatchError(what string, want, got int) error {
	return fmt.Errorf("%w: %s want %d got %d", ErrShapeMismatch, what, want, got)
}

func NewInsufficientDataError(what string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, what)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

func IsShapeMismatchError(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
