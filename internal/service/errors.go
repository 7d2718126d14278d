package service

import (
	"errors"
	"fmt"

	"nightlife/internal/changeset"
	"nightlife/internal/repository"
)

// Moderation outcomes the admin console tells apart. Everything except ErrStorageFailure
// is an expected result of concurrent moderation, not a fault.
var (
	ErrRequestNotFound   = errors.New("moderation request not found")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrAlreadyDecided    = errors.New("request already decided")
	ErrConflict          = errors.New("request changed concurrently")
	ErrOwnershipConflict = errors.New("entity already has an owner")
	ErrStorageFailure    = errors.New("storage failure")
	ErrInvalidInput      = errors.New("invalid input")
)

// classify maps whatever a decision attempt returned onto the outcomes above.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var verr *changeset.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrEntityNotFound),
		errors.Is(err, ErrAlreadyDecided),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrOwnershipConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrStorageFailure):
		return err
	case errors.Is(err, repository.ErrStaleVersion), repository.IsTransient(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}
