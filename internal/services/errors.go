package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/placement-test-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrInvalidPayload  = errors.New("invalid submission payload")
	ErrMissingFields   = errors.New("missing required submission fields")
	ErrStorageFailure  = errors.New("could not save results")
	ErrResultsNotFound = errors.New("results file does not exist")
	ErrResultsRead     = errors.New("could not read results")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResultsNotFound)
}

// IsValidation checks if error represents a rejected payload
func IsValidation(err error) bool {
	if errors.Is(err, ErrMissingFields) || errors.Is(err, ErrInvalidPayload) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsStorage checks if error comes from the results log
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageFailure) || errors.Is(err, ErrResultsRead)
}
