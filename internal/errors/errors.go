package errors

import (
	"errors"
	"fmt"
)

// Domain errors for the card ledger
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCardNotFound           = errors.New("card not found")
	ErrRequestNotFound        = errors.New("card request not found")
	ErrDuplicateUsername      = errors.New("username already exists")
	ErrInsufficientFunds      = errors.New("insufficient balance")
	ErrInvalidDecision        = errors.New("decision must be accept or deny")
	ErrRequestAlreadyResolved = errors.New("card request already resolved")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrCardNotOwned           = errors.New("card does not belong to user")
	ErrForbidden              = errors.New("operation not permitted for role")
	ErrTooManyAttempts        = errors.New("too many failed login attempts")
	ErrStorageUnavailable     = errors.New("storage unavailable")
)

// ErrorCode is a stable identifier reported to callers alongside the message.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInsufficient    ErrorCode = "INSUFFICIENT_FUNDS"
	CodeDuplicateUser   ErrorCode = "DUPLICATE_USERNAME"
	CodeInvalidDecision ErrorCode = "INVALID_DECISION"
	CodeAlreadyResolved ErrorCode = "REQUEST_ALREADY_RESOLVED"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	CodeStorage         ErrorCode = "STORAGE_UNAVAILABLE"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// StorageError wraps a connection, timeout or transaction failure.
// It matches ErrStorageUnavailable under errors.Is.
type StorageError struct {
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during '%s': %v", e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func NewStorageError(operation string, cause error) error {
	return &StorageError{
		Operation: operation,
		Cause:     cause,
	}
}

// IsDomain reports whether err is one of the ledger's business errors,
// as opposed to an infrastructure failure.
func IsDomain(err error) bool {
	if IsValidationError(err) {
		return true
	}
	for _, target := range []error{
		ErrUserNotFound, ErrCardNotFound, ErrRequestNotFound, ErrDuplicateUsername,
		ErrInsufficientFunds, ErrInvalidDecision, ErrRequestAlreadyResolved,
		ErrInvalidCredentials, ErrCardNotOwned, ErrForbidden, ErrTooManyAttempts,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// Code maps err onto its ErrorCode.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case IsValidationError(err):
		return CodeValidation
	case IsNotFound(err):
		return CodeNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficient
	case errors.Is(err, ErrDuplicateUsername):
		return CodeDuplicateUser
	case errors.Is(err, ErrInvalidDecision):
		return CodeInvalidDecision
	case errors.Is(err, ErrRequestAlreadyResolved):
		return CodeAlreadyResolved
	case errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthorized
	case errors.Is(err, ErrCardNotOwned), errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrTooManyAttempts):
		return CodeTooManyRequests
	case IsStorageUnavailable(err):
		return CodeStorage
	default:
		return CodeInternal
	}
}
