package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrRateLimited      = new(ErrCodeRateLimited, "rate limited")

	// Management taxonomy
	ErrOperation             = new(ErrCodeOperation, "operation error")
	ErrInstanceNotFound      = new(ErrCodeInstanceNotFound, "instance not found")
	ErrInstanceAlreadyExists = new(ErrCodeInstanceAlreadyExists, "instance already exists")
	ErrAttributeNotFound     = new(ErrCodeAttributeNotFound, "attribute not found")
	ErrInvalidAttributeValue = new(ErrCodeInvalidAttributeValue, "invalid attribute value")
	ErrMalformedObjectName   = new(ErrCodeMalformedObjectName, "malformed object name")

	sentinels = map[string]*InternalError{
		ErrCodeNotFound:         ErrNotFound,
		ErrCodeAlreadyExists:    ErrAlreadyExists,
		ErrCodeValidation:       ErrValidation,
		ErrCodeInvalidOperation: ErrInvalidOperation,
		ErrCodeSystemError:      ErrSystem,
		ErrCodeRateLimited:      ErrRateLimited,
		ErrCodeOperation:        ErrOperation,
	}

	// maps errors to http status codes, most specific first
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrInstanceNotFound, http.StatusNotFound},
		{ErrAttributeNotFound, http.StatusNotFound},
		{ErrNotFound, http.StatusNotFound},
		{ErrInstanceAlreadyExists, http.StatusConflict},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrMalformedObjectName, http.StatusBadRequest},
		{ErrInvalidAttributeValue, http.StatusBadRequest},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeSystemError           = "system_error"
	ErrCodeNotFound              = "not_found"
	ErrCodeAlreadyExists         = "already_exists"
	ErrCodeValidation            = "validation_error"
	ErrCodeInvalidOperation      = "invalid_operation"
	ErrCodeRateLimited           = "rate_limited"
	ErrCodeOperation             = "operation_error"
	ErrCodeInstanceNotFound      = "instance_not_found"
	ErrCodeInstanceAlreadyExists = "instance_already_exists"
	ErrCodeAttributeNotFound     = "attribute_not_found"
	ErrCodeInvalidAttributeValue = "invalid_attribute_value"
	ErrCodeMalformedObjectName   = "malformed_object_name"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code || hasCode(t, parents[e.Code]...)
}

// parents lists the broader categories each specific code belongs to
var parents = map[string][]string{
	ErrCodeInstanceNotFound:      {ErrCodeNotFound, ErrCodeOperation},
	ErrCodeAttributeNotFound:     {ErrCodeNotFound, ErrCodeOperation},
	ErrCodeInstanceAlreadyExists: {ErrCodeAlreadyExists, ErrCodeOperation},
	ErrCodeInvalidAttributeValue: {ErrCodeValidation},
	ErrCodeMalformedObjectName:   {ErrCodeValidation},
}

// categoriesOf returns the sentinels of the broader categories a sentinel belongs to
func categoriesOf(reference error) []error {
	t, ok := reference.(*InternalError)
	if !ok {
		return nil
	}
	var out []error
	for _, code := range parents[t.Code] {
		if sentinel, ok := sentinels[code]; ok {
			out = append(out, sentinel)
		}
	}
	return out
}

// New creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// hasCode reports whether target is a sentinel carrying one of the codes
func hasCode(target error, codes ...string) bool {
	t, ok := target.(*InternalError)
	if !ok {
		return false
	}
	for _, code := range codes {
		if t.Code == code {
			return true
		}
	}
	return false
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsOperation checks if an error belongs to the operation error category
func IsOperation(err error) bool {
	return errors.Is(err, ErrOperation)
}

// IsInstanceNotFound checks if an error reports a missing managed resource
func IsInstanceNotFound(err error) bool {
	return errors.Is(err, ErrInstanceNotFound)
}

// IsAttributeNotFound checks if an error reports a missing attribute
func IsAttributeNotFound(err error) bool {
	return errors.Is(err, ErrAttributeNotFound)
}

// IsInvalidAttributeValue checks if an error reports a bad attribute value
func IsInvalidAttributeValue(err error) bool {
	return errors.Is(err, ErrInvalidAttributeValue)
}

// IsMalformedObjectName checks if an error reports an unparsable object name
func IsMalformedObjectName(err error) bool {
	return errors.Is(err, ErrMalformedObjectName)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
