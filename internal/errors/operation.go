package errors

import "fmt"

// OperationError is the category of errors raised by management operations
// such as lookups and attribute access. It carries an optional detail message.
type OperationError struct {
	detail string
}

// NewOperationError returns an operation error with the given detail message
func NewOperationError(detail string) *OperationError {
	return &OperationError{detail: detail}
}

// Message returns the detail message, empty when none was supplied
func (e *OperationError) Message() string {
	return e.detail
}

func (e *OperationError) Error() string {
	if e.detail == "" {
		return ErrOperation.Message
	}
	return e.detail
}

func (e *OperationError) Is(target error) bool {
	return hasCode(target, ErrCodeOperation)
}

// InstanceNotFoundError reports that no managed resource is registered under
// the requested name.
type InstanceNotFoundError struct {
	OperationError
}

// NewInstanceNotFoundError returns an error without a detail message
func NewInstanceNotFoundError() *InstanceNotFoundError {
	return &InstanceNotFoundError{}
}

// NewInstanceNotFoundErrorWithMessage returns an error carrying msg verbatim
func NewInstanceNotFoundErrorWithMessage(msg string) *InstanceNotFoundError {
	return &InstanceNotFoundError{OperationError: OperationError{detail: msg}}
}

// NewInstanceNotFoundErrorForName returns an error whose detail message is the
// textual form of name, fixed at construction. A nil name yields "null".
func NewInstanceNotFoundErrorForName(name fmt.Stringer) *InstanceNotFoundError {
	return NewInstanceNotFoundErrorWithMessage(Text(name))
}

func (e *InstanceNotFoundError) Error() string {
	if e.detail == "" {
		return ErrInstanceNotFound.Message
	}
	return e.detail
}

// Is matches the instance not found sentinel and its broader categories
func (e *InstanceNotFoundError) Is(target error) bool {
	return hasCode(target, ErrCodeInstanceNotFound, ErrCodeNotFound, ErrCodeOperation)
}

// As lets callers catch the error as its *OperationError category
func (e *InstanceNotFoundError) As(target any) bool {
	if t, ok := target.(**OperationError); ok {
		*t = &e.OperationError
		return true
	}
	return false
}
