package errors

// badAttributeValuePrefix is kept verbatim; clients match on the rendered text.
const badAttributeValuePrefix = "BadAttributeValueException: "

// BadAttributeValueError is returned by query evaluation when an attribute
// value cannot take part in the expression being evaluated. The offending
// value is retained as given.
type BadAttributeValueError struct {
	val any
}

// NewBadAttributeValueError wraps the rejected attribute value
func NewBadAttributeValueError(val any) *BadAttributeValueError {
	return &BadAttributeValueError{val: val}
}

// Value returns the rejected attribute value
func (e *BadAttributeValueError) Value() any {
	return e.val
}

func (e *BadAttributeValueError) String() string {
	return badAttributeValuePrefix + Text(e.val)
}

func (e *BadAttributeValueError) Error() string {
	return e.String()
}

// Is matches the invalid attribute value category and the validation category
func (e *BadAttributeValueError) Is(target error) bool {
	return hasCode(target, ErrCodeInvalidAttributeValue, ErrCodeValidation)
}
