// Package query evaluates filter expressions against managed resources.
//
// Expressions are built from value expressions (attributes, literals and
// arithmetic on them) combined by relational and logical operators. An
// attribute whose value cannot take part in an operation makes evaluation
// fail with *ierr.BadAttributeValueError carrying that value.
package query

import (
	"github.com/flexprice/mgmt/internal/types"
)

// Target is the resource an expression is evaluated against
type Target interface {
	ObjectName() types.ObjectName
	ClassName() string
	// Attribute returns the value of the named attribute and whether it exists
	Attribute(name string) (any, bool)
}

// Exp is a boolean query expression
type Exp interface {
	Apply(t Target) (bool, error)
	String() string
}

// ValueExp produces a value from a target
type ValueExp interface {
	Value(t Target) (any, error)
	String() string
}

// Evaluate applies exp to t, treating a nil expression as matching everything
func Evaluate(exp Exp, t Target) (bool, error) {
	if exp == nil {
		return true, nil
	}
	return exp.Apply(t)
}
