package query

import (
	"fmt"
	"strconv"
	"strings"

	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/shopspring/decimal"
)

// attributeExp reads an attribute of the target
type attributeExp struct {
	name string
}

// Attr returns the value of the named attribute. A missing attribute is
// reported as a bad attribute value with a nil payload.
func Attr(name string) ValueExp {
	return attributeExp{name: name}
}

func (e attributeExp) Value(t Target) (any, error) {
	v, ok := t.Attribute(e.name)
	if !ok {
		return nil, ierr.NewBadAttributeValueError(nil)
	}
	return v, nil
}

func (e attributeExp) String() string {
	return e.name
}

// literalExp is a constant value
type literalExp struct {
	val any
}

func (e literalExp) Value(Target) (any, error) {
	return e.val, nil
}

func (e literalExp) String() string {
	switch v := e.val.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(v)
	}
	return ierr.Text(e.val)
}

func String(s string) ValueExp { return literalExp{val: s} }

func Bool(b bool) ValueExp { return literalExp{val: b} }

func Int(n int64) ValueExp { return literalExp{val: decimal.NewFromInt(n)} }

// Float is kept as given when it is NaN or infinite; evaluating it then
// fails with a bad attribute value
func Float(f float64) ValueExp { return Value(f) }

func Decimal(d decimal.Decimal) ValueExp { return literalExp{val: d} }

// Value wraps an arbitrary constant; numbers are normalised to decimals
func Value(v any) ValueExp {
	if d, ok := toDecimal(v); ok {
		return literalExp{val: d}
	}
	return literalExp{val: v}
}

type binaryOp string

const (
	opPlus  binaryOp = "+"
	opMinus binaryOp = "-"
	opTimes binaryOp = "*"
	opDiv   binaryOp = "/"
)

// binaryOpExp applies an arithmetic operator to two value expressions
type binaryOpExp struct {
	op          binaryOp
	left, right ValueExp
}

func Plus(l, r ValueExp) ValueExp  { return binaryOpExp{op: opPlus, left: l, right: r} }
func Minus(l, r ValueExp) ValueExp { return binaryOpExp{op: opMinus, left: l, right: r} }
func Times(l, r ValueExp) ValueExp { return binaryOpExp{op: opTimes, left: l, right: r} }
func Div(l, r ValueExp) ValueExp   { return binaryOpExp{op: opDiv, left: l, right: r} }

func (e binaryOpExp) Value(t Target) (any, error) {
	v1, err := e.left.Value(t)
	if err != nil {
		return nil, err
	}
	v2, err := e.right.Value(t)
	if err != nil {
		return nil, err
	}

	// string concatenation
	if s1, ok := v1.(string); ok && e.op == opPlus {
		s2, err := stringValue(v2)
		if err != nil {
			return nil, err
		}
		return s1 + s2, nil
	}

	d1, ok := toDecimal(v1)
	if !ok {
		return nil, ierr.NewBadAttributeValueError(v1)
	}
	d2, ok := toDecimal(v2)
	if !ok {
		return nil, ierr.NewBadAttributeValueError(v2)
	}

	switch e.op {
	case opPlus:
		return d1.Add(d2), nil
	case opMinus:
		return d1.Sub(d2), nil
	case opTimes:
		return d1.Mul(d2), nil
	default:
		if d2.IsZero() {
			return nil, ierr.NewError("division by zero").
				WithHintf("Division by zero in %s", e).
				Mark(ierr.ErrInvalidOperation)
		}
		return d1.Div(d2), nil
	}
}

func (e binaryOpExp) String() string {
	return fmt.Sprintf("(%s) %s (%s)", e.left, e.op, e.right)
}
