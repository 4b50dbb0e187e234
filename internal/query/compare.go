package query

import (
	"encoding/json"
	"math"
	"math/big"

	ierr "github.com/flexprice/mgmt/internal/errors"
	"github.com/shopspring/decimal"
)

type valueKind int

const (
	kindInvalid valueKind = iota
	kindNumber
	kindString
	kindBool
)

func kindOf(v any) valueKind {
	switch v.(type) {
	case string:
		return kindString
	case bool:
		return kindBool
	}
	if _, ok := toDecimal(v); ok {
		return kindNumber
	}
	return kindInvalid
}

// toDecimal converts any Go numeric value to a decimal. NaN and infinities
// have no decimal form and are not numbers here.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(n)), true
	case uint16:
		return decimal.NewFromInt(int64(n)), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case float32:
		if !isFinite(float64(n)) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(n), true
	case float64:
		if !isFinite(n) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	}
	return decimal.Zero, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// compare returns -1, 0 or 1. Both values must be of the same orderable
// kind; otherwise the offending value is reported as a bad attribute value.
func compare(v1, v2 any, ordered bool) (int, error) {
	k1, k2 := kindOf(v1), kindOf(v2)
	if k1 == kindInvalid {
		return 0, ierr.NewBadAttributeValueError(v1)
	}
	if k2 == kindInvalid {
		return 0, ierr.NewBadAttributeValueError(v2)
	}
	if k1 != k2 {
		return 0, ierr.NewBadAttributeValueError(v1)
	}

	switch k1 {
	case kindNumber:
		d1, _ := toDecimal(v1)
		d2, _ := toDecimal(v2)
		return d1.Cmp(d2), nil
	case kindString:
		s1, s2 := v1.(string), v2.(string)
		switch {
		case s1 < s2:
			return -1, nil
		case s1 > s2:
			return 1, nil
		}
		return 0, nil
	default:
		if ordered {
			return 0, ierr.NewBadAttributeValueError(v1)
		}
		if v1.(bool) == v2.(bool) {
			return 0, nil
		}
		return 1, nil
	}
}

// stringValue returns v as a string or a bad attribute value error
func stringValue(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", ierr.NewBadAttributeValueError(v)
	}
	return s, nil
}

// CompatibleValue reports whether next may replace current as an attribute
// value: numbers replace numbers, strings replace strings and bools replace
// bools. Values of any other type, and nil, accept anything.
func CompatibleValue(current, next any) bool {
	if current == nil {
		return true
	}
	k := kindOf(current)
	return k == kindInvalid || k == kindOf(next)
}
