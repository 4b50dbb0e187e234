package query

import (
	"fmt"
	"strings"

	"github.com/flexprice/mgmt/internal/types"
	"github.com/flexprice/mgmt/internal/utils"
	"github.com/samber/lo"
)

type relOp string

const (
	relEq  relOp = "="
	relGt  relOp = ">"
	relGeq relOp = ">="
	relLt  relOp = "<"
	relLeq relOp = "<="
)

// relationExp compares two value expressions
type relationExp struct {
	op          relOp
	left, right ValueExp
}

func Eq(l, r ValueExp) Exp  { return relationExp{op: relEq, left: l, right: r} }
func Gt(l, r ValueExp) Exp  { return relationExp{op: relGt, left: l, right: r} }
func Geq(l, r ValueExp) Exp { return relationExp{op: relGeq, left: l, right: r} }
func Lt(l, r ValueExp) Exp  { return relationExp{op: relLt, left: l, right: r} }
func Leq(l, r ValueExp) Exp { return relationExp{op: relLeq, left: l, right: r} }

func (e relationExp) Apply(t Target) (bool, error) {
	v1, err := e.left.Value(t)
	if err != nil {
		return false, err
	}
	v2, err := e.right.Value(t)
	if err != nil {
		return false, err
	}

	c, err := compare(v1, v2, e.op != relEq)
	if err != nil {
		return false, err
	}

	switch e.op {
	case relEq:
		return c == 0, nil
	case relGt:
		return c > 0, nil
	case relGeq:
		return c >= 0, nil
	case relLt:
		return c < 0, nil
	default:
		return c <= 0, nil
	}
}

func (e relationExp) String() string {
	return fmt.Sprintf("(%s) %s (%s)", e.left, e.op, e.right)
}

// Between matches when low <= v <= high
func Between(v, low, high ValueExp) Exp {
	return And(Geq(v, low), Leq(v, high))
}

// inExp matches when the value equals any of the candidates
type inExp struct {
	val        ValueExp
	candidates []ValueExp
}

func In(v ValueExp, candidates ...ValueExp) Exp {
	return inExp{val: v, candidates: candidates}
}

func (e inExp) Apply(t Target) (bool, error) {
	for _, c := range e.candidates {
		ok, err := Eq(e.val, c).Apply(t)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (e inExp) String() string {
	return fmt.Sprintf("%s in (%s)", e.val, strings.Join(lo.Map(e.candidates, func(c ValueExp, _ int) string {
		return c.String()
	}), ", "))
}

type stringMatchKind string

const (
	matchWildcard stringMatchKind = "like"
	matchPrefix   stringMatchKind = "initial"
	matchContains stringMatchKind = "any"
	matchSuffix   stringMatchKind = "final"
)

// stringMatchExp tests an attribute string value
type stringMatchExp struct {
	kind  stringMatchKind
	attr  ValueExp
	value string
}

// Match matches the attribute against a pattern where '*' matches any run of
// characters and '?' matches one character
func Match(attr ValueExp, pattern string) Exp {
	return stringMatchExp{kind: matchWildcard, attr: attr, value: pattern}
}

func InitialSubString(attr ValueExp, s string) Exp {
	return stringMatchExp{kind: matchPrefix, attr: attr, value: s}
}

func AnySubString(attr ValueExp, s string) Exp {
	return stringMatchExp{kind: matchContains, attr: attr, value: s}
}

func FinalSubString(attr ValueExp, s string) Exp {
	return stringMatchExp{kind: matchSuffix, attr: attr, value: s}
}

func (e stringMatchExp) Apply(t Target) (bool, error) {
	v, err := e.attr.Value(t)
	if err != nil {
		return false, err
	}
	s, err := stringValue(v)
	if err != nil {
		return false, err
	}

	switch e.kind {
	case matchPrefix:
		return strings.HasPrefix(s, e.value), nil
	case matchContains:
		return strings.Contains(s, e.value), nil
	case matchSuffix:
		return strings.HasSuffix(s, e.value), nil
	default:
		return utils.WildcardMatch(e.value, s), nil
	}
}

func (e stringMatchExp) String() string {
	return fmt.Sprintf("%s %s '%s'", e.attr, e.kind, e.value)
}

// classExp matches on the class name of the target
type classExp struct {
	className string
}

func ClassIs(className string) Exp {
	return classExp{className: className}
}

func (e classExp) Apply(t Target) (bool, error) {
	return t.ClassName() == e.className, nil
}

func (e classExp) String() string {
	return "Class = '" + e.className + "'"
}

// nameExp matches the object name of the target against a pattern
type nameExp struct {
	pattern types.ObjectName
}

func NameMatches(pattern types.ObjectName) Exp {
	return nameExp{pattern: pattern}
}

func (e nameExp) Apply(t Target) (bool, error) {
	return e.pattern.Apply(t.ObjectName()), nil
}

func (e nameExp) String() string {
	return "Name like '" + e.pattern.String() + "'"
}
