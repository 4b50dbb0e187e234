package query

import "fmt"

type andExp struct{ left, right Exp }

// And short-circuits: right is not evaluated when left does not match
func And(l, r Exp) Exp { return andExp{left: l, right: r} }

func (e andExp) Apply(t Target) (bool, error) {
	ok, err := e.left.Apply(t)
	if err != nil || !ok {
		return false, err
	}
	return e.right.Apply(t)
}

func (e andExp) String() string {
	return fmt.Sprintf("(%s) and (%s)", e.left, e.right)
}

type orExp struct{ left, right Exp }

// Or short-circuits: right is not evaluated when left matches
func Or(l, r Exp) Exp { return orExp{left: l, right: r} }

func (e orExp) Apply(t Target) (bool, error) {
	ok, err := e.left.Apply(t)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return e.right.Apply(t)
}

func (e orExp) String() string {
	return fmt.Sprintf("(%s) or (%s)", e.left, e.right)
}

type notExp struct{ exp Exp }

func Not(e Exp) Exp { return notExp{exp: e} }

func (e notExp) Apply(t Target) (bool, error) {
	ok, err := e.exp.Apply(t)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (e notExp) String() string {
	return fmt.Sprintf("not (%s)", e.exp)
}
