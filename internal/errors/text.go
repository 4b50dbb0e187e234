package errors

import (
	"fmt"
	"reflect"
)

// Null is the textual form of an absent value
const Null = "null"

// Text renders v the way diagnostic messages expect it: nil (including typed
// nil pointers, maps, slices, channels and funcs) renders as "null",
// fmt.Stringer and error values use their own rendering, anything else goes
// through fmt's default format.
func Text(v any) string {
	if isNil(v) {
		return Null
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}
	return fmt.Sprint(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
