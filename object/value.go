package object

import (
	"fmt"
	"strconv"
)

// Lox values are carried in 'any': nil, bool, float64, and string map to
// the Go primitives; functions, natives, classes, and instances are the
// pointer types in this package.

// Truthy converts any value to a boolean: nil and false are falsy,
// everything else — including 0 and "" — is truthy.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// Equal implements Lox ==: nil equals only nil, primitives compare by
// value (numbers with IEEE semantics, so NaN != NaN), objects by
// identity. Comparing the interface values directly gives exactly that,
// since objects are stored as pointers.
func Equal(a, b any) bool {
	return a == b
}

// Stringify renders a value the way print does.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		// Minimal digits that round-trip; integer values print bare.
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
