package expr

import (
	"draken/internal/errors"
	"draken/internal/vector"
)

// ValueKind tags what a compiled expression produced: spec.md §4.3
// requires literals to stay un-vectorized, comparisons/booleans to
// return a BoolMask, and everything else to return a Vector.
type ValueKind int

const (
	ValScalar ValueKind = iota
	ValVector
	ValMask
)

// Value is the tagged result of evaluating an expression against a
// morsel.
type Value struct {
	Kind   ValueKind
	Scalar interface{}
	Vec    vector.Vector
	Mask   vector.BoolMask
}

func scalarValue(v interface{}) Value { return Value{Kind: ValScalar, Scalar: v} }
func vectorValue(v vector.Vector) Value { return Value{Kind: ValVector, Vec: v} }
func maskValue(m vector.BoolMask) Value { return Value{Kind: ValMask, Mask: m} }

// AsMask coerces a Value to a BoolMask of the given row count: a native
// mask is returned as-is, a Bool vector is densified via ToMask, and
// anything else is UnsupportedOperation (spec.md §4.3 errors).
func AsMask(v Value, numRows int) (vector.BoolMask, error) {
	switch v.Kind {
	case ValMask:
		return v.Mask, nil
	case ValVector:
		if bv, ok := v.Vec.(*vector.BoolVector); ok {
			return bv.ToMask(), nil
		}
		return nil, errors.UnsupportedOperationErr("non-boolean vector used as a predicate")
	default:
		return nil, errors.UnsupportedOperationErr("scalar used as a predicate")
	}
}
