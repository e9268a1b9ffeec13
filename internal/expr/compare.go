package expr

import (
	"draken/internal/errors"
	"draken/internal/vector"
)

func toCompareOp(op Op) vector.CompareOp {
	switch op {
	case OpEq:
		return vector.OpEq
	case OpNotEq:
		return vector.OpNotEq
	case OpGt:
		return vector.OpGt
	case OpGtEq:
		return vector.OpGtEq
	case OpLt:
		return vector.OpLt
	case OpLtEq:
		return vector.OpLtEq
	default:
		return vector.OpEq
	}
}

// compareVectorScalar implements pattern #3 (spec.md §4.3): dispatches
// to vec.cmp(literal), converting the literal to the vector's element
// type first. Every fixed-width numeric Kind and String/Binary are
// covered; anything else (List, Arrow-fallback) is UnsupportedOperation.
func compareVectorScalar(vec vector.Vector, op Op, literal interface{}) (vector.BoolMask, error) {
	cop := toCompareOp(op)
	switch v := vec.(type) {
	case *vector.NumericVector[int8]:
		s, err := asNumber[int8](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[int16]:
		s, err := asNumber[int16](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[int32]:
		s, err := asNumber[int32](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[int64]:
		s, err := asNumber[int64](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[uint8]:
		s, err := asNumber[uint8](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[uint16]:
		s, err := asNumber[uint16](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[uint32]:
		s, err := asNumber[uint32](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[uint64]:
		s, err := asNumber[uint64](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[float32]:
		s, err := asNumber[float32](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.NumericVector[float64]:
		s, err := asNumber[float64](literal)
		if err != nil {
			return nil, err
		}
		return v.CompareScalar(cop, s), nil
	case *vector.BytesVector:
		s, err := asBytes(literal)
		if err != nil {
			return nil, err
		}
		if op == OpEq {
			return v.EqualsScalar(s), nil
		}
		if op == OpNotEq {
			return v.NotEqualsScalar(s), nil
		}
		return v.CompareScalar(cop, s), nil
	default:
		return nil, errors.UnsupportedOperationErr("scalar comparison on " + vec.Kind().String())
	}
}

// compareVectorVector implements pattern #4: both sides are columns of
// the same element type. A type mismatch is TypeMismatch, not a silent
// widening (spec.md §4.3).
func compareVectorVector(left, right vector.Vector, op Op) (vector.BoolMask, error) {
	cop := toCompareOp(op)
	if left.Kind() != right.Kind() {
		return nil, errors.TypeMismatchErr(left.Kind().String(), right.Kind().String())
	}
	switch l := left.(type) {
	case *vector.NumericVector[int8]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[int8]))
	case *vector.NumericVector[int16]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[int16]))
	case *vector.NumericVector[int32]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[int32]))
	case *vector.NumericVector[int64]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[int64]))
	case *vector.NumericVector[uint8]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[uint8]))
	case *vector.NumericVector[uint16]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[uint16]))
	case *vector.NumericVector[uint32]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[uint32]))
	case *vector.NumericVector[uint64]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[uint64]))
	case *vector.NumericVector[float32]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[float32]))
	case *vector.NumericVector[float64]:
		return vector.CompareVector(cop, l, right.(*vector.NumericVector[float64]))
	case *vector.BytesVector:
		return vector.CompareBytesVector(cop, l, right.(*vector.BytesVector))
	default:
		return nil, errors.UnsupportedOperationErr("vector-vector comparison on " + left.Kind().String())
	}
}

// asNumber converts a literal (typically int/int64/float64 as produced
// by a SQL literal parser) to the vector's storage type T.
func asNumber[T vector.Number](lit interface{}) (T, error) {
	var zero T
	switch n := lit.(type) {
	case int:
		return T(n), nil
	case int8:
		return T(n), nil
	case int16:
		return T(n), nil
	case int32:
		return T(n), nil
	case int64:
		return T(n), nil
	case uint:
		return T(n), nil
	case uint8:
		return T(n), nil
	case uint16:
		return T(n), nil
	case uint32:
		return T(n), nil
	case uint64:
		return T(n), nil
	case float32:
		return T(n), nil
	case float64:
		return T(n), nil
	default:
		return zero, errors.TypeMismatchErr("numeric column", "non-numeric literal")
	}
}

func asBytes(lit interface{}) ([]byte, error) {
	switch s := lit.(type) {
	case string:
		return []byte(s), nil
	case []byte:
		return s, nil
	default:
		return nil, errors.TypeMismatchErr("string/binary column", "non-string literal")
	}
}
