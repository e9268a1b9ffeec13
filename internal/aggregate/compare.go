package aggregate

import (
	"draken/internal/errors"
	"draken/internal/vector"
)

// valuesEqual compares two single-row vectors of the same Kind (each
// produced via Take([]int32{row})), resolving a hash-bucket collision
// the same way internal/join's equivalent helper resolves join-key
// collisions.
func valuesEqual(a, b vector.Vector) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, errors.TypeMismatchErr(a.Kind().String(), b.Kind().String())
	}
	switch av := a.(type) {
	case *vector.NumericVector[int8]:
		return numEq(av, b.(*vector.NumericVector[int8]))
	case *vector.NumericVector[int16]:
		return numEq(av, b.(*vector.NumericVector[int16]))
	case *vector.NumericVector[int32]:
		return numEq(av, b.(*vector.NumericVector[int32]))
	case *vector.NumericVector[int64]:
		return numEq(av, b.(*vector.NumericVector[int64]))
	case *vector.NumericVector[uint8]:
		return numEq(av, b.(*vector.NumericVector[uint8]))
	case *vector.NumericVector[uint16]:
		return numEq(av, b.(*vector.NumericVector[uint16]))
	case *vector.NumericVector[uint32]:
		return numEq(av, b.(*vector.NumericVector[uint32]))
	case *vector.NumericVector[uint64]:
		return numEq(av, b.(*vector.NumericVector[uint64]))
	case *vector.NumericVector[float32]:
		return numEq(av, b.(*vector.NumericVector[float32]))
	case *vector.NumericVector[float64]:
		return numEq(av, b.(*vector.NumericVector[float64]))
	case *vector.BoolVector:
		bv := b.(*vector.BoolVector)
		av0, _ := av.At(0)
		bv0, _ := bv.At(0)
		return av0 == bv0, nil
	case *vector.BytesVector:
		bv := b.(*vector.BytesVector)
		bv0, _ := bv.At(0)
		mask := av.EqualsScalar(bv0)
		return mask[0] == 1, nil
	default:
		return false, errors.UnsupportedOperationErr("group-key comparison on " + a.Kind().String())
	}
}

func numEq[T vector.Number](a, b *vector.NumericVector[T]) (bool, error) {
	mask, err := vector.CompareVector(vector.OpEq, a, b)
	if err != nil {
		return false, err
	}
	return mask[0] == 1, nil
}
