package vector

import (
	"math"

	"golang.org/x/exp/constraints"

	"draken/internal/errors"
)

// Number is the set of Go types backing draken's fixed-width numeric
// kinds (Int8..Float64, and the domain-specific Date32/Timestamp64/
// Time32/Time64/Interval kinds, which reuse int32/int64 storage).
type Number interface {
	constraints.Integer | constraints.Float
}

// NumericVector is a fixed-width numeric column. Kind carries the
// semantic type (e.g. Date32 vs plain Int32) independent of the Go
// storage type T.
type NumericVector[T Number] struct {
	kind      Kind
	data      []T
	validity  *Bitmap
	nullCount int
}

// NewNumericVector constructs a NumericVector directly from data and an
// optional validity bitmap (nil means "no nulls", per spec.md §3.1).
func NewNumericVector[T Number](kind Kind, data []T, validity *Bitmap) *NumericVector[T] {
	return &NumericVector[T]{
		kind:      kind,
		data:      data,
		validity:  validity,
		nullCount: validity.NullCount(),
	}
}

func (v *NumericVector[T]) Kind() Kind         { return v.kind }
func (v *NumericVector[T]) Len() int           { return len(v.data) }
func (v *NumericVector[T]) Validity() *Bitmap  { return v.validity }
func (v *NumericVector[T]) NullCount() int     { return v.nullCount }
func (v *NumericVector[T]) Data() []T          { return v.data }
func (v *NumericVector[T]) IsNull(i int) bool {
	return v.validity != nil && !v.validity.IsSet(i)
}

// At returns the value at row i and whether it is non-null.
func (v *NumericVector[T]) At(i int) (T, bool) {
	if v.IsNull(i) {
		var zero T
		return zero, false
	}
	return v.data[i], true
}

func (v *NumericVector[T]) Take(indices []int32) Vector {
	data := make([]T, len(indices))
	var nullAt []int
	for k, idx := range indices {
		if idx < 0 || int(idx) >= len(v.data) || v.IsNull(int(idx)) {
			nullAt = append(nullAt, k)
			continue
		}
		data[k] = v.data[idx]
	}
	var validity *Bitmap
	if len(nullAt) > 0 {
		validity = NewBitmap(len(indices))
		for _, k := range nullAt {
			validity.SetBit(k, false)
		}
	}
	return NewNumericVector(v.kind, data, validity)
}

func (v *NumericVector[T]) Slice(offset, length int) Vector {
	if offset+length > len(v.data) {
		length = len(v.data) - offset
	}
	var validity *Bitmap
	if v.validity != nil {
		validity = v.validity.Slice(offset, length)
	}
	return NewNumericVector(v.kind, v.data[offset:offset+length], validity)
}

func (v *NumericVector[T]) HashInto(out []uint64, offset int) {
	for i := 0; i < len(v.data); i++ {
		var h uint64
		if v.IsNull(i) {
			h = NullHash
		} else {
			h = hashNumericValue(v.data[i])
		}
		combineHash(out, offset+i, h)
	}
}

// CompareOp is the closed set of comparison operators (spec.md §3.3).
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNotEq
	OpGt
	OpGtEq
	OpLt
	OpLtEq
)

func compareValues[T Number](op CompareOp, a, b T) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNotEq:
		return a != b
	case OpGt:
		return a > b
	case OpGtEq:
		return a >= b
	case OpLt:
		return a < b
	case OpLtEq:
		return a <= b
	default:
		return false
	}
}

// CompareScalar implements the scalar comparison contract of spec.md §4.1:
// result bit i is 1 iff row i is non-null AND the comparison holds.
// Go's IEEE-754 float semantics already give NaN the required
// "not equal to everything including itself" behavior and +0.0 == -0.0.
func (v *NumericVector[T]) CompareScalar(op CompareOp, scalar T) BoolMask {
	out := NewBoolMask(v.Len())
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			continue
		}
		if compareValues(op, v.data[i], scalar) {
			out[i] = 1
		}
	}
	return out
}

// CompareVector implements the vector-vector comparison contract.
func CompareVector[T Number](op CompareOp, a, b *NumericVector[T]) (BoolMask, error) {
	if err := checkLengths(a.Len(), b.Len()); err != nil {
		return nil, err
	}
	out := NewBoolMask(a.Len())
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) || b.IsNull(i) {
			continue
		}
		if compareValues(op, a.data[i], b.data[i]) {
			out[i] = 1
		}
	}
	return out, nil
}

// kindBounds returns the representable [min, max] range for a numeric
// Kind, used to detect sum overflow after wide accumulation.
func kindBounds(kind Kind) (lo, hi float64) {
	switch kind {
	case KindInt8:
		return math.MinInt8, math.MaxInt8
	case KindInt16:
		return math.MinInt16, math.MaxInt16
	case KindInt32, KindDate32, KindTime32:
		return math.MinInt32, math.MaxInt32
	case KindInt64, KindTimestamp64, KindTime64, KindInterval:
		return math.MinInt64, math.MaxInt64
	case KindUint8:
		return 0, math.MaxUint8
	case KindUint16:
		return 0, math.MaxUint16
	case KindUint32:
		return 0, math.MaxUint32
	case KindUint64:
		return 0, math.MaxUint64
	case KindFloat32:
		return -math.MaxFloat32, math.MaxFloat32
	case KindFloat64:
		return -math.MaxFloat64, math.MaxFloat64
	default:
		return -math.MaxFloat64, math.MaxFloat64
	}
}

func isFloatKind(kind Kind) bool {
	return kind == KindFloat32 || kind == KindFloat64
}

// Sum implements spec.md §4.1: nulls are ignored, the sum of an empty or
// all-null vector is the additive identity (0), and accumulation happens
// in a float64 accumulator (the "wider accumulator" spec.md permits)
// regardless of T so integer sums don't silently wrap; if the final
// value can't be represented in T, CapacityExceeded is returned instead.
func Sum[T Number](v *NumericVector[T]) (T, error) {
	var acc float64
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			continue
		}
		acc += float64(v.data[i])
	}
	var zero T
	if !isFloatKind(v.kind) {
		lo, hi := kindBounds(v.kind)
		if acc < lo || acc > hi {
			return zero, errors.CapacityExceededErr(int(hi), int(acc))
		}
	}
	return T(acc), nil
}

// Min implements spec.md §4.1/§9: fails on an empty vector; the
// documented quirk treats nulls as 0 rather than skipping them.
func Min[T Number](v *NumericVector[T]) (T, error) {
	var zero T
	if v.Len() == 0 {
		return zero, errors.EmptyVectorErr()
	}
	min := v.data[0]
	if v.IsNull(0) {
		min = zero
	}
	for i := 1; i < v.Len(); i++ {
		val := v.data[i]
		if v.IsNull(i) {
			val = zero
		}
		if val < min {
			min = val
		}
	}
	return min, nil
}

// Max implements spec.md §4.1: fails on an empty vector; nulls are
// skipped entirely (unlike Min's quirk).
func Max[T Number](v *NumericVector[T]) (T, error) {
	var zero T
	if v.Len() == 0 {
		return zero, errors.EmptyVectorErr()
	}
	max := zero
	found := false
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			continue
		}
		if !found || v.data[i] > max {
			max = v.data[i]
			found = true
		}
	}
	return max, nil
}
