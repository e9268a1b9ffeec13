package aggregate

import (
	"draken/internal/errors"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// computeSpec reduces one aggregate Spec across every bucket, producing
// the output Vector for that aggregate column (one row per bucket, in
// bucket order).
func computeSpec(m *morsel.Morsel, buckets []*bucket, spec Spec) (vector.Vector, error) {
	if spec.Func == FuncCountStar {
		counts := make([]int64, len(buckets))
		for i, b := range buckets {
			counts[i] = int64(len(b.indices))
		}
		return vector.NewNumericVector(vector.KindInt64, counts, nil), nil
	}

	col, err := m.Column(spec.Column)
	if err != nil {
		return nil, err
	}

	switch spec.Func {
	case FuncCount:
		return countNonNull(col, buckets), nil
	case FuncSum, FuncMin, FuncMax:
		return reduceNumeric(col, buckets, spec.Func)
	case FuncAvg:
		return average(col, buckets)
	case FuncAny, FuncAll:
		return boolReduce(col, buckets, spec.Func)
	case FuncList:
		return listAgg(col, buckets, false)
	case FuncDistinct:
		return listAgg(col, buckets, true)
	case FuncCountDistinct:
		return countDistinct(col, buckets)
	default:
		return nil, errors.UnsupportedOperationErr("aggregate function " + spec.Func.String())
	}
}

func countNonNull(col vector.Vector, buckets []*bucket) vector.Vector {
	counts := make([]int64, len(buckets))
	for i, b := range buckets {
		n := int64(0)
		for _, row := range b.indices {
			if !col.IsNull(int(row)) {
				n++
			}
		}
		counts[i] = n
	}
	return vector.NewNumericVector(vector.KindInt64, counts, nil)
}

// reduceNumeric dispatches SUM/MIN/MAX to the matching vector.Sum/Min/Max
// kernel per group, gathering each group's rows via Take first — the
// same "gather, then call the whole-vector kernel" shape
// internal/join's hash probe uses for key re-comparison.
func reduceNumeric(col vector.Vector, buckets []*bucket, fn Func) (vector.Vector, error) {
	switch v := col.(type) {
	case *vector.NumericVector[int8]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[int16]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[int32]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[int64]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[uint8]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[uint16]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[uint32]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[uint64]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[float32]:
		return reduceT(v, buckets, fn)
	case *vector.NumericVector[float64]:
		return reduceT(v, buckets, fn)
	default:
		return nil, errors.UnsupportedOperationErr("SUM/MIN/MAX on " + col.Kind().String())
	}
}

func reduceT[T vector.Number](v *vector.NumericVector[T], buckets []*bucket, fn Func) (vector.Vector, error) {
	data := make([]T, len(buckets))
	validity := vector.NewBitmap(len(buckets))
	for i, b := range buckets {
		group := v.Take(b.indices).(*vector.NumericVector[T])
		var val T
		var err error
		switch fn {
		case FuncSum:
			val, err = vector.Sum(group)
		case FuncMin:
			val, err = vector.Min(group)
		case FuncMax:
			val, err = vector.Max(group)
		}
		if err != nil {
			if errors.Is(err, errors.EmptyVector) {
				validity.SetBit(i, false)
				continue
			}
			return nil, err
		}
		data[i] = val
	}
	return vector.NewNumericVector(v.Kind(), data, validity), nil
}

// average computes SUM/COUNT per group in float64, matching spec.md
// §4.1's wide-accumulator rule for SUM; AVG of an empty/all-null group
// is null (spec.md §4.6), not an error, since AVG is defined in terms of
// a ratio rather than Min/Max's empty-vector failure contract.
func average(col vector.Vector, buckets []*bucket) (vector.Vector, error) {
	data := make([]float64, len(buckets))
	validity := vector.NewBitmap(len(buckets))
	for i, b := range buckets {
		var sum float64
		var n int64
		for _, row := range b.indices {
			if col.IsNull(int(row)) {
				continue
			}
			f, err := numericAt(col, int(row))
			if err != nil {
				return nil, err
			}
			sum += f
			n++
		}
		if n == 0 {
			validity.SetBit(i, false)
			continue
		}
		data[i] = sum / float64(n)
	}
	return vector.NewNumericVector(vector.KindFloat64, data, validity), nil
}

func numericAt(col vector.Vector, row int) (float64, error) {
	switch v := col.(type) {
	case *vector.NumericVector[int8]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[int16]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[int32]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[int64]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[uint8]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[uint16]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[uint32]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[uint64]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[float32]:
		x, _ := v.At(row)
		return float64(x), nil
	case *vector.NumericVector[float64]:
		x, _ := v.At(row)
		return x, nil
	default:
		return 0, errors.UnsupportedOperationErr("AVG on " + col.Kind().String())
	}
}

// boolReduce implements ANY (bool_or) and ALL (bool_and): ANY is true if
// any non-null row is true, ALL is true unless any non-null row is
// false; a group with no non-null rows produces null for either.
func boolReduce(col vector.Vector, buckets []*bucket, fn Func) (vector.Vector, error) {
	bv, ok := col.(*vector.BoolVector)
	if !ok {
		return nil, errors.UnsupportedOperationErr("ANY/ALL on non-boolean column")
	}
	data := make([]bool, len(buckets))
	validity := vector.NewBitmap(len(buckets))
	for i, b := range buckets {
		seen := false
		result := fn == FuncAll // ALL starts true, ANY starts false
		for _, row := range b.indices {
			val, valid := bv.At(int(row))
			if !valid {
				continue
			}
			seen = true
			if fn == FuncAny && val {
				result = true
			}
			if fn == FuncAll && !val {
				result = false
			}
		}
		if !seen {
			validity.SetBit(i, false)
			continue
		}
		data[i] = result
	}
	return vector.NewBoolVector(data, validity), nil
}

// listAgg builds one List<T> row per group. When distinctOnly is true
// (DISTINCT aggregate), duplicate values within a group are removed,
// first-occurrence order preserved.
func listAgg(col vector.Vector, buckets []*bucket, distinctOnly bool) (vector.Vector, error) {
	b := vector.NewListBuilderWithCounts(col.Kind(), len(buckets))
	for _, grp := range buckets {
		idx := grp.indices
		if distinctOnly {
			var err error
			idx, err = distinctIndices(col, idx)
			if err != nil {
				return nil, err
			}
		}
		if err := b.Append(col.Take(idx)); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

func countDistinct(col vector.Vector, buckets []*bucket) (vector.Vector, error) {
	counts := make([]int64, len(buckets))
	for i, grp := range buckets {
		idx, err := distinctIndices(col, grp.indices)
		if err != nil {
			return nil, err
		}
		n := int64(0)
		for _, row := range idx {
			if !col.IsNull(int(row)) {
				n++
			}
		}
		counts[i] = n
	}
	return vector.NewNumericVector(vector.KindInt64, counts, nil), nil
}

// distinctIndices returns one representative row index per distinct
// value among rows, hash-bucketed with collision re-comparison (the
// same pattern Group uses for group keys, specialized to a single
// column).
func distinctIndices(col vector.Vector, rows []int32) ([]int32, error) {
	hashes := make([]uint64, len(rows))
	gathered := col.Take(rows)
	gathered.HashInto(hashes, 0)

	seen := map[uint64][]int32{} // hash -> representative row positions within `rows`
	var out []int32
	for pos, h := range hashes {
		dup := false
		for _, repPos := range seen[h] {
			var eq bool
			var err error
			switch {
			case gathered.IsNull(int(repPos)) && gathered.IsNull(pos):
				eq = true // two nulls are the same "distinct" value
			case gathered.IsNull(int(repPos)) || gathered.IsNull(pos):
				eq = false
			default:
				eq, err = valuesEqual(gathered.Take([]int32{int32(repPos)}), gathered.Take([]int32{int32(pos)}))
			}
			if err != nil {
				return nil, err
			}
			if eq {
				dup = true
				break
			}
		}
		if !dup {
			seen[h] = append(seen[h], int32(pos))
			out = append(out, rows[pos])
		}
	}
	return out, nil
}
