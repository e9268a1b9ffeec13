package operator

import (
	"fmt"
	"sort"
	"strings"

	"draken/internal/errors"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// SortKey is one ORDER BY clause term (spec.md §4.4.5).
type SortKey struct {
	Column string
	Desc   bool
}

// OrderBy implements spec.md §4.4.5: a blocking, stable multi-key sort.
// It buffers every morsel seen on LegDefault and, on EOS, concatenates
// them into one table, sorts row indices, and emits the reordered
// result as a single morsel. NULLs sort last under ASC and first under
// DESC, matching every key independently.
type OrderBy struct {
	base
	keys     []SortKey
	buffered []*morsel.Morsel
}

func NewOrderBy(producer Operator, keys []SortKey) *OrderBy {
	parts := make([]string, len(keys))
	for i, k := range keys {
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts[i] = k.Column + " " + dir
	}
	return &OrderBy{
		base: base{
			name:      "OrderBy",
			config:    fmt.Sprintf("keys=[%s]", strings.Join(parts, ",")),
			producers: []Operator{producer},
		},
		keys: keys,
	}
}

func (o *OrderBy) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in != nil {
		o.buffered = append(o.buffered, in)
		return nil, false, nil
	}
	whole, err := morsel.Concat(o.buffered)
	if err != nil {
		return nil, false, err
	}
	cols := make([]vector.Vector, len(o.keys))
	for i, k := range o.keys {
		c, err := whole.Column(k.Column)
		if err != nil {
			return nil, false, err
		}
		cols[i] = c
	}
	n := whole.NumRows()
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		for i, k := range o.keys {
			cmp, err := compareAt(cols[i], int(ia), int(ib), k.Desc)
			if err != nil {
				continue
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	out, err := whole.Copy(order, nil)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, true, nil
}

// compareAt orders row i against row j of col, returning <0, 0, >0.
// Nulls sort last under ascending order and first under descending
// order, independent of element type (spec.md §4.4.5).
func compareAt(col vector.Vector, i, j int, desc bool) (int, error) {
	iNull, jNull := col.IsNull(i), col.IsNull(j)
	if iNull || jNull {
		if iNull && jNull {
			return 0, nil
		}
		nullFirst := desc
		if iNull {
			if nullFirst {
				return -1, nil
			}
			return 1, nil
		}
		if nullFirst {
			return 1, nil
		}
		return -1, nil
	}
	cmp, err := compareNonNullAt(col, i, j)
	if err != nil {
		return 0, err
	}
	if desc {
		cmp = -cmp
	}
	return cmp, nil
}

func compareNonNullAt(col vector.Vector, i, j int) (int, error) {
	switch v := col.(type) {
	case *vector.NumericVector[int8]:
		return numCompare(v, i, j)
	case *vector.NumericVector[int16]:
		return numCompare(v, i, j)
	case *vector.NumericVector[int32]:
		return numCompare(v, i, j)
	case *vector.NumericVector[int64]:
		return numCompare(v, i, j)
	case *vector.NumericVector[uint8]:
		return numCompare(v, i, j)
	case *vector.NumericVector[uint16]:
		return numCompare(v, i, j)
	case *vector.NumericVector[uint32]:
		return numCompare(v, i, j)
	case *vector.NumericVector[uint64]:
		return numCompare(v, i, j)
	case *vector.NumericVector[float32]:
		return numCompare(v, i, j)
	case *vector.NumericVector[float64]:
		return numCompare(v, i, j)
	case *vector.BoolVector:
		a, _ := v.At(i)
		b, _ := v.At(j)
		switch {
		case a == b:
			return 0, nil
		case !a && b:
			return -1, nil
		default:
			return 1, nil
		}
	case *vector.BytesVector:
		a, _ := v.At(i)
		b, _ := v.At(j)
		switch {
		case string(a) < string(b):
			return -1, nil
		case string(a) > string(b):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, errors.UnsupportedOperationErr("order-by key on " + col.Kind().String())
	}
}

func numCompare[T vector.Number](v *vector.NumericVector[T], i, j int) (int, error) {
	a, _ := v.At(i)
	b, _ := v.At(j)
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}
