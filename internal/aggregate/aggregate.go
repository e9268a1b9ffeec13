// Package aggregate implements draken's grouped and scalar aggregation
// kernel (spec.md §4.6): a hash table keyed by the group-by columns with
// collision re-comparison, one accumulator state per requested
// aggregate function, and a scalar (no-group-by) fast path that skips
// hashing entirely and reduces over the whole morsel as a single group.
//
// Grounded on original_source/opteryx's
// engine/planner/operations/aggregate_node.py, which collects into a
// dict keyed by the group-by tuple and applies an incremental or
// whole-dataset aggregate per key; this package keeps that two-phase
// shape (bucket rows by group key, then reduce each bucket) but replaces
// the Python dict-of-tuples with a real hash table over draken's own
// row-hashing kernel (the same one internal/join's hash join builds on),
// and replaces the per-value Python loop with vectorized Take + the
// internal/vector numeric kernels (Sum/Min/Max).
package aggregate

import (
	"draken/internal/morsel"
	"draken/internal/vector"
)

// Func is the closed set of aggregate functions spec.md §4.6 names.
type Func int

const (
	FuncCount Func = iota
	FuncCountStar
	FuncSum
	FuncMin
	FuncMax
	FuncAvg
	FuncList
	FuncAny
	FuncAll
	FuncDistinct
	FuncCountDistinct
)

func (f Func) String() string {
	switch f {
	case FuncCount:
		return "COUNT"
	case FuncCountStar:
		return "COUNT(*)"
	case FuncSum:
		return "SUM"
	case FuncMin:
		return "MIN"
	case FuncMax:
		return "MAX"
	case FuncAvg:
		return "AVG"
	case FuncList:
		return "LIST"
	case FuncAny:
		return "ANY"
	case FuncAll:
		return "ALL"
	case FuncDistinct:
		return "DISTINCT"
	case FuncCountDistinct:
		return "COUNT_DISTINCT"
	default:
		return "UNKNOWN"
	}
}

// Spec is one requested aggregate: e.g. SUM(price) AS total_price.
// Column is ignored for FuncCountStar.
type Spec struct {
	Func   Func
	Column string
	Alias  string
}

// bucket holds the row indices of every input row sharing a group key,
// plus the representative row used to re-verify equality on a hash
// collision and to materialize the group-by columns in the output.
type bucket struct {
	repRow  int32
	indices []int32
}

// Group implements spec.md §4.6: with no group-by columns this is a
// single implicit group over the whole morsel (the scalar aggregation
// fast path, which skips hashing entirely) — a bare `SELECT COUNT(*)`
// matches the original's `collect_columns == ["*"]` short-circuit this
// way, since it has no group-by columns to hash on.
func Group(m *morsel.Morsel, groupCols []string, specs []Spec) (*morsel.Morsel, error) {
	if len(groupCols) == 0 {
		return scalarAggregate(m, specs)
	}

	hashes, err := m.Hash(groupCols...)
	if err != nil {
		return nil, err
	}

	order := make([]uint64, 0)
	buckets := map[uint64][]*bucket{}
	for i := 0; i < m.NumRows(); i++ {
		h := hashes[i]
		list := buckets[h]
		found := false
		for _, b := range list {
			eq, err := rowKeyEqual(m, int(b.repRow), m, i, groupCols)
			if err != nil {
				return nil, err
			}
			if eq {
				b.indices = append(b.indices, int32(i))
				found = true
				break
			}
		}
		if !found {
			if list == nil {
				order = append(order, h)
			}
			buckets[h] = append(list, &bucket{repRow: int32(i), indices: []int32{int32(i)}})
		}
	}

	// Flatten in first-seen order (stable across a single Group call,
	// matching the collector dict's insertion-order iteration the
	// original relies on for deterministic output on a given input).
	var ordered []*bucket
	for _, h := range order {
		ordered = append(ordered, buckets[h]...)
	}

	repIdx := make([]int32, len(ordered))
	for i, b := range ordered {
		repIdx[i] = b.repRow
	}
	groupOut, err := m.Copy(repIdx, groupCols)
	if err != nil {
		return nil, err
	}

	names := append([]string{}, groupOut.ColumnNames()...)
	vecs := make([]vector.Vector, 0, len(names)+len(specs))
	for _, n := range names {
		v, err := groupOut.Column(n)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, v)
	}

	for _, spec := range specs {
		col, err := computeSpec(m, ordered, spec)
		if err != nil {
			return nil, err
		}
		names = append(names, outputName(spec))
		vecs = append(vecs, col)
	}

	return morsel.New(names, vecs)
}

// scalarAggregate implements the no-group-by case: one output row,
// computed over every row of m as a single implicit group.
func scalarAggregate(m *morsel.Morsel, specs []Spec) (*morsel.Morsel, error) {
	all := make([]int32, m.NumRows())
	for i := range all {
		all[i] = int32(i)
	}
	one := &bucket{repRow: 0, indices: all}

	names := make([]string, 0, len(specs))
	vecs := make([]vector.Vector, 0, len(specs))
	for _, spec := range specs {
		col, err := computeSpec(m, []*bucket{one}, spec)
		if err != nil {
			return nil, err
		}
		names = append(names, outputName(spec))
		vecs = append(vecs, col)
	}
	return morsel.New(names, vecs)
}

func outputName(spec Spec) string {
	if spec.Alias != "" {
		return spec.Alias
	}
	if spec.Func == FuncCountStar {
		return "COUNT(*)"
	}
	return spec.Func.String() + "(" + spec.Column + ")"
}

// rowKeyEqual re-compares the group-by columns of two rows, possibly
// from the same morsel, to resolve a hash-bucket collision — the same
// role internal/join's keysEqualNamed plays for join keys.
func rowKeyEqual(a *morsel.Morsel, rowA int, b *morsel.Morsel, rowB int, cols []string) (bool, error) {
	for _, c := range cols {
		ca, err := a.Column(c)
		if err != nil {
			return false, err
		}
		cb, err := b.Column(c)
		if err != nil {
			return false, err
		}
		if ca.IsNull(rowA) != cb.IsNull(rowB) {
			return false, nil
		}
		if ca.IsNull(rowA) {
			continue // both null: SQL GROUP BY treats NULL = NULL for grouping purposes
		}
		av := ca.Take([]int32{int32(rowA)})
		bv := cb.Take([]int32{int32(rowB)})
		eq, err := valuesEqual(av, bv)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}
