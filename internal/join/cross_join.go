package join

import (
	"draken/internal/align"
	"draken/internal/errors"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// maxCrossJoinChunk bounds how many output rows a single CrossJoin call
// materializes at once, mirroring original_source/opteryx's
// cross_join_node.py chunking of the cartesian product by
// config.MAX_JOIN_SIZE so a CROSS JOIN can't blow memory in one step.
const maxCrossJoinChunk = 65536

// CrossJoin computes the cartesian product of left and right, chunked
// into morsels of at most maxCrossJoinChunk rows each (spec.md §4.5:
// "cross join is emitted left-side chunked"). The caller drives the
// returned slice as a sequence of output morsels; a true streaming
// pipeline would instead buffer left pages one at a time, but since
// draken's operators already see fully-buffered build sides (spec.md
// §4.4), a single call materializing the whole chunked product is
// equivalent.
func CrossJoin(left, right *morsel.Morsel) ([]*morsel.Morsel, error) {
	nl, nr := left.NumRows(), right.NumRows()
	if nl == 0 || nr == 0 {
		empty, err := align.AlignTables(left, right, nil, nil)
		if err != nil {
			return nil, err
		}
		return []*morsel.Morsel{empty}, nil
	}

	total := nl * nr
	var out []*morsel.Morsel
	leftIdx := make([]int32, 0, maxCrossJoinChunk)
	rightIdx := make([]int32, 0, maxCrossJoinChunk)

	flush := func() error {
		if len(leftIdx) == 0 {
			return nil
		}
		m, err := align.AlignTables(left, right, leftIdx, rightIdx)
		if err != nil {
			return err
		}
		out = append(out, m)
		leftIdx = make([]int32, 0, maxCrossJoinChunk)
		rightIdx = make([]int32, 0, maxCrossJoinChunk)
		return nil
	}

	for i := 0; i < nl; i++ {
		for j := 0; j < nr; j++ {
			leftIdx = append(leftIdx, int32(i))
			rightIdx = append(rightIdx, int32(j))
			if len(leftIdx) == maxCrossJoinChunk {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if total > 0 && len(out) == 0 {
		return nil, errors.InvalidStateErr("cross join produced no output chunks for non-empty operands")
	}
	return out, nil
}

// CrossJoinUnnest implements CROSS JOIN UNNEST (spec.md §4.5): each row
// of left is repeated once per element of its `column` List value, with
// `alias` holding the exploded scalar; a row whose list is null or empty
// is still emitted once with alias null (LEFT-UNNEST semantics), per
// original_source/opteryx's cross_join_node.py:_cross_join_unnest, which
// always appends the row even when it has nothing to unnest.
func CrossJoinUnnest(left *morsel.Morsel, column, alias string) (*morsel.Morsel, error) {
	col, err := left.Column(column)
	if err != nil {
		return nil, err
	}
	listCol, ok := col.(*vector.ListVector)
	if !ok {
		return nil, errors.UnsupportedOperationErr("CROSS JOIN UNNEST on non-list column " + column)
	}

	// repeatIdx picks which left row each output row repeats; childIdx
	// picks which element of the flattened list child backs its alias
	// column (-1 for a row whose list was null/empty, producing a null
	// alias per original_source/opteryx's _cross_join_unnest, which
	// always emits the row even with nothing to unnest).
	var repeatIdx, childIdx []int32
	for i := 0; i < left.NumRows(); i++ {
		start, end := listCol.ElementRange(i)
		if listCol.IsNull(i) || start == end {
			repeatIdx = append(repeatIdx, int32(i))
			childIdx = append(childIdx, -1)
			continue
		}
		for j := start; j < end; j++ {
			repeatIdx = append(repeatIdx, int32(i))
			childIdx = append(childIdx, j)
		}
	}

	repeated, err := left.Copy(repeatIdx, nil)
	if err != nil {
		return nil, err
	}
	aliasVec := listCol.Child().Take(childIdx)

	names := append(append([]string{}, repeated.ColumnNames()...), alias)
	vecs := make([]vector.Vector, 0, len(names))
	for _, n := range repeated.ColumnNames() {
		v, err := repeated.Column(n)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, v)
	}
	vecs = append(vecs, aliasVec)
	return morsel.New(names, vecs)
}
