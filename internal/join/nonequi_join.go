package join

import (
	"draken/internal/align"
	"draken/internal/expr"
	"draken/internal/morsel"
)

// nonEquiChunk bounds how many cartesian candidate rows are evaluated
// against the predicate at once, for the same reason CrossJoin chunks
// its cartesian product (spec.md §4.5 / original_source/opteryx's
// join_node.py non-equi path, which runs a cross join then filters).
const nonEquiChunk = maxCrossJoinChunk

// NonEquiJoin implements a theta join (spec.md §4.5: any comparison
// operator other than equality falls back to the nested-loop form).
// There is no hash-bucket shortcut for Gt/GtEq/Lt/LtEq/NotEq, so the
// full cartesian product of left and right is built in chunks (the same
// index arrays CrossJoin produces) and the compiled predicate is
// evaluated once per chunk, vectorized, rather than row by row — this
// core evaluates everything on Vectors, so the nested loop still
// reduces to "materialize candidate pairs, then mask."
func NonEquiJoin(left, right *morsel.Morsel, predicate expr.Expr) (*morsel.Morsel, error) {
	compiled, err := expr.Compile(predicate)
	if err != nil {
		return nil, err
	}

	nl, nr := left.NumRows(), right.NumRows()
	var leftIdx, rightIdx []int32
	chunkLeft := make([]int32, 0, nonEquiChunk)
	chunkRight := make([]int32, 0, nonEquiChunk)

	evalChunk := func() error {
		if len(chunkLeft) == 0 {
			return nil
		}
		candidate, err := align.AlignTables(left, right, chunkLeft, chunkRight)
		if err != nil {
			return err
		}
		v, err := compiled(candidate)
		if err != nil {
			return err
		}
		mask, err := expr.AsMask(v, candidate.NumRows())
		if err != nil {
			return err
		}
		for k, keep := range mask {
			if keep == 1 {
				leftIdx = append(leftIdx, chunkLeft[k])
				rightIdx = append(rightIdx, chunkRight[k])
			}
		}
		chunkLeft = chunkLeft[:0]
		chunkRight = chunkRight[:0]
		return nil
	}

	for i := 0; i < nl; i++ {
		for j := 0; j < nr; j++ {
			chunkLeft = append(chunkLeft, int32(i))
			chunkRight = append(chunkRight, int32(j))
			if len(chunkLeft) == nonEquiChunk {
				if err := evalChunk(); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := evalChunk(); err != nil {
		return nil, err
	}

	return align.AlignTables(left, right, leftIdx, rightIdx)
}
