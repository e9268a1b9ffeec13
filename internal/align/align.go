// Package align implements draken's row-alignment kernel (spec.md §4.7):
// the primitive every join operator (C5) builds its output on.
package align

import (
	"draken/internal/morsel"
	"draken/internal/vector"
)

// AlignTables builds the morsel every join in this core emits through:
// left's columns (selected by leftIdx) followed by right's columns
// whose names aren't already present in left (selected by rightIdx),
// LEFT-WINS on name collision. A negative index in either array
// produces a null row in every column sourced from that side — the
// mechanism outer joins use for unmatched rows — since Vector.Take
// already maps out-of-range/negative indices to null (spec.md §4.1).
func AlignTables(left, right *morsel.Morsel, leftIdx, rightIdx []int32) (*morsel.Morsel, error) {
	leftNames := left.ColumnNames()
	names := make([]string, 0, len(leftNames)+right.NumColumns())
	vecs := make([]vector.Vector, 0, len(leftNames)+right.NumColumns())

	leftHas := make(map[string]bool, len(leftNames))
	for _, name := range leftNames {
		col, err := left.Column(name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		vecs = append(vecs, col.Take(leftIdx))
		leftHas[name] = true
	}

	for _, name := range right.ColumnNames() {
		if leftHas[name] {
			continue
		}
		col, err := right.Column(name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		vecs = append(vecs, col.Take(rightIdx))
	}

	return morsel.New(names, vecs)
}
