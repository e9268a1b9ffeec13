package join

import (
	"testing"

	"draken/internal/expr"
	"draken/internal/morsel"
	"draken/internal/vector"
)

func i32m(t *testing.T, names []string, cols ...[]int32) *morsel.Morsel {
	t.Helper()
	vecs := make([]vector.Vector, len(cols))
	for i, c := range cols {
		vecs[i] = vector.NewNumericVector(vector.KindInt32, c, nil)
	}
	m, err := morsel.New(names, vecs)
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}
	return m
}

func colInt32(t *testing.T, m *morsel.Morsel, name string) []int32 {
	t.Helper()
	c, err := m.Column(name)
	if err != nil {
		t.Fatalf("Column(%s): %v", name, err)
	}
	nv := c.(*vector.NumericVector[int32])
	out := make([]int32, nv.Len())
	for i := range out {
		v, _ := nv.At(i)
		out[i] = v
	}
	return out
}

func TestHashInnerJoinMatchesOnEquality(t *testing.T) {
	left := i32m(t, []string{"lid", "lval"}, []int32{1, 2, 3}, []int32{10, 20, 30})
	right := i32m(t, []string{"rid", "rval"}, []int32{2, 3, 4}, []int32{200, 300, 400})

	out, err := HashInnerJoin(left, right, []string{"lid"}, []string{"rid"}, NullsNeverMatch)
	if err != nil {
		t.Fatalf("HashInnerJoin: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2 (lid 2 and 3 match)", out.NumRows())
	}
	lvals := colInt32(t, out, "lval")
	sum := 0
	for _, v := range lvals {
		sum += int(v)
	}
	if sum != 50 {
		t.Fatalf("lval sum = %d, want 50 (20+30)", sum)
	}
}

func TestHashInnerJoinNullKeysNeverMatch(t *testing.T) {
	leftValidity := vector.NewBitmap(2)
	leftValidity.SetBit(1, false)
	rightValidity := vector.NewBitmap(2)
	rightValidity.SetBit(1, false)
	leftVec := vector.NewNumericVector(vector.KindInt32, []int32{1, 0}, leftValidity)
	rightVec := vector.NewNumericVector(vector.KindInt32, []int32{1, 0}, rightValidity)
	left, err := morsel.New([]string{"id"}, []vector.Vector{leftVec})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}
	right, err := morsel.New([]string{"id"}, []vector.Vector{rightVec})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}
	out, err := HashInnerJoin(left, right, []string{"id"}, []string{"id"}, NullsNeverMatch)
	if err != nil {
		t.Fatalf("HashInnerJoin: %v", err)
	}
	if out.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1 (only the non-null key matches; nulls never match)", out.NumRows())
	}
}

func TestHashLeftOuterJoinEmitsUnmatchedLeftRows(t *testing.T) {
	left := i32m(t, []string{"lid", "lval"}, []int32{1, 2}, []int32{10, 20})
	right := i32m(t, []string{"rid", "rval"}, []int32{2}, []int32{200})

	// LEFT OUTER: build = right, probe = left, unmatched probe rows kept.
	out, err := HashOuterJoin(right, left, []string{"rid"}, []string{"lid"}, NullsNeverMatch, true, false)
	if err != nil {
		t.Fatalf("HashOuterJoin: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2 (both left rows present)", out.NumRows())
	}
	rvals := colInt32(t, out, "rval")
	nullCount := 0
	rvalCol, _ := out.Column("rval")
	for i := 0; i < out.NumRows(); i++ {
		if rvalCol.IsNull(i) {
			nullCount++
		}
	}
	if nullCount != 1 {
		t.Fatalf("expected exactly 1 unmatched row with null rval, got %d (rvals=%v)", nullCount, rvals)
	}
}

func TestHashFullOuterJoinEmitsBothUnmatchedSides(t *testing.T) {
	left := i32m(t, []string{"lid"}, []int32{1, 2})
	right := i32m(t, []string{"rid"}, []int32{2, 3})

	out, err := HashOuterJoin(left, right, []string{"lid"}, []string{"rid"}, NullsNeverMatch, true, true)
	if err != nil {
		t.Fatalf("HashOuterJoin: %v", err)
	}
	// Matches: (2,2). Unmatched probe (right id=3). Unmatched build (left id=1).
	if out.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", out.NumRows())
	}
}

func TestCrossJoinCardinality(t *testing.T) {
	left := i32m(t, []string{"a"}, []int32{1, 2, 3})
	right := i32m(t, []string{"b"}, []int32{10, 20})

	chunks, err := CrossJoin(left, right)
	if err != nil {
		t.Fatalf("CrossJoin: %v", err)
	}
	total := 0
	for _, c := range chunks {
		total += c.NumRows()
	}
	if total != 6 {
		t.Fatalf("total rows = %d, want 6 (3*2)", total)
	}
}

func TestCrossJoinUnnestRepeatsRowsPerElement(t *testing.T) {
	idVec := vector.NewNumericVector(vector.KindInt32, []int32{1, 2}, nil)
	offsets := []int32{0, 2, 2} // row0 has 2 elements, row1 has 0 (empty list)
	child := vector.NewNumericVector(vector.KindInt32, []int32{100, 200}, nil)
	listVec := vector.NewListVector(offsets, child, nil)
	left, err := morsel.New([]string{"id", "tags"}, []vector.Vector{idVec, listVec})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}

	out, err := CrossJoinUnnest(left, "tags", "tag")
	if err != nil {
		t.Fatalf("CrossJoinUnnest: %v", err)
	}
	// row0 unnests to 2 rows (tag=100,200); row1 (empty list) still emits once with tag=null.
	if out.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", out.NumRows())
	}
	tagCol, _ := out.Column("tag")
	if tagCol.IsNull(2) == false {
		t.Fatalf("row for id=2 (empty list) should have a null tag")
	}
}

func TestNonEquiJoinGreaterThan(t *testing.T) {
	left := i32m(t, []string{"a"}, []int32{1, 5})
	right := i32m(t, []string{"b"}, []int32{2, 4})

	pred := &expr.Binary{Op: expr.OpGt, Left: &expr.Column{Name: "a"}, Right: &expr.Column{Name: "b"}}
	out, err := NonEquiJoin(left, right, pred)
	if err != nil {
		t.Fatalf("NonEquiJoin: %v", err)
	}
	// Pairs where a > b: (5,2) and (5,4). (1,2) and (1,4) fail.
	if out.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", out.NumRows())
	}
}
