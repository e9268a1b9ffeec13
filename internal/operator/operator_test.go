package operator

import (
	"testing"

	"draken/internal/aggregate"
	"draken/internal/errors"
	"draken/internal/expr"
	"draken/internal/join"
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

// TestSelectionProjectionPipeline exercises spec.md §8 scenario S1:
// {x:[1,2,3],y:[10,20,30]}, predicate (x>1) AND (y<30), projecting [y]
// should yield {y:[20]}.
func TestSelectionProjectionPipeline(t *testing.T) {
	in := i32m(t, []string{"x", "y"}, []int32{1, 2, 3}, []int32{10, 20, 30})

	pred := &expr.Binary{
		Op:   expr.OpAnd,
		Left: &expr.Binary{Op: expr.OpGt, Left: &expr.Column{Name: "x"}, Right: &expr.Literal{Value: int32(1)}},
		Right: &expr.Binary{Op: expr.OpLt, Left: &expr.Column{Name: "y"}, Right: &expr.Literal{Value: int32(30)}},
	}
	sel := NewSelection(nil, pred)
	proj := NewProjection(sel, []ProjectItem{{Source: "y"}})

	src := NewSliceSource(in)
	outs, err := Run(proj, src, LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", whole.NumRows())
	}
	if whole.NumColumns() != 1 {
		t.Fatalf("NumColumns = %d, want 1", whole.NumColumns())
	}
	if got := colInt32(t, whole, "y"); len(got) != 1 || got[0] != 20 {
		t.Fatalf("y = %v, want [20]", got)
	}
}

// TestHashJoinOperatorPipeline exercises spec.md §8 scenario S2: five
// ids joined against four uid probes should produce four matched rows.
func TestHashJoinOperatorPipeline(t *testing.T) {
	build := i32m(t, []string{"id"}, []int32{1, 2, 3, 4, 5})
	probe := i32m(t, []string{"uid", "amt"}, []int32{2, 1, 4, 2}, []int32{100, 200, 150, 300})

	hj := NewHashJoin(nil, nil, []string{"id"}, []string{"uid"}, JoinInner, join.NullsNeverMatch)

	outs, err := RunBinary(hj, NewSliceSource(build), NewSliceSource(probe), LegBuild, LegProbe)
	if err != nil {
		t.Fatalf("RunBinary: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 4 {
		t.Fatalf("NumRows = %d, want 4", whole.NumRows())
	}
}

// TestAggregateOperatorGroupBy exercises spec.md §8 scenario S3: five
// rows grouped by planet into three groups, SUM(val) and COUNT(*).
func TestAggregateOperatorGroupBy(t *testing.T) {
	in := i32m(t, []string{"planet", "val"}, []int32{1, 1, 2, 2, 3}, []int32{10, 20, 30, 40, 50})

	agg := NewAggregate(nil, []string{"planet"}, []aggregate.Spec{
		{Func: aggregate.FuncSum, Column: "val", Alias: "total"},
		{Func: aggregate.FuncCountStar, Column: "", Alias: "n"},
	})

	outs, err := Run(agg, NewSliceSource(in), LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3 groups", whole.NumRows())
	}
}

// TestOrderByNullsLast exercises spec.md §8 scenario S4: {k:[3,null,1,2,null]}
// ASC should sort to [1,2,3,null,null].
func TestOrderByNullsLast(t *testing.T) {
	validity := vector.NewBitmap(5)
	for i, present := range []bool{true, false, true, true, false} {
		validity.SetBit(i, present)
	}
	k := vector.NewNumericVector(vector.KindInt32, []int32{3, 0, 1, 2, 0}, validity)
	in, err := morsel.New([]string{"k"}, []vector.Vector{k})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}

	ob := NewOrderBy(nil, []SortKey{{Column: "k", Desc: false}})
	outs, err := Run(ob, NewSliceSource(in), LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	kCol, err := whole.Column("k")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if whole.NumRows() != 5 {
		t.Fatalf("NumRows = %d, want 5", whole.NumRows())
	}
	for i, wantNull := range []bool{false, false, false, true, true} {
		if kCol.IsNull(i) != wantNull {
			t.Fatalf("row %d IsNull = %v, want %v", i, kCol.IsNull(i), wantNull)
		}
	}
	nv := kCol.(*vector.NumericVector[int32])
	for i, want := range []int32{1, 2, 3} {
		got, _ := nv.At(i)
		if got != want {
			t.Fatalf("row %d = %d, want %d", i, got, want)
		}
	}
}

// TestCrossJoinUnnestInnerModeDropsEmptyLists exercises spec.md §8
// scenario S5: id=2's empty tag list must contribute zero rows under
// Inner mode, not a row with a null tag.
func TestCrossJoinUnnestInnerModeDropsEmptyLists(t *testing.T) {
	idVec := vector.NewNumericVector(vector.KindInt32, []int32{1, 2, 3}, nil)
	offsets := []int32{0, 2, 2, 3} // id=1: 2 elems, id=2: empty, id=3: 1 elem
	childOffsets := []int32{0, 1, 2, 3}
	child := vector.NewBytesVector(vector.KindString, childOffsets, []byte("abc"), nil)
	listVec := vector.NewListVector(offsets, child, nil)
	in, err := morsel.New([]string{"id", "tags"}, []vector.Vector{idVec, listVec})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}

	unnest := NewCrossJoinUnnest(nil, "tags", "tag", UnnestInner)
	outs, err := Run(unnest, NewSliceSource(in), LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3 (id=2's empty list drops entirely)", whole.NumRows())
	}
	idCol := colInt32(t, whole, "id")
	for _, id := range idCol {
		if id == 2 {
			t.Fatalf("id=2 row should have been dropped under Inner mode, got ids %v", idCol)
		}
	}
}

// TestSelectionReusesCompiledExpression exercises spec.md §8 scenario
// S6: evaluating the same predicate shape across two morsels must hit
// the compiled-expression cache on the second call rather than
// recompiling, observable as exactly one additional cache hit.
func TestSelectionReusesCompiledExpression(t *testing.T) {
	pred := &expr.Binary{Op: expr.OpGt, Left: &expr.Column{Name: "x"}, Right: &expr.Literal{Value: int32(0)}}
	sel := NewSelection(nil, pred)

	m1 := i32m(t, []string{"x"}, []int32{1, 2})
	m2 := i32m(t, []string{"x"}, []int32{3, 4})

	if _, _, err := sel.Execute(m1, LegDefault); err != nil {
		t.Fatalf("Execute 1: %v", err)
	}
	_, missesBefore := expr.Stats()
	_ = missesBefore
	hitsBefore, _ := expr.Stats()

	if _, _, err := sel.Execute(m2, LegDefault); err != nil {
		t.Fatalf("Execute 2: %v", err)
	}
	hitsAfter, _ := expr.Stats()
	if hitsAfter != hitsBefore+1 {
		t.Fatalf("cache hits grew by %d, want exactly 1", hitsAfter-hitsBefore)
	}
}

func TestLimitTruncatesAcrossMorsels(t *testing.T) {
	m1 := i32m(t, []string{"x"}, []int32{1, 2, 3})
	m2 := i32m(t, []string{"x"}, []int32{4, 5})

	lim := NewLimit(nil, 4)
	outs, err := Run(lim, NewSliceSource(m1, m2), LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 4 {
		t.Fatalf("NumRows = %d, want 4", whole.NumRows())
	}
}

func TestOffsetSkipsAcrossMorsels(t *testing.T) {
	m1 := i32m(t, []string{"x"}, []int32{1, 2, 3})
	m2 := i32m(t, []string{"x"}, []int32{4, 5})

	off := NewOffset(nil, 4)
	outs, err := Run(off, NewSliceSource(m1, m2), LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", whole.NumRows())
	}
	if got := colInt32(t, whole, "x"); got[0] != 5 {
		t.Fatalf("x = %v, want [5]", got)
	}
}

func TestDistinctDropsDuplicatesAcrossMorsels(t *testing.T) {
	m1 := i32m(t, []string{"x"}, []int32{1, 2, 2})
	m2 := i32m(t, []string{"x"}, []int32{2, 3, 1})

	dist := NewDistinct(nil, []string{"x"})
	outs, err := Run(dist, NewSliceSource(m1, m2), LegDefault)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if whole.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3 distinct values", whole.NumRows())
	}
}

func TestExplainReportsPlanAndCacheStats(t *testing.T) {
	sel := NewSelection(nil, &expr.Literal{Value: true})
	ex := NewExplain(sel)

	in := i32m(t, []string{"x"}, []int32{1, 2, 3})
	if _, _, err := ex.Execute(in, LegDefault); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	outs, eos, err := ex.Execute(nil, LegDefault)
	if err != nil {
		t.Fatalf("Execute EOS: %v", err)
	}
	if !eos {
		t.Fatalf("expected eos after EOS sentinel")
	}
	if len(outs) != 1 {
		t.Fatalf("expected 1 plan row, got %d", len(outs))
	}
	planCol, err := outs[0].Column("plan")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	bv := planCol.(*vector.BytesVector)
	text, _ := bv.At(0)
	if len(text) == 0 {
		t.Fatalf("expected non-empty plan text")
	}
}

func TestProjectionAmbiguousColumnOnDuplicateAlias(t *testing.T) {
	in := i32m(t, []string{"x", "y"}, []int32{1}, []int32{2})
	proj := NewProjection(nil, []ProjectItem{
		{Source: "x", Alias: "same"},
		{Source: "y", Alias: "same"},
	})
	_, _, err := proj.Execute(in, LegDefault)
	if !errors.Is(err, errors.AmbiguousColumn) {
		t.Fatalf("expected AmbiguousColumn, got %v", err)
	}
}
