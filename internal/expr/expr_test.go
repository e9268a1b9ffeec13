package expr

import (
	"testing"

	"draken/internal/morsel"
	"draken/internal/vector"
)

func sampleMorsel(t *testing.T) *morsel.Morsel {
	t.Helper()
	x := vector.NewNumericVector(vector.KindInt32, []int32{1, 2, 3}, nil)
	y := vector.NewNumericVector(vector.KindInt32, []int32{10, 20, 30}, nil)
	m, err := morsel.New([]string{"x", "y"}, []vector.Vector{x, y})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}
	return m
}

func TestLiteralPattern(t *testing.T) {
	c, err := Compile(&Literal{Value: int32(42)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := c(sampleMorsel(t))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Kind != ValScalar || v.Scalar != int32(42) {
		t.Fatalf("Literal eval = %+v", v)
	}
}

func TestColumnPattern(t *testing.T) {
	c, err := Compile(&Column{Name: "x"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := c(sampleMorsel(t))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Kind != ValVector {
		t.Fatalf("Column eval kind = %v, want ValVector", v.Kind)
	}
}

func TestColumnNotFoundPropagates(t *testing.T) {
	c, _ := Compile(&Column{Name: "missing"})
	if _, err := c(sampleMorsel(t)); err == nil {
		t.Fatalf("expected ColumnNotFound")
	}
}

func TestComparisonColumnLiteralPattern(t *testing.T) {
	e := &Binary{Op: OpEq, Left: &Column{Name: "x"}, Right: &Literal{Value: int32(2)}}
	c, err := Compile(e)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := c(sampleMorsel(t))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Kind != ValMask {
		t.Fatalf("kind = %v, want ValMask", v.Kind)
	}
	if v.Mask[0] != 0 || v.Mask[1] != 1 || v.Mask[2] != 0 {
		t.Fatalf("mask = %v, want [0 1 0]", v.Mask)
	}
}

func TestComparisonColumnColumnPattern(t *testing.T) {
	e := &Binary{Op: OpLt, Left: &Column{Name: "x"}, Right: &Column{Name: "y"}}
	c, err := Compile(e)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := c(sampleMorsel(t))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	for i, b := range v.Mask {
		if b != 1 {
			t.Fatalf("row %d: x < y should always hold in sample morsel", i)
		}
	}
}

func TestBooleanAndOfTwoComparisons(t *testing.T) {
	left := &Binary{Op: OpEq, Left: &Column{Name: "x"}, Right: &Literal{Value: int32(3)}}
	right := &Binary{Op: OpGt, Left: &Column{Name: "y"}, Right: &Literal{Value: int32(20)}}
	e := &Binary{Op: OpAnd, Left: left, Right: right}
	c, err := Compile(e)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := c(sampleMorsel(t))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := []byte{0, 0, 1}
	for i := range want {
		if v.Mask[i] != want[i] {
			t.Fatalf("mask = %v, want %v", v.Mask, want)
		}
	}
}

func TestUnaryNotPattern(t *testing.T) {
	cmp := &Binary{Op: OpEq, Left: &Column{Name: "x"}, Right: &Literal{Value: int32(2)}}
	e := &Unary{Op: OpNot, Operand: cmp}
	c, err := Compile(e)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	v, err := c(sampleMorsel(t))
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Mask[0] != 1 || v.Mask[1] != 0 || v.Mask[2] != 1 {
		t.Fatalf("Not mask = %v, want [1 0 1]", v.Mask)
	}
}

func TestRepeatedEvaluationHitsCache(t *testing.T) {
	ClearCache()
	e := &Binary{
		Op:   OpAnd,
		Left: &Binary{Op: OpEq, Left: &Column{Name: "x"}, Right: &Literal{Value: int32(3)}},
		Right: &Binary{Op: OpGt, Left: &Column{Name: "y"}, Right: &Literal{Value: int32(20)}},
	}
	m := sampleMorsel(t)

	if _, err := Compile(e); err != nil {
		t.Fatalf("Compile (1st): %v", err)
	}
	_, missesAfterFirst := Stats()

	// Evaluate an equivalent but distinct *Binary tree (same structural
	// key) to simulate the same query compiled twice.
	e2 := &Binary{
		Op:   OpAnd,
		Left: &Binary{Op: OpEq, Left: &Column{Name: "x"}, Right: &Literal{Value: int32(3)}},
		Right: &Binary{Op: OpGt, Left: &Column{Name: "y"}, Right: &Literal{Value: int32(20)}},
	}
	c2, err := Compile(e2)
	if err != nil {
		t.Fatalf("Compile (2nd): %v", err)
	}
	hitsAfterSecond, missesAfterSecond := Stats()
	if missesAfterSecond != missesAfterFirst {
		t.Fatalf("second compile of an identical expression should not miss again: misses %d -> %d", missesAfterFirst, missesAfterSecond)
	}
	if hitsAfterSecond != 1 {
		t.Fatalf("expected exactly 1 cache hit, got %d", hitsAfterSecond)
	}
	if _, err := c2(m); err != nil {
		t.Fatalf("eval: %v", err)
	}
}

func TestTypeMismatchOnVectorVectorComparison(t *testing.T) {
	f := vector.NewNumericVector(vector.KindFloat64, []float64{1, 2, 3}, nil)
	mm, err := morsel.New([]string{"x", "f"}, []vector.Vector{
		vector.NewNumericVector(vector.KindInt32, []int32{1, 2, 3}, nil), f,
	})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}
	e := &Binary{Op: OpEq, Left: &Column{Name: "x"}, Right: &Column{Name: "f"}}
	c, err := Compile(e)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := c(mm); err == nil {
		t.Fatalf("expected TypeMismatch comparing int32 column to float64 column")
	}
}
