package vector

import (
	"math"
	"testing"
)

func TestNumericBuilderGrowableRoundTrip(t *testing.T) {
	b := NewBuilderWithEstimate[int32](KindInt32, 4)
	mustOK(t, b.Append(10))
	mustOK(t, b.AppendNull())
	mustOK(t, b.Append(30))
	v, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}
	if val, ok := v.At(0); !ok || val != 10 {
		t.Fatalf("At(0) = %v,%v want 10,true", val, ok)
	}
	if _, ok := v.At(1); ok {
		t.Fatalf("At(1) should be null")
	}
	// Finish is idempotent.
	v2, _ := b.Finish()
	if v2 != v {
		t.Fatalf("Finish is not idempotent")
	}
}

func TestNumericBuilderStrictUnderfill(t *testing.T) {
	b := NewBuilderWithCounts[int64](KindInt64, 3)
	mustOK(t, b.Append(1))
	mustOK(t, b.Append(2))
	if _, err := b.Finish(); err == nil {
		t.Fatalf("expected CapacityExceeded on underfill")
	}
}

func TestNumericBuilderStrictOverfill(t *testing.T) {
	b := NewBuilderWithCounts[int64](KindInt64, 1)
	mustOK(t, b.Append(1))
	if err := b.Append(2); err == nil {
		t.Fatalf("expected CapacityExceeded on overfill")
	}
}

func TestCompareScalarNullIsNeverTrue(t *testing.T) {
	v := NewNumericVector(KindInt32, []int32{1, 2, 3}, nil)
	bm := NewBitmap(3)
	bm.SetBit(1, false)
	v2 := NewNumericVector(KindInt32, []int32{1, 2, 3}, bm)
	mask := v2.CompareScalar(OpEq, 2)
	if mask[1] != 0 {
		t.Fatalf("null row matched scalar comparison")
	}
	mask2 := v.CompareScalar(OpEq, 2)
	if mask2[1] != 1 {
		t.Fatalf("expected row 1 to match")
	}
}

func TestCompareFloatNaNNeverEqual(t *testing.T) {
	nan := math.NaN()
	v := NewNumericVector(KindFloat64, []float64{nan, 1.0}, nil)
	mask := v.CompareScalar(OpEq, nan)
	if mask[0] != 0 {
		t.Fatalf("NaN compared equal to itself")
	}
	maskNeq := v.CompareScalar(OpNotEq, nan)
	if maskNeq[0] != 1 {
		t.Fatalf("NaN != NaN should hold")
	}
}

func TestComparePositiveNegativeZero(t *testing.T) {
	v := NewNumericVector(KindFloat64, []float64{0.0}, nil)
	mask := v.CompareScalar(OpEq, math.Copysign(0, -1))
	if mask[0] != 1 {
		t.Fatalf("+0.0 should equal -0.0")
	}
}

func TestSumWideAccumulation(t *testing.T) {
	v := NewNumericVector(KindInt32, []int32{1, 2, 3}, nil)
	sum, err := Sum(v)
	if err != nil || sum != 6 {
		t.Fatalf("Sum = %v,%v want 6,nil", sum, err)
	}
}

func TestSumEmptyIsZero(t *testing.T) {
	v := NewNumericVector(KindInt32, []int32{}, nil)
	sum, err := Sum(v)
	if err != nil || sum != 0 {
		t.Fatalf("Sum(empty) = %v,%v want 0,nil", sum, err)
	}
}

func TestSumOverflowReported(t *testing.T) {
	v := NewNumericVector(KindInt8, []int8{100, 100, 100}, nil)
	_, err := Sum(v)
	if err == nil {
		t.Fatalf("expected CapacityExceeded on int8 sum overflow")
	}
}

func TestMinTreatsNullAsZeroQuirk(t *testing.T) {
	bm := NewBitmap(2)
	bm.SetBit(0, false)
	v := NewNumericVector(KindInt32, []int32{5, -3}, bm)
	min, err := Min(v)
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	if min != -3 {
		t.Fatalf("Min = %d, want -3 (null treated as 0, still not the min here)", min)
	}
	bm2 := NewBitmap(2)
	bm2.SetBit(0, false)
	v2 := NewNumericVector(KindInt32, []int32{5, 7}, bm2)
	min2, _ := Min(v2)
	if min2 != 0 {
		t.Fatalf("Min = %d, want 0 (null-as-zero is the minimum)", min2)
	}
}

func TestMaxSkipsNulls(t *testing.T) {
	bm := NewBitmap(2)
	bm.SetBit(0, false)
	v := NewNumericVector(KindInt32, []int32{100, 7}, bm)
	max, err := Max(v)
	if err != nil || max != 7 {
		t.Fatalf("Max = %v,%v want 7,nil", max, err)
	}
}

func TestMinMaxEmptyVectorFails(t *testing.T) {
	v := NewNumericVector(KindInt32, []int32{}, nil)
	if _, err := Min(v); err == nil {
		t.Fatalf("expected EmptyVector on Min")
	}
	if _, err := Max(v); err == nil {
		t.Fatalf("expected EmptyVector on Max")
	}
}

func TestTakePreservesLength(t *testing.T) {
	v := NewNumericVector(KindInt32, []int32{10, 20, 30}, nil)
	out := v.Take([]int32{2, 0, -1, 99})
	if out.Len() != 4 {
		t.Fatalf("Take length = %d, want 4", out.Len())
	}
	nv := out.(*NumericVector[int32])
	if val, ok := nv.At(0); !ok || val != 30 {
		t.Fatalf("Take[0] = %v,%v want 30,true", val, ok)
	}
	if _, ok := nv.At(2); ok {
		t.Fatalf("out-of-range index should produce a null row")
	}
}

func TestHashStability(t *testing.T) {
	v := NewNumericVector(KindInt64, []int64{42}, nil)
	out1 := make([]uint64, 1)
	out2 := make([]uint64, 1)
	v.HashInto(out1, 0)
	v.HashInto(out2, 0)
	if out1[0] != out2[0] {
		t.Fatalf("hash not stable across calls")
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
