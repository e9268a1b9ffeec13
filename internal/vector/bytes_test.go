package vector

import "testing"

func buildBytesVector(t *testing.T, values []string, nullAt map[int]bool) *BytesVector {
	t.Helper()
	b := NewBytesBuilderWithEstimate(KindString, len(values), 8)
	for i, s := range values {
		if nullAt[i] {
			mustOK(t, b.AppendNull())
			continue
		}
		mustOK(t, b.Append([]byte(s)))
	}
	v, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return v
}

func TestBytesBuilderRoundTrip(t *testing.T) {
	v := buildBytesVector(t, []string{"alpha", "beta", "gamma"}, map[int]bool{1: true})
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}
	val, ok := v.At(0)
	if !ok || string(val) != "alpha" {
		t.Fatalf("At(0) = %q,%v want alpha,true", val, ok)
	}
	if _, ok := v.At(1); ok {
		t.Fatalf("row 1 should be null")
	}
}

func TestBytesEqualsScalarByteIdentical(t *testing.T) {
	v := buildBytesVector(t, []string{"foo", "bar", "foo"}, nil)
	mask := v.EqualsScalar([]byte("foo"))
	if mask[0] != 1 || mask[1] != 0 || mask[2] != 1 {
		t.Fatalf("EqualsScalar mask = %v", mask)
	}
}

func TestBytesCompareLexicographic(t *testing.T) {
	v := buildBytesVector(t, []string{"apple", "banana", "cherry"}, nil)
	mask := v.CompareScalar(OpLt, []byte("banana"))
	if mask[0] != 1 || mask[1] != 0 || mask[2] != 0 {
		t.Fatalf("CompareScalar(Lt) mask = %v", mask)
	}
}

func TestBytesStrictBuilderOverfillBytes(t *testing.T) {
	b := NewBytesBuilderWithCounts(KindString, 1, 2)
	mustOK(t, b.Append([]byte("toolong")))
	if _, err := b.Finish(); err == nil {
		t.Fatalf("expected CapacityExceeded on byte overfill at Finish")
	}
}

func TestBytesTakeOutOfRangeProducesNull(t *testing.T) {
	v := buildBytesVector(t, []string{"x", "y"}, nil)
	out := v.Take([]int32{0, 5, 1}).(*BytesVector)
	if out.Len() != 3 {
		t.Fatalf("Take length = %d, want 3", out.Len())
	}
	if _, ok := out.At(1); ok {
		t.Fatalf("out-of-range take index should be null")
	}
}

func TestBytesIsNullMask(t *testing.T) {
	v := buildBytesVector(t, []string{"a", "b"}, map[int]bool{1: true})
	mask := v.IsNullMask()
	if mask[0] != 0 || mask[1] != 1 {
		t.Fatalf("IsNullMask = %v", mask)
	}
}
