package vector

import "testing"

func TestBitmapPopCountAndNullCount(t *testing.T) {
	bm := NewBitmap(10)
	bm.SetBit(3, false)
	bm.SetBit(7, false)
	if bm.PopCount() != 8 {
		t.Fatalf("PopCount = %d, want 8", bm.PopCount())
	}
	if bm.NullCount() != 2 {
		t.Fatalf("NullCount = %d, want 2", bm.NullCount())
	}
}

func TestBitmapTrailingBitsCleared(t *testing.T) {
	bm := NewBitmap(3)
	if bm.PopCount() != 3 {
		t.Fatalf("PopCount = %d, want 3 (only 3 of 8 bits should be set)", bm.PopCount())
	}
}

func TestBitmapSlice(t *testing.T) {
	bm := NewBitmap(8)
	bm.SetBit(2, false)
	bm.SetBit(5, false)
	sl := bm.Slice(1, 5)
	if sl.Len() != 5 {
		t.Fatalf("Slice len = %d, want 5", sl.Len())
	}
	if sl.IsSet(1) {
		t.Fatalf("expected bit 1 of slice (original bit 2) to be null")
	}
	if sl.IsSet(4) {
		t.Fatalf("expected bit 4 of slice (original bit 5) to be null")
	}
	if !sl.IsSet(0) {
		t.Fatalf("expected bit 0 of slice (original bit 1) to be valid")
	}
}

func TestNilBitmapIsAllValid(t *testing.T) {
	var bm *Bitmap
	if !bm.IsSet(0) {
		t.Fatalf("nil bitmap should report every row valid")
	}
	if bm.NullCount() != 0 {
		t.Fatalf("nil bitmap NullCount should be 0")
	}
}

func TestBoolMaskBooleanAlgebra(t *testing.T) {
	a := BoolMask{1, 0, 1, 0}
	b := BoolMask{1, 1, 0, 0}
	and, err := And(a, b)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	if !equalMask(and, BoolMask{1, 0, 0, 0}) {
		t.Fatalf("And = %v", and)
	}
	or, _ := Or(a, b)
	if !equalMask(or, BoolMask{1, 1, 1, 0}) {
		t.Fatalf("Or = %v", or)
	}
	xor, _ := Xor(a, b)
	if !equalMask(xor, BoolMask{0, 1, 1, 0}) {
		t.Fatalf("Xor = %v", xor)
	}
	not := Not(a)
	if !equalMask(not, BoolMask{0, 1, 0, 1}) {
		t.Fatalf("Not = %v", not)
	}
}

func TestBoolMaskLengthMismatch(t *testing.T) {
	a := BoolMask{1, 0}
	b := BoolMask{1, 0, 1}
	if _, err := And(a, b); err == nil {
		t.Fatalf("expected LengthMismatch")
	}
}

func TestBoolMaskDeMorgan(t *testing.T) {
	a := BoolMask{1, 0, 1, 0}
	b := BoolMask{0, 1, 1, 0}
	lhs := Not(mustAnd(t, a, b))
	rhs := mustOr(t, Not(a), Not(b))
	if !equalMask(lhs, rhs) {
		t.Fatalf("De Morgan's law violated: NOT(A AND B) != (NOT A) OR (NOT B)")
	}
}

func TestBoolMaskToIndices(t *testing.T) {
	m := BoolMask{0, 1, 0, 1, 1}
	idx := m.ToIndices()
	want := []int32{1, 3, 4}
	if len(idx) != len(want) {
		t.Fatalf("ToIndices = %v, want %v", idx, want)
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("ToIndices = %v, want %v", idx, want)
		}
	}
}

func equalMask(a, b BoolMask) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustAnd(t *testing.T, a, b BoolMask) BoolMask {
	t.Helper()
	out, err := And(a, b)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	return out
}

func mustOr(t *testing.T, a, b BoolMask) BoolMask {
	t.Helper()
	out, err := Or(a, b)
	if err != nil {
		t.Fatalf("Or: %v", err)
	}
	return out
}
