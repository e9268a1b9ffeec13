package vector

import "testing"

func TestBoolVectorNotLeavesNullsUnchanged(t *testing.T) {
	bm := NewBitmap(3)
	bm.SetBit(1, false)
	v := NewBoolVector([]bool{true, false, false}, bm)
	not := v.Not()
	if val, ok := not.At(0); !ok || val != false {
		t.Fatalf("Not(true) = %v,%v want false,true", val, ok)
	}
	if _, ok := not.At(1); ok {
		t.Fatalf("null row should remain null after Not")
	}
	if val, ok := not.At(2); !ok || val != true {
		t.Fatalf("Not(false) = %v,%v want true,true", val, ok)
	}
}

func TestBoolVectorToMaskTreatsNullAsFalse(t *testing.T) {
	bm := NewBitmap(2)
	bm.SetBit(0, false)
	v := NewBoolVector([]bool{true, true}, bm)
	mask := v.ToMask()
	if mask[0] != 0 {
		t.Fatalf("null row should map to 0 in ToMask")
	}
	if mask[1] != 1 {
		t.Fatalf("valid true row should map to 1 in ToMask")
	}
}

func TestBoolVectorTakeAndSlice(t *testing.T) {
	v := NewBoolVector([]bool{true, false, true, false}, nil)
	taken := v.Take([]int32{2, 0, -1}).(*BoolVector)
	if taken.Len() != 3 {
		t.Fatalf("Take length = %d, want 3", taken.Len())
	}
	if val, ok := taken.At(0); !ok || val != true {
		t.Fatalf("Take[0] = %v,%v want true,true", val, ok)
	}
	if _, ok := taken.At(2); ok {
		t.Fatalf("out-of-range take index should be null")
	}
	sliced := v.Slice(1, 2).(*BoolVector)
	if sliced.Len() != 2 {
		t.Fatalf("Slice length = %d, want 2", sliced.Len())
	}
}
