package arrowio

import (
	"testing"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"draken/internal/morsel"
	"draken/internal/vector"
)

func TestRoundTripNumericVector(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt32Builder(mem)
	b.Append(1)
	b.AppendNull()
	b.Append(3)
	arr := b.NewArray()
	defer arr.Release()

	v := FromArrowArray(arr)
	nv, ok := v.(*vector.NumericVector[int32])
	if !ok {
		t.Fatalf("expected NumericVector[int32], got %T", v)
	}
	if nv.Len() != 3 {
		t.Fatalf("Len = %d, want 3", nv.Len())
	}
	if _, valid := nv.At(1); valid {
		t.Fatalf("row 1 should be null after conversion")
	}

	back := ToArrowArray(nv)
	defer back.Release()
	if back.Len() != 3 {
		t.Fatalf("round-tripped array Len = %d, want 3", back.Len())
	}
	if !back.IsNull(1) {
		t.Fatalf("round-tripped array lost null at row 1")
	}
}

func TestRoundTripStringVector(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewStringBuilder(mem)
	b.Append("hello")
	b.AppendNull()
	arr := b.NewArray()
	defer arr.Release()

	v := FromArrowArray(arr)
	bv, ok := v.(*vector.BytesVector)
	if !ok {
		t.Fatalf("expected BytesVector, got %T", v)
	}
	val, valid := bv.At(0)
	if !valid || string(val) != "hello" {
		t.Fatalf("At(0) = %q,%v want hello,true", val, valid)
	}
}

func TestFromArrowRejectsChunkedColumns(t *testing.T) {
	mem := memory.NewGoAllocator()
	b1 := array.NewInt32Builder(mem)
	b1.Append(1)
	chunk1 := b1.NewArray()
	defer chunk1.Release()
	b2 := array.NewInt32Builder(mem)
	b2.Append(2)
	chunk2 := b2.NewArray()
	defer chunk2.Release()

	field := arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Int32}
	schema := arrow.NewSchema([]arrow.Field{field}, nil)
	chunked := arrow.NewChunked(arrow.PrimitiveTypes.Int32, []arrow.Array{chunk1, chunk2})
	defer chunked.Release()
	col := arrow.NewColumn(field, chunked)
	defer col.Release()
	table := array.NewTable(schema, []arrow.Column{*col}, 2)
	defer table.Release()

	if _, err := FromArrow(table); err == nil {
		t.Fatalf("expected an error on a chunked column")
	}
}

func TestEmptyMorselToArrowPreservesSchema(t *testing.T) {
	x := vector.NewNumericVector(vector.KindInt32, []int32{}, nil)
	m, err := morsel.New([]string{"x"}, []vector.Vector{x})
	if err != nil {
		t.Fatalf("morsel.New: %v", err)
	}
	table, err := ToArrow(m)
	if err != nil {
		t.Fatalf("ToArrow: %v", err)
	}
	if table.NumRows() != 0 {
		t.Fatalf("NumRows = %d, want 0", table.NumRows())
	}
	if table.NumCols() != 1 {
		t.Fatalf("NumCols = %d, want 1", table.NumCols())
	}
}
