package arrowio

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"draken/internal/vector"
)

// FromArrowArray converts a single Arrow array to the matching native
// draken Vector, or to the ArrowVector fallback when the logical type
// has no native kernel (spec.md §3.1/§6).
func FromArrowArray(arr arrow.Array) vector.Vector {
	switch a := arr.(type) {
	case *array.Int8:
		return numericFromArrow(vector.KindInt8, a.Int8Values(), arr)
	case *array.Int16:
		return numericFromArrow(vector.KindInt16, a.Int16Values(), arr)
	case *array.Int32:
		return numericFromArrow(vector.KindInt32, a.Int32Values(), arr)
	case *array.Int64:
		return numericFromArrow(vector.KindInt64, a.Int64Values(), arr)
	case *array.Uint8:
		return numericFromArrow(vector.KindUint8, a.Uint8Values(), arr)
	case *array.Uint16:
		return numericFromArrow(vector.KindUint16, a.Uint16Values(), arr)
	case *array.Uint32:
		return numericFromArrow(vector.KindUint32, a.Uint32Values(), arr)
	case *array.Uint64:
		return numericFromArrow(vector.KindUint64, a.Uint64Values(), arr)
	case *array.Float32:
		return numericFromArrow(vector.KindFloat32, a.Float32Values(), arr)
	case *array.Float64:
		return numericFromArrow(vector.KindFloat64, a.Float64Values(), arr)
	case *array.Date32:
		vals := make([]int32, a.Len())
		for i := range vals {
			vals[i] = int32(a.Value(i))
		}
		return numericFromArrow(vector.KindDate32, vals, arr)
	case *array.Boolean:
		data := make([]bool, a.Len())
		for i := range data {
			data[i] = a.Value(i)
		}
		return vector.NewBoolVector(data, validityOf(arr))
	case *array.String:
		return bytesFromArrowString(a)
	case *array.Binary:
		return bytesFromArrowBinary(a)
	case *array.List:
		child := FromArrowArray(a.ListValues())
		offsets := append([]int32(nil), a.Offsets()...)
		return vector.NewListVector(offsets, child, validityOf(arr))
	default:
		// Decimals, structs, dictionaries, and every other logical type
		// without a native kernel defer to the Arrow compute fallback.
		return vector.NewArrowVector(arr)
	}
}

func numericFromArrow[T vector.Number](kind vector.Kind, values []T, arr arrow.Array) *vector.NumericVector[T] {
	data := append([]T(nil), values...)
	return vector.NewNumericVector(kind, data, validityOf(arr))
}

func bytesFromArrowString(a *array.String) *vector.BytesVector {
	n := a.Len()
	offsets := make([]int32, n+1)
	var data []byte
	for i := 0; i < n; i++ {
		if a.IsValid(i) {
			data = append(data, a.Value(i)...)
		}
		offsets[i+1] = int32(len(data))
	}
	return vector.NewBytesVector(vector.KindString, offsets, data, validityOf(a))
}

func bytesFromArrowBinary(a *array.Binary) *vector.BytesVector {
	n := a.Len()
	offsets := make([]int32, n+1)
	var data []byte
	for i := 0; i < n; i++ {
		if a.IsValid(i) {
			data = append(data, a.Value(i)...)
		}
		offsets[i+1] = int32(len(data))
	}
	return vector.NewBytesVector(vector.KindBinary, offsets, data, validityOf(a))
}

// validityOf materializes a draken Bitmap from an Arrow array's own
// validity buffer, or nil if the array has no nulls.
func validityOf(arr arrow.Array) *vector.Bitmap {
	if arr.NullN() == 0 {
		return nil
	}
	bm := vector.NewBitmap(arr.Len())
	for i := 0; i < arr.Len(); i++ {
		bm.SetBit(i, !arr.IsNull(i))
	}
	return bm
}

// ToArrowArray converts a native draken Vector (or an ArrowVector
// fallback, unwrapped directly) to an Arrow array.
func ToArrowArray(v vector.Vector) arrow.Array {
	if av, ok := v.(*vector.ArrowVector); ok {
		av.Array().Retain()
		return av.Array()
	}
	mem := memory.NewGoAllocator()
	switch nv := v.(type) {
	case *vector.NumericVector[int8]:
		return buildNumeric(mem, array.NewInt8Builder(mem), nv)
	case *vector.NumericVector[int16]:
		return buildNumeric(mem, array.NewInt16Builder(mem), nv)
	case *vector.NumericVector[int32]:
		return buildNumeric(mem, array.NewInt32Builder(mem), nv)
	case *vector.NumericVector[int64]:
		return buildNumeric(mem, array.NewInt64Builder(mem), nv)
	case *vector.NumericVector[uint8]:
		return buildNumeric(mem, array.NewUint8Builder(mem), nv)
	case *vector.NumericVector[uint16]:
		return buildNumeric(mem, array.NewUint16Builder(mem), nv)
	case *vector.NumericVector[uint32]:
		return buildNumeric(mem, array.NewUint32Builder(mem), nv)
	case *vector.NumericVector[uint64]:
		return buildNumeric(mem, array.NewUint64Builder(mem), nv)
	case *vector.NumericVector[float32]:
		return buildNumeric(mem, array.NewFloat32Builder(mem), nv)
	case *vector.NumericVector[float64]:
		return buildNumeric(mem, array.NewFloat64Builder(mem), nv)
	case *vector.BoolVector:
		b := array.NewBooleanBuilder(mem)
		for i := 0; i < nv.Len(); i++ {
			if val, ok := nv.At(i); ok {
				b.Append(val)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case *vector.BytesVector:
		return buildBytes(mem, nv)
	case *vector.ListVector:
		return buildList(mem, nv)
	default:
		panic("arrowio: unrecognized vector kind")
	}
}

type numericAppender[T vector.Number] interface {
	array.Builder
	Append(T)
}

func buildNumeric[T vector.Number](mem memory.Allocator, b numericAppender[T], nv *vector.NumericVector[T]) arrow.Array {
	for i := 0; i < nv.Len(); i++ {
		if val, ok := nv.At(i); ok {
			b.Append(val)
		} else {
			b.AppendNull()
		}
	}
	return b.NewArray()
}

func buildBytes(mem memory.Allocator, nv *vector.BytesVector) arrow.Array {
	if nv.Kind() == vector.KindBinary {
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		for i := 0; i < nv.Len(); i++ {
			if val, ok := nv.At(i); ok {
				b.Append(val)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	}
	b := array.NewStringBuilder(mem)
	for i := 0; i < nv.Len(); i++ {
		if val, ok := nv.At(i); ok {
			b.Append(string(val))
		} else {
			b.AppendNull()
		}
	}
	return b.NewArray()
}

func buildList(mem memory.Allocator, nv *vector.ListVector) arrow.Array {
	childArr := ToArrowArray(nv.Child())
	b := array.NewListBuilder(mem, childArr.DataType())
	defer b.Release()
	valueBldr := b.ValueBuilder()
	for i := 0; i < nv.Len(); i++ {
		if nv.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(true)
		start, end := nv.ElementRange(i)
		for j := start; j < end; j++ {
			appendValueAt(valueBldr, childArr, int(j))
		}
	}
	return b.NewArray()
}

// appendValueAt copies row i of src into dst via each concrete builder's
// typed Append, mirroring vector's internal Arrow-fallback dispatch.
func appendValueAt(dst array.Builder, src arrow.Array, i int) {
	if src.IsNull(i) {
		dst.AppendNull()
		return
	}
	switch b := dst.(type) {
	case *array.Int8Builder:
		b.Append(src.(*array.Int8).Value(i))
	case *array.Int16Builder:
		b.Append(src.(*array.Int16).Value(i))
	case *array.Int32Builder:
		b.Append(src.(*array.Int32).Value(i))
	case *array.Int64Builder:
		b.Append(src.(*array.Int64).Value(i))
	case *array.Uint8Builder:
		b.Append(src.(*array.Uint8).Value(i))
	case *array.Uint16Builder:
		b.Append(src.(*array.Uint16).Value(i))
	case *array.Uint32Builder:
		b.Append(src.(*array.Uint32).Value(i))
	case *array.Uint64Builder:
		b.Append(src.(*array.Uint64).Value(i))
	case *array.Float32Builder:
		b.Append(src.(*array.Float32).Value(i))
	case *array.Float64Builder:
		b.Append(src.(*array.Float64).Value(i))
	case *array.BooleanBuilder:
		b.Append(src.(*array.Boolean).Value(i))
	case *array.StringBuilder:
		b.Append(src.(*array.String).Value(i))
	case *array.BinaryBuilder:
		b.Append(src.(*array.Binary).Value(i))
	default:
		dst.AppendNull()
	}
}
