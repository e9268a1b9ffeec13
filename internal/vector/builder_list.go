package vector

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"draken/internal/errors"
)

// ListBuilder accumulates a ListVector row-by-row; each row is appended
// as a fully-built child slice, mirroring the other builders' strict/
// growable split.
type ListBuilder struct {
	kind     Kind
	offsets  []int32
	pending  []Vector // one child vector per appended row, flattened at Finish
	nullMask []bool
	anyNull  bool
	strict   bool
	wantRows int
	finished bool
	result   *ListVector
}

// NewListBuilderWithEstimate is the growable constructor. elemKind is the
// child vector's Kind, used to produce a correctly-typed empty child if
// every appended row turns out to be null.
func NewListBuilderWithEstimate(elemKind Kind, nRows int) *ListBuilder {
	return &ListBuilder{kind: elemKind, offsets: make([]int32, 1, nRows+1)}
}

// NewListBuilderWithCounts is the strict constructor: Finish fails
// unless exactly wantRows rows were appended.
func NewListBuilderWithCounts(elemKind Kind, nRows int) *ListBuilder {
	return &ListBuilder{kind: elemKind, offsets: make([]int32, 1, nRows+1), strict: true, wantRows: nRows}
}

func (b *ListBuilder) Len() int { return len(b.offsets) - 1 }

// Append adds one list row whose elements are the rows of elems.
func (b *ListBuilder) Append(elems Vector) error {
	if b.finished {
		return errors.InvalidStateErr("builder used after finish")
	}
	if b.strict && b.Len() >= b.wantRows {
		return errors.CapacityExceededErr(b.wantRows, b.Len()+1)
	}
	b.pending = append(b.pending, elems)
	b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1]+int32(elems.Len()))
	if b.nullMask != nil {
		b.nullMask = append(b.nullMask, false)
	}
	return nil
}

func (b *ListBuilder) AppendNull() error {
	if b.finished {
		return errors.InvalidStateErr("builder used after finish")
	}
	if b.strict && b.Len() >= b.wantRows {
		return errors.CapacityExceededErr(b.wantRows, b.Len()+1)
	}
	b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1])
	if b.nullMask == nil {
		b.nullMask = make([]bool, b.Len()-1)
	}
	b.nullMask = append(b.nullMask, true)
	b.anyNull = true
	return nil
}

func (b *ListBuilder) Finish() (*ListVector, error) {
	if b.finished {
		return b.result, nil
	}
	if b.strict && b.Len() != b.wantRows {
		return nil, errors.CapacityExceededErr(b.wantRows, b.Len())
	}
	child := concatAll(b.kind, b.pending)
	var validity *Bitmap
	if b.anyNull {
		validity = NewBitmap(b.Len())
		for i, null := range b.nullMask {
			validity.SetBit(i, !null)
		}
	}
	b.result = NewListVector(b.offsets, child, validity)
	b.finished = true
	return b.result, nil
}

// concatAll flattens a sequence of same-Kind child vectors (one per list
// row) into a single child vector, dispatching on the closed Kind set the
// same way appendArrowValue dispatches Arrow builders.
func concatAll(kind Kind, parts []Vector) Vector {
	if len(parts) == 0 {
		return emptyVectorOf(kind)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = concatTwo(kind, out, p)
	}
	return out
}

func concatTwo(kind Kind, a, b Vector) Vector {
	switch kind {
	case KindInt8:
		return concatNumeric(a.(*NumericVector[int8]), b.(*NumericVector[int8]))
	case KindInt16:
		return concatNumeric(a.(*NumericVector[int16]), b.(*NumericVector[int16]))
	case KindInt32, KindDate32, KindTime32:
		return concatNumeric(a.(*NumericVector[int32]), b.(*NumericVector[int32]))
	case KindInt64, KindTimestamp64, KindTime64, KindInterval:
		return concatNumeric(a.(*NumericVector[int64]), b.(*NumericVector[int64]))
	case KindUint8:
		return concatNumeric(a.(*NumericVector[uint8]), b.(*NumericVector[uint8]))
	case KindUint16:
		return concatNumeric(a.(*NumericVector[uint16]), b.(*NumericVector[uint16]))
	case KindUint32:
		return concatNumeric(a.(*NumericVector[uint32]), b.(*NumericVector[uint32]))
	case KindUint64:
		return concatNumeric(a.(*NumericVector[uint64]), b.(*NumericVector[uint64]))
	case KindFloat32:
		return concatNumeric(a.(*NumericVector[float32]), b.(*NumericVector[float32]))
	case KindFloat64:
		return concatNumeric(a.(*NumericVector[float64]), b.(*NumericVector[float64]))
	case KindBool:
		return concatBool(a.(*BoolVector), b.(*BoolVector))
	case KindString, KindBinary:
		return concatBytes(a.(*BytesVector), b.(*BytesVector))
	case KindList:
		return concatList(a.(*ListVector), b.(*ListVector))
	case KindArrow:
		return concatArrow(a.(*ArrowVector), b.(*ArrowVector))
	default:
		return a
	}
}

func concatNumeric[T Number](a, b *NumericVector[T]) *NumericVector[T] {
	data := make([]T, 0, a.Len()+b.Len())
	data = append(data, a.data...)
	data = append(data, b.data...)
	var validity *Bitmap
	if a.validity != nil || b.validity != nil {
		validity = NewBitmap(len(data))
		for i := 0; i < a.Len(); i++ {
			validity.SetBit(i, !a.IsNull(i))
		}
		for i := 0; i < b.Len(); i++ {
			validity.SetBit(a.Len()+i, !b.IsNull(i))
		}
	}
	return NewNumericVector(a.kind, data, validity)
}

func concatBool(a, b *BoolVector) *BoolVector {
	data := make([]bool, 0, a.length+b.length)
	for i := 0; i < a.length; i++ {
		v, _ := a.At(i)
		data = append(data, v)
	}
	for i := 0; i < b.length; i++ {
		v, _ := b.At(i)
		data = append(data, v)
	}
	var validity *Bitmap
	if a.validity != nil || b.validity != nil {
		validity = NewBitmap(len(data))
		for i := 0; i < a.length; i++ {
			validity.SetBit(i, !a.IsNull(i))
		}
		for i := 0; i < b.length; i++ {
			validity.SetBit(a.length+i, !b.IsNull(i))
		}
	}
	return NewBoolVector(data, validity)
}

func concatBytes(a, b *BytesVector) *BytesVector {
	offsets := make([]int32, 0, a.Len()+b.Len()+1)
	offsets = append(offsets, 0)
	data := make([]byte, 0, len(a.data)+len(b.data))
	for i := 0; i < a.Len(); i++ {
		if payload, ok := a.At(i); ok {
			data = append(data, payload...)
		}
		offsets = append(offsets, int32(len(data)))
	}
	for i := 0; i < b.Len(); i++ {
		if payload, ok := b.At(i); ok {
			data = append(data, payload...)
		}
		offsets = append(offsets, int32(len(data)))
	}
	var validity *Bitmap
	if a.validity != nil || b.validity != nil {
		validity = NewBitmap(a.Len() + b.Len())
		for i := 0; i < a.Len(); i++ {
			validity.SetBit(i, !a.IsNull(i))
		}
		for i := 0; i < b.Len(); i++ {
			validity.SetBit(a.Len()+i, !b.IsNull(i))
		}
	}
	return NewBytesVector(a.kind, offsets, data, validity)
}

func concatList(a, b *ListVector) *ListVector {
	offsets := make([]int32, 0, a.Len()+b.Len()+1)
	offsets = append(offsets, 0)
	for i := 0; i < a.Len(); i++ {
		s, e := a.ElementRange(i)
		offsets = append(offsets, offsets[len(offsets)-1]+(e-s))
	}
	for i := 0; i < b.Len(); i++ {
		s, e := b.ElementRange(i)
		offsets = append(offsets, offsets[len(offsets)-1]+(e-s))
	}
	child := concatTwo(a.child.Kind(), a.child, b.child)
	var validity *Bitmap
	if a.validity != nil || b.validity != nil {
		validity = NewBitmap(a.Len() + b.Len())
		for i := 0; i < a.Len(); i++ {
			validity.SetBit(i, !a.IsNull(i))
		}
		for i := 0; i < b.Len(); i++ {
			validity.SetBit(a.Len()+i, !b.IsNull(i))
		}
	}
	return NewListVector(offsets, child, validity)
}

func concatArrow(a, b *ArrowVector) *ArrowVector {
	mem := memory.NewGoAllocator()
	out, err := array.Concatenate([]arrow.Array{a.arr, b.arr}, mem)
	if err != nil {
		return a
	}
	return NewArrowVector(out)
}

// emptyVectorOf returns a zero-length vector of the given kind, used
// when a ListBuilder finishes having appended zero rows.
func emptyVectorOf(kind Kind) Vector {
	switch kind {
	case KindInt8:
		return NewNumericVector(kind, []int8{}, nil)
	case KindInt16:
		return NewNumericVector(kind, []int16{}, nil)
	case KindInt32, KindDate32, KindTime32:
		return NewNumericVector(kind, []int32{}, nil)
	case KindInt64, KindTimestamp64, KindTime64, KindInterval:
		return NewNumericVector(kind, []int64{}, nil)
	case KindUint8:
		return NewNumericVector(kind, []uint8{}, nil)
	case KindUint16:
		return NewNumericVector(kind, []uint16{}, nil)
	case KindUint32:
		return NewNumericVector(kind, []uint32{}, nil)
	case KindUint64:
		return NewNumericVector(kind, []uint64{}, nil)
	case KindFloat32:
		return NewNumericVector(kind, []float32{}, nil)
	case KindFloat64:
		return NewNumericVector(kind, []float64{}, nil)
	case KindBool:
		return NewBoolVector(nil, nil)
	case KindString, KindBinary:
		return NewBytesVector(kind, []int32{0}, nil, nil)
	default:
		return NewBoolVector(nil, nil)
	}
}
