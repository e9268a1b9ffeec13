package vector

import "bytes"

// BytesVector backs both String and Binary (spec.md §3.1 calls String
// "binary-identical byte runs; UTF-8 not validated by the core", so the
// two share one representation distinguished only by Kind).
type BytesVector struct {
	kind      Kind
	offsets   []int32 // length+1 entries, offsets[0] == 0, non-decreasing
	data      []byte  // data[offsets[i]:offsets[i+1]] is row i's payload
	validity  *Bitmap
	nullCount int
}

// NewBytesVector constructs a String/Binary vector from already-packed
// offsets+data buffers (spec.md §3.1 invariants: offsets monotonic,
// offsets[0] == 0, data length == offsets[length]).
func NewBytesVector(kind Kind, offsets []int32, data []byte, validity *Bitmap) *BytesVector {
	return &BytesVector{kind: kind, offsets: offsets, data: data, validity: validity, nullCount: validity.NullCount()}
}

func (v *BytesVector) Kind() Kind        { return v.kind }
func (v *BytesVector) Len() int          { return len(v.offsets) - 1 }
func (v *BytesVector) Validity() *Bitmap { return v.validity }
func (v *BytesVector) NullCount() int    { return v.nullCount }
func (v *BytesVector) IsNull(i int) bool { return v.validity != nil && !v.validity.IsSet(i) }

// At returns the raw bytes at row i and whether it is non-null. The
// returned slice aliases the vector's backing buffer and must not be
// mutated.
func (v *BytesVector) At(i int) ([]byte, bool) {
	if v.IsNull(i) {
		return nil, false
	}
	return v.data[v.offsets[i]:v.offsets[i+1]], true
}

func (v *BytesVector) Take(indices []int32) Vector {
	offsets := make([]int32, len(indices)+1)
	var buf bytes.Buffer
	var nullAt []int
	for k, idx := range indices {
		if idx < 0 || int(idx) >= v.Len() || v.IsNull(int(idx)) {
			nullAt = append(nullAt, k)
			offsets[k+1] = offsets[k]
			continue
		}
		payload := v.data[v.offsets[idx]:v.offsets[idx+1]]
		buf.Write(payload)
		offsets[k+1] = offsets[k] + int32(len(payload))
	}
	var validity *Bitmap
	if len(nullAt) > 0 {
		validity = NewBitmap(len(indices))
		for _, k := range nullAt {
			validity.SetBit(k, false)
		}
	}
	return NewBytesVector(v.kind, offsets, buf.Bytes(), validity)
}

func (v *BytesVector) Slice(offset, length int) Vector {
	if offset+length > v.Len() {
		length = v.Len() - offset
	}
	newOffsets := make([]int32, length+1)
	base := v.offsets[offset]
	for i := 0; i <= length; i++ {
		newOffsets[i] = v.offsets[offset+i] - base
	}
	data := v.data[base:v.offsets[offset+length]]
	var validity *Bitmap
	if v.validity != nil {
		validity = v.validity.Slice(offset, length)
	}
	return NewBytesVector(v.kind, newOffsets, data, validity)
}

func (v *BytesVector) HashInto(out []uint64, offset int) {
	for i := 0; i < v.Len(); i++ {
		var h uint64
		if v.IsNull(i) {
			h = NullHash
		} else {
			payload, _ := v.At(i)
			h = hashBytes(payload)
		}
		combineHash(out, offset+i, h)
	}
}

// EqualsScalar / NotEqualsScalar implement the String/Binary scalar
// comparison kernel: a byte-identical comparison (spec.md §3.1 — String
// payloads are compared byte-for-byte, not Unicode-aware).
func (v *BytesVector) EqualsScalar(scalar []byte) BoolMask {
	out := NewBoolMask(v.Len())
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			continue
		}
		payload, _ := v.At(i)
		if bytes.Equal(payload, scalar) {
			out[i] = 1
		}
	}
	return out
}

func (v *BytesVector) NotEqualsScalar(scalar []byte) BoolMask {
	return Not(v.EqualsScalar(scalar))
}

// CompareScalar implements the ordered comparisons (lexicographic byte
// ordering) in addition to equals/not_equals above.
func (v *BytesVector) CompareScalar(op CompareOp, scalar []byte) BoolMask {
	out := NewBoolMask(v.Len())
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			continue
		}
		payload, _ := v.At(i)
		c := bytes.Compare(payload, scalar)
		if compareOrdering(op, c) {
			out[i] = 1
		}
	}
	return out
}

func CompareBytesVector(op CompareOp, a, b *BytesVector) (BoolMask, error) {
	if err := checkLengths(a.Len(), b.Len()); err != nil {
		return nil, err
	}
	out := NewBoolMask(a.Len())
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) || b.IsNull(i) {
			continue
		}
		pa, _ := a.At(i)
		pb, _ := b.At(i)
		c := bytes.Compare(pa, pb)
		if compareOrdering(op, c) {
			out[i] = 1
		}
	}
	return out, nil
}

func compareOrdering(op CompareOp, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNotEq:
		return c != 0
	case OpGt:
		return c > 0
	case OpGtEq:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLtEq:
		return c <= 0
	default:
		return false
	}
}

// IsNullMask returns is_null(vec) for String/Binary vectors, a path
// spec.md §9 flags as sometimes missing in the source and required here
// on every vector kind.
func (v *BytesVector) IsNullMask() BoolMask {
	return isNullMask(v)
}
