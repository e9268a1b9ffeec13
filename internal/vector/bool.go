package vector

// BoolVector is a bit-packed boolean column (distinct from BoolMask,
// which is the dense byte-per-row predicate result type used by the
// evaluator).
type BoolVector struct {
	data      *Bitmap
	validity  *Bitmap
	length    int
	nullCount int
}

// NewBoolVector builds a BoolVector from a dense []bool and an optional
// validity bitmap.
func NewBoolVector(data []bool, validity *Bitmap) *BoolVector {
	bits := NewBitmap(len(data))
	for i, v := range data {
		bits.SetBit(i, v)
	}
	return &BoolVector{data: bits, validity: validity, length: len(data), nullCount: validity.NullCount()}
}

func (v *BoolVector) Kind() Kind        { return KindBool }
func (v *BoolVector) Len() int          { return v.length }
func (v *BoolVector) Validity() *Bitmap { return v.validity }
func (v *BoolVector) NullCount() int    { return v.nullCount }
func (v *BoolVector) IsNull(i int) bool { return v.validity != nil && !v.validity.IsSet(i) }

// At returns the boolean value at row i and whether it is non-null.
func (v *BoolVector) At(i int) (bool, bool) {
	if v.IsNull(i) {
		return false, false
	}
	return v.data.IsSet(i), true
}

func (v *BoolVector) Take(indices []int32) Vector {
	out := make([]bool, len(indices))
	var nullAt []int
	for k, idx := range indices {
		if idx < 0 || int(idx) >= v.length || v.IsNull(int(idx)) {
			nullAt = append(nullAt, k)
			continue
		}
		out[k] = v.data.IsSet(int(idx))
	}
	var validity *Bitmap
	if len(nullAt) > 0 {
		validity = NewBitmap(len(indices))
		for _, k := range nullAt {
			validity.SetBit(k, false)
		}
	}
	return NewBoolVector(out, validity)
}

func (v *BoolVector) Slice(offset, length int) Vector {
	if offset+length > v.length {
		length = v.length - offset
	}
	out := make([]bool, length)
	for i := 0; i < length; i++ {
		out[i] = v.data.IsSet(offset + i)
	}
	var validity *Bitmap
	if v.validity != nil {
		validity = v.validity.Slice(offset, length)
	}
	return NewBoolVector(out, validity)
}

func (v *BoolVector) HashInto(out []uint64, offset int) {
	for i := 0; i < v.length; i++ {
		var h uint64
		if v.IsNull(i) {
			h = NullHash
		} else if v.data.IsSet(i) {
			h = hashBytes([]byte{1})
		} else {
			h = hashBytes([]byte{0})
		}
		combineHash(out, offset+i, h)
	}
}

// Not inverts every non-null value, leaving nulls unchanged
// (spec.md §4.1 unary `not`).
func (v *BoolVector) Not() *BoolVector {
	out := make([]bool, v.length)
	for i := 0; i < v.length; i++ {
		if !v.IsNull(i) {
			out[i] = !v.data.IsSet(i)
		}
	}
	return NewBoolVector(out, v.validity)
}

// IsNullMask returns is_null(vec) as a BoolMask, required on every
// vector kind per spec.md §9.
func (v *BoolVector) IsNullMask() BoolMask {
	return isNullMask(v)
}

// ToMask converts a BoolVector to a dense BoolMask (nulls become 0).
func (v *BoolVector) ToMask() BoolMask {
	out := NewBoolMask(v.length)
	for i := 0; i < v.length; i++ {
		if !v.IsNull(i) && v.data.IsSet(i) {
			out[i] = 1
		}
	}
	return out
}

// isNullMask is shared by every vector kind's IsNull-as-mask helper.
func isNullMask(v Vector) BoolMask {
	out := NewBoolMask(v.Len())
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			out[i] = 1
		}
	}
	return out
}
