package vector

// ListVector is a one-level nested vector: offsets over a child Vector
// (spec.md §3.1). Used by cross-join-unnest (C5/C4.4.10).
type ListVector struct {
	offsets   []int32
	child     Vector
	validity  *Bitmap
	nullCount int
}

// NewListVector constructs a List<T> vector from offsets and a child
// vector (offsets[i]:offsets[i+1] selects child rows for list row i).
func NewListVector(offsets []int32, child Vector, validity *Bitmap) *ListVector {
	return &ListVector{offsets: offsets, child: child, validity: validity, nullCount: validity.NullCount()}
}

func (v *ListVector) Kind() Kind        { return KindList }
func (v *ListVector) Len() int          { return len(v.offsets) - 1 }
func (v *ListVector) Validity() *Bitmap { return v.validity }
func (v *ListVector) NullCount() int    { return v.nullCount }
func (v *ListVector) IsNull(i int) bool { return v.validity != nil && !v.validity.IsSet(i) }

// Child exposes the flattened child vector backing every list row.
func (v *ListVector) Child() Vector { return v.child }

// ElementRange returns the [start, end) child-vector range for list row
// i. A null row has start == end. This is the primitive
// cross-join-unnest (spec.md §4.4.10) is built on.
func (v *ListVector) ElementRange(i int) (start, end int32) {
	if v.IsNull(i) {
		return v.offsets[i], v.offsets[i]
	}
	return v.offsets[i], v.offsets[i+1]
}

func (v *ListVector) Take(indices []int32) Vector {
	newOffsets := make([]int32, len(indices)+1)
	var childIdx []int32
	var nullAt []int
	for k, idx := range indices {
		if idx < 0 || int(idx) >= v.Len() || v.IsNull(int(idx)) {
			nullAt = append(nullAt, k)
			newOffsets[k+1] = newOffsets[k]
			continue
		}
		start, end := v.ElementRange(int(idx))
		for j := start; j < end; j++ {
			childIdx = append(childIdx, j)
		}
		newOffsets[k+1] = newOffsets[k] + (end - start)
	}
	var validity *Bitmap
	if len(nullAt) > 0 {
		validity = NewBitmap(len(indices))
		for _, k := range nullAt {
			validity.SetBit(k, false)
		}
	}
	newChild := v.child.Take(childIdx)
	return NewListVector(newOffsets, newChild, validity)
}

func (v *ListVector) Slice(offset, length int) Vector {
	if offset+length > v.Len() {
		length = v.Len() - offset
	}
	newOffsets := make([]int32, length+1)
	base := v.offsets[offset]
	for i := 0; i <= length; i++ {
		newOffsets[i] = v.offsets[offset+i] - base
	}
	child := v.child.Slice(int(base), int(v.offsets[offset+length]-base))
	var validity *Bitmap
	if v.validity != nil {
		validity = v.validity.Slice(offset, length)
	}
	return NewListVector(newOffsets, child, validity)
}

func (v *ListVector) HashInto(out []uint64, offset int) {
	// Fold the list's element hashes, in order, into one value; this
	// is sufficient for the group/distinct/join use cases in this core,
	// none of which key on List-typed columns directly.
	for i := 0; i < v.Len(); i++ {
		if v.IsNull(i) {
			combineHash(out, offset+i, NullHash)
			continue
		}
		start, end := v.ElementRange(i)
		childHash := make([]uint64, 1)
		for j := start; j < end; j++ {
			v.child.Slice(int(j), 1).HashInto(childHash, 0)
		}
		combineHash(out, offset+i, childHash[0])
	}
}
