package vector

import (
	"bytes"

	"draken/internal/errors"
)

// BytesBuilder accumulates a String/Binary vector.
type BytesBuilder struct {
	kind       Kind
	offsets    []int32
	data       bytes.Buffer
	nullMask   []bool
	anyNull    bool
	strict     bool
	wantRows   int
	wantBytes  int
	checkBytes bool
	finished   bool
	result     *BytesVector
}

// NewBytesBuilderWithEstimate is the growable constructor.
func NewBytesBuilderWithEstimate(kind Kind, nRows, bytesPerRow int) *BytesBuilder {
	b := &BytesBuilder{kind: kind, offsets: make([]int32, 1, nRows+1)}
	b.data.Grow(nRows * bytesPerRow)
	return b
}

// NewBytesBuilderWithCounts is the strict constructor: Finish fails
// unless exactly wantRows values were appended totalling exactBytes.
func NewBytesBuilderWithCounts(kind Kind, nRows, exactBytes int) *BytesBuilder {
	b := &BytesBuilder{kind: kind, offsets: make([]int32, 1, nRows+1), strict: true, wantRows: nRows, wantBytes: exactBytes, checkBytes: true}
	b.data.Grow(exactBytes)
	return b
}

func (b *BytesBuilder) Len() int { return len(b.offsets) - 1 }

func (b *BytesBuilder) Append(payload []byte) error {
	if b.finished {
		return errors.InvalidStateErr("builder used after finish")
	}
	if b.strict && b.Len() >= b.wantRows {
		return errors.CapacityExceededErr(b.wantRows, b.Len()+1)
	}
	b.data.Write(payload)
	b.offsets = append(b.offsets, int32(b.data.Len()))
	if b.nullMask != nil {
		b.nullMask = append(b.nullMask, false)
	}
	return nil
}

func (b *BytesBuilder) AppendNull() error {
	if b.finished {
		return errors.InvalidStateErr("builder used after finish")
	}
	if b.strict && b.Len() >= b.wantRows {
		return errors.CapacityExceededErr(b.wantRows, b.Len()+1)
	}
	b.offsets = append(b.offsets, int32(b.data.Len()))
	if b.nullMask == nil {
		b.nullMask = make([]bool, b.Len()-1)
	}
	b.nullMask = append(b.nullMask, true)
	b.anyNull = true
	return nil
}

func (b *BytesBuilder) Finish() (*BytesVector, error) {
	if b.finished {
		return b.result, nil
	}
	if b.strict {
		if b.Len() != b.wantRows {
			return nil, errors.CapacityExceededErr(b.wantRows, b.Len())
		}
		if b.checkBytes && b.data.Len() != b.wantBytes {
			return nil, errors.CapacityExceededErr(b.wantBytes, b.data.Len())
		}
	}
	var validity *Bitmap
	if b.anyNull {
		validity = NewBitmap(b.Len())
		for i, null := range b.nullMask {
			validity.SetBit(i, !null)
		}
	}
	b.result = NewBytesVector(b.kind, b.offsets, b.data.Bytes(), validity)
	b.finished = true
	return b.result, nil
}
