package operator

import (
	"fmt"

	"draken/internal/morsel"
)

// Limit implements spec.md §4.4.3: forwards rows until count reaches
// limit and reports EOS as soon as it does; any input fed to it after
// that is discarded.
type Limit struct {
	base
	limit     int
	forwarded int
	done      bool
}

func NewLimit(producer Operator, limit int) *Limit {
	return &Limit{
		base: base{
			name:      "Limit",
			config:    fmt.Sprintf("limit=%d", limit),
			producers: []Operator{producer},
		},
		limit: limit,
	}
}

func (l *Limit) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return nil, true, nil
	}
	if l.done || l.forwarded >= l.limit {
		l.done = true
		return nil, true, nil
	}
	remaining := l.limit - l.forwarded
	if in.NumRows() <= remaining {
		l.forwarded += in.NumRows()
		return []*morsel.Morsel{in}, l.forwarded >= l.limit, nil
	}
	indices := make([]int32, remaining)
	for i := range indices {
		indices[i] = int32(i)
	}
	out, err := in.Copy(indices, nil)
	if err != nil {
		return nil, false, err
	}
	l.forwarded = l.limit
	l.done = true
	return []*morsel.Morsel{out}, true, nil
}

// Offset implements spec.md §4.4.3: skips the first offset rows across
// however many morsels they span, then forwards everything after.
type Offset struct {
	base
	offset  int
	skipped int
}

func NewOffset(producer Operator, offset int) *Offset {
	return &Offset{
		base: base{
			name:      "Offset",
			config:    fmt.Sprintf("offset=%d", offset),
			producers: []Operator{producer},
		},
		offset: offset,
	}
}

func (o *Offset) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return nil, true, nil
	}
	if o.skipped >= o.offset {
		return []*morsel.Morsel{in}, false, nil
	}
	toSkip := o.offset - o.skipped
	if in.NumRows() <= toSkip {
		o.skipped += in.NumRows()
		return nil, false, nil
	}
	indices := make([]int32, in.NumRows()-toSkip)
	for i := range indices {
		indices[i] = int32(toSkip + i)
	}
	o.skipped = o.offset
	out, err := in.Copy(indices, nil)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, false, nil
}
