package operator

import (
	"fmt"
	"strings"

	"draken/internal/morsel"
)

// Distinct implements spec.md §4.4.4 in its streaming form: a running
// hash set of row keys (over the given column subset, or every column
// when cols is empty) lets it forward first-occurrence rows morsel by
// morsel rather than blocking on EOS.
type Distinct struct {
	base
	cols []string
	seen map[uint64]struct{}
}

func NewDistinct(producer Operator, cols []string) *Distinct {
	label := "*"
	if len(cols) > 0 {
		label = strings.Join(cols, ",")
	}
	return &Distinct{
		base: base{
			name:      "Distinct",
			config:    fmt.Sprintf("cols=[%s]", label),
			producers: []Operator{producer},
		},
		cols: cols,
		seen: map[uint64]struct{}{},
	}
}

func (d *Distinct) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return nil, true, nil
	}
	hashes, err := in.Hash(d.cols...)
	if err != nil {
		return nil, false, err
	}
	var keep []int32
	for i, h := range hashes {
		if _, dup := d.seen[h]; dup {
			continue
		}
		d.seen[h] = struct{}{}
		keep = append(keep, int32(i))
	}
	if len(keep) == 0 {
		return nil, false, nil
	}
	out, err := in.Copy(keep, nil)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, false, nil
}
