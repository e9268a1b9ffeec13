package operator

import (
	"fmt"
	"strings"

	"draken/internal/aggregate"
	"draken/internal/morsel"
)

// Aggregate implements spec.md §4.4.6: a blocking group-by/aggregate
// operator. It buffers every input morsel and, on EOS, concatenates
// them and hands the whole table to internal/aggregate.Group (C6),
// which performs the actual group-hash and per-group reduction (spec.md
// §4.6). groupCols empty means a single scalar aggregate over all rows.
type Aggregate struct {
	base
	groupCols []string
	specs     []aggregate.Spec
	buffered  []*morsel.Morsel
}

func NewAggregate(producer Operator, groupCols []string, specs []aggregate.Spec) *Aggregate {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = fmt.Sprintf("%s(%s)", s.Func, s.Column)
	}
	return &Aggregate{
		base: base{
			name:      "Aggregate",
			config:    fmt.Sprintf("group=[%s] aggs=[%s]", strings.Join(groupCols, ","), strings.Join(names, ",")),
			producers: []Operator{producer},
		},
		groupCols: groupCols,
		specs:     specs,
	}
}

func (a *Aggregate) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in != nil {
		a.buffered = append(a.buffered, in)
		return nil, false, nil
	}
	whole, err := morsel.Concat(a.buffered)
	if err != nil {
		return nil, false, err
	}
	out, err := aggregate.Group(whole, a.groupCols, a.specs)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, true, nil
}
