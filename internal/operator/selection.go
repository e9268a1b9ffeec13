package operator

import (
	"fmt"

	"draken/internal/expr"
	"draken/internal/morsel"
)

// Selection implements spec.md §4.4.1: stateless, per-morsel predicate
// filtering. Every call re-enters expr.Compile, which is what makes
// spec.md §8 scenario S6 (repeated evaluation of the same expression
// shape hits the compiled-pattern cache) observable through the
// operator layer rather than only inside internal/expr's own tests.
type Selection struct {
	base
	predicate expr.Expr
}

func NewSelection(producer Operator, predicate expr.Expr) *Selection {
	return &Selection{
		base: base{
			name:      "Selection",
			config:    fmt.Sprintf("predicate=%T", predicate),
			producers: []Operator{producer},
		},
		predicate: predicate,
	}
}

func (s *Selection) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return nil, true, nil
	}
	compiled, err := expr.Compile(s.predicate)
	if err != nil {
		return nil, false, err
	}
	val, err := compiled(in)
	if err != nil {
		return nil, false, err
	}
	mask, err := expr.AsMask(val, in.NumRows())
	if err != nil {
		return nil, false, err
	}
	out, err := in.Copy(mask.ToIndices(), nil)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, false, nil
}
