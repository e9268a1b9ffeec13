package operator

import (
	"fmt"

	"draken/internal/expr"
	"draken/internal/join"
	"draken/internal/morsel"
)

// NonEquiJoin implements spec.md §4.4.8: a blocking two-leg nested-loop
// join driven by an arbitrary predicate rather than an equality key,
// buffering both legs in full before delegating to join.NonEquiJoin.
type NonEquiJoin struct {
	base
	predicate expr.Expr

	leftBuf, rightBuf []*morsel.Morsel
	leftEOS, rightEOS bool
}

func NewNonEquiJoin(leftProducer, rightProducer Operator, predicate expr.Expr) *NonEquiJoin {
	return &NonEquiJoin{
		base: base{
			name:      "NonEquiJoin",
			config:    fmt.Sprintf("predicate=%T", predicate),
			producers: []Operator{leftProducer, rightProducer},
		},
		predicate: predicate,
	}
}

func (n *NonEquiJoin) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	switch leg {
	case LegLeft, LegBuild:
		if in == nil {
			n.leftEOS = true
		} else {
			n.leftBuf = append(n.leftBuf, in)
		}
	case LegRight, LegProbe:
		if in == nil {
			n.rightEOS = true
		} else {
			n.rightBuf = append(n.rightBuf, in)
		}
	}
	if !n.leftEOS || !n.rightEOS {
		return nil, false, nil
	}
	left, err := morsel.Concat(n.leftBuf)
	if err != nil {
		return nil, false, err
	}
	right, err := morsel.Concat(n.rightBuf)
	if err != nil {
		return nil, false, err
	}
	out, err := join.NonEquiJoin(left, right, n.predicate)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, true, nil
}
