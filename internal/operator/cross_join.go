package operator

import (
	"draken/internal/join"
	"draken/internal/morsel"
)

// CrossJoin implements spec.md §4.4.9: a blocking two-leg cartesian
// product, delegating the chunked row-pair generation to join.CrossJoin
// once both legs have buffered to EOS.
type CrossJoin struct {
	base

	leftBuf, rightBuf []*morsel.Morsel
	leftEOS, rightEOS bool
}

func NewCrossJoin(leftProducer, rightProducer Operator) *CrossJoin {
	return &CrossJoin{
		base: base{
			name:      "CrossJoin",
			config:    "",
			producers: []Operator{leftProducer, rightProducer},
		},
	}
}

func (c *CrossJoin) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	switch leg {
	case LegLeft, LegBuild:
		if in == nil {
			c.leftEOS = true
		} else {
			c.leftBuf = append(c.leftBuf, in)
		}
	case LegRight, LegProbe:
		if in == nil {
			c.rightEOS = true
		} else {
			c.rightBuf = append(c.rightBuf, in)
		}
	}
	if !c.leftEOS || !c.rightEOS {
		return nil, false, nil
	}
	left, err := morsel.Concat(c.leftBuf)
	if err != nil {
		return nil, false, err
	}
	right, err := morsel.Concat(c.rightBuf)
	if err != nil {
		return nil, false, err
	}
	out, err := join.CrossJoin(left, right)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
