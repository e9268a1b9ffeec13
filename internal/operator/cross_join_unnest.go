package operator

import (
	"fmt"

	"draken/internal/join"
	"draken/internal/morsel"
)

// UnnestMode selects between the two documented Cross-Join-Unnest
// behaviors for a null or empty list element (spec.md §4.4.10): Left
// emits one row with a null unnested value, Inner drops the row
// entirely. join.CrossJoinUnnest only implements the Left reference
// behavior; Inner is a post-filter over that result at this layer.
type UnnestMode int

const (
	UnnestLeft UnnestMode = iota
	UnnestInner
)

// CrossJoinUnnest implements spec.md §4.4.10: stateless, per-morsel,
// unary — each input morsel unnests independently of the others.
type CrossJoinUnnest struct {
	base
	column, alias string
	mode          UnnestMode
}

func NewCrossJoinUnnest(producer Operator, column, alias string, mode UnnestMode) *CrossJoinUnnest {
	return &CrossJoinUnnest{
		base: base{
			name:      "CrossJoinUnnest",
			config:    fmt.Sprintf("column=%s alias=%s mode=%d", column, alias, mode),
			producers: []Operator{producer},
		},
		column: column,
		alias:  alias,
		mode:   mode,
	}
}

func (c *CrossJoinUnnest) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in == nil {
		return nil, true, nil
	}
	out, err := join.CrossJoinUnnest(in, c.column, c.alias)
	if err != nil {
		return nil, false, err
	}
	if c.mode == UnnestLeft {
		return []*morsel.Morsel{out}, false, nil
	}
	aliasVec, err := out.Column(c.alias)
	if err != nil {
		return nil, false, err
	}
	var keep []int32
	for i := 0; i < out.NumRows(); i++ {
		if !aliasVec.IsNull(i) {
			keep = append(keep, int32(i))
		}
	}
	if len(keep) == 0 {
		return nil, false, nil
	}
	filtered, err := out.Copy(keep, nil)
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{filtered}, false, nil
}
