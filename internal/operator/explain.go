package operator

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"draken/internal/expr"
	"draken/internal/morsel"
	"draken/internal/vector"
)

// Explain implements spec.md §4.4.12: reports the operator DAG beneath
// it as a single descriptive row, tagged with a per-run id so repeated
// EXPLAINs of the same plan in a session can be told apart, plus the
// expression-cache hit/miss counters (spec.md §8 S6) observed so far
// and a human-readable row count for whatever flowed through it.
type Explain struct {
	base
	rows int64
}

func NewExplain(producer Operator) *Explain {
	return &Explain{
		base: base{
			name:      "Explain",
			config:    "",
			producers: []Operator{producer},
		},
	}
}

func (e *Explain) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	if in != nil {
		e.rows += int64(in.NumRows())
		return nil, false, nil
	}

	plan := Describe(e.producers[0])
	hits, misses := expr.Stats()
	runID := uuid.New().String()
	summary := "run=" + runID + "\n" + plan +
		"\nrows=" + humanize.Comma(e.rows) +
		" cache_hits=" + humanize.Comma(int64(hits)) +
		" cache_misses=" + humanize.Comma(int64(misses))

	out, err := morsel.New(
		[]string{"plan"},
		[]vector.Vector{vector.NewBytesVector(vector.KindString, []int32{0, int32(len(summary))}, []byte(summary), nil)},
	)
	if err != nil {
		return nil, true, err
	}
	return []*morsel.Morsel{out}, true, nil
}

// Describe renders an operator and its producers as an indented tree,
// the plan text format spec.md §6 calls operators exposing
// Name()/Config()/Producers() for. Exported so callers (Explain itself,
// cmd/draken's -explain flag) can render a plan without driving it.
func Describe(op Operator) string {
	return describe(op, 0)
}

func describe(op Operator, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(op.Name())
	if cfg := op.Config(); cfg != "" {
		b.WriteString(" ")
		b.WriteString(cfg)
	}
	for _, p := range op.Producers() {
		b.WriteString("\n")
		b.WriteString(describe(p, depth+1))
	}
	return b.String()
}
