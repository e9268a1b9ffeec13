// Package operator implements draken's pull-based physical-operator
// pipeline (spec.md §4.4/§6): every operator consumes morsels on one or
// more named "legs" and produces zero or more morsels, until the leg
// signals end-of-stream, at which point blocking operators materialize
// their buffered input and emit.
//
// Grounded on original_source/opteryx/engine/planner/operations/*.py,
// one file per operator (selection_node.py, projection_node.py,
// limit_node.py, offset_node.py, distinct_node.py, sort_node.py,
// aggregate_node.py, inner_join_node.py/outer_join_node.py/
// join_node.py/cross_join_node.py, show_columns.py, explain_node.py).
// The execute(morsel, leg) -> morsels | EOS contract is spec.md's own,
// not something invented here; this package supplies the missing piece
// those single-shot internal/join and internal/aggregate kernels don't
// have on their own: morsel buffering across repeated calls and
// per-leg EOS detection.
package operator

import "draken/internal/morsel"

// Leg names an operator's input side. Single-input operators only ever
// see LegDefault; join-shaped operators use the build/probe or
// left/right pair the planner assigned.
type Leg string

const (
	LegDefault Leg = "default"
	LegLeft    Leg = "left"
	LegRight   Leg = "right"
	LegBuild   Leg = "build"
	LegProbe   Leg = "probe"
)

// Operator is the contract every physical operator in the pipeline
// implements (spec.md §4.4/§6).
//
// Execute feeds one morsel on the given leg. A nil in is the EOS
// sentinel for that leg — spec.md §6's "execute(EOS, leg)" — and the
// caller guarantees it arrives at most once, after every data morsel on
// that leg. Execute returns the morsels the operator can produce in
// response (possibly none), and whether the operator itself has now
// reached end-of-stream: once true, the operator will never again
// return a non-empty morsel slice and the caller should stop driving it.
type Operator interface {
	Execute(in *morsel.Morsel, leg Leg) (out []*morsel.Morsel, eos bool, err error)
	Name() string
	Config() string
	Producers() []Operator
}

// base is embedded by every concrete operator to supply the Name/
// Config/Producers boilerplate spec.md §6 requires for EXPLAIN/plans.
type base struct {
	name      string
	config    string
	producers []Operator
}

func (b *base) Name() string          { return b.name }
func (b *base) Config() string        { return b.config }
func (b *base) Producers() []Operator { return b.producers }
