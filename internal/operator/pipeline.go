package operator

import "draken/internal/morsel"

// Source is the upstream of the first operator in a pipeline — spec.md
// §6's "storage/decoder contract": the only in-contract behavior is
// emitting morsels of a fixed schema, then EOS. Next returns (nil, nil)
// to signal EOS; a true error is a read failure, not end-of-stream.
type Source interface {
	Next() (*morsel.Morsel, error)
}

// SliceSource is a Source over an in-memory list of morsels, used to
// drive a pipeline from literal test/demo data (spec.md §8's S1-S6
// scenarios are all expressed this way).
type SliceSource struct {
	morsels []*morsel.Morsel
	idx     int
}

func NewSliceSource(morsels ...*morsel.Morsel) *SliceSource {
	return &SliceSource{morsels: morsels}
}

func (s *SliceSource) Next() (*morsel.Morsel, error) {
	if s.idx >= len(s.morsels) {
		return nil, nil
	}
	m := s.morsels[s.idx]
	s.idx++
	return m, nil
}

// Run drives a single-leg operator chain from src to completion, feeding
// every morsel (then the EOS sentinel) on leg, and collects every
// morsel the operator produced in response. This is the pull-based
// driver spec.md §5 describes as "pull-driven by the sink, which
// requests one morsel at a time from its immediate producer" — Run
// plays the sink's role for a linear chain.
func Run(op Operator, src Source, leg Leg) ([]*morsel.Morsel, error) {
	var out []*morsel.Morsel
	for {
		m, err := src.Next()
		if err != nil {
			return nil, err
		}
		produced, eos, err := op.Execute(m, leg)
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
		if m == nil || eos {
			return out, nil
		}
	}
}

// RunBinary drives a two-leg operator (a hash, non-equi or cross join)
// by fully draining buildSrc on buildLeg first —
// spec.md §4.5's build-before-probe ordering — then draining probeSrc
// on probeLeg, collecting every morsel produced across both drains.
func RunBinary(op Operator, buildSrc, probeSrc Source, buildLeg, probeLeg Leg) ([]*morsel.Morsel, error) {
	var out []*morsel.Morsel
	for {
		m, err := buildSrc.Next()
		if err != nil {
			return nil, err
		}
		produced, _, err := op.Execute(m, buildLeg)
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
		if m == nil {
			break
		}
	}
	for {
		m, err := probeSrc.Next()
		if err != nil {
			return nil, err
		}
		produced, eos, err := op.Execute(m, probeLeg)
		if err != nil {
			return nil, err
		}
		out = append(out, produced...)
		if m == nil || eos {
			break
		}
	}
	return out, nil
}
