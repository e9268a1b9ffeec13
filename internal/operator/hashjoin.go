package operator

import (
	"fmt"
	"strings"

	"draken/internal/join"
	"draken/internal/morsel"
)

// OuterMode selects which outer-join variant HashJoin runs, mirroring
// spec.md §4.5's inner/left/right/full taxonomy.
type OuterMode int

const (
	JoinInner OuterMode = iota
	JoinLeft
	JoinRight
	JoinFull
)

// HashJoin implements spec.md §4.4.7 (inner) and §4.5's outer variants:
// a blocking two-leg operator. Both the build leg and the probe leg are
// buffered in full across repeated Execute calls (join.HashOuterJoin's
// unmatched-build sweep has no cross-call state of its own, so it must
// run exactly once over the complete build and probe sides); once both
// legs have reached EOS the concatenated sides are joined in a single
// shot and the result emitted with eos=true.
type HashJoin struct {
	base
	buildKeys, probeKeys []string
	mode                 OuterMode
	nullMode             join.NullMode

	buildBuf           []*morsel.Morsel
	probeBuf           []*morsel.Morsel
	buildEOS, probeEOS bool
}

func NewHashJoin(buildProducer, probeProducer Operator, buildKeys, probeKeys []string, mode OuterMode, nullMode join.NullMode) *HashJoin {
	return &HashJoin{
		base: base{
			name:      "HashJoin",
			config:    fmt.Sprintf("build=[%s] probe=[%s] mode=%d", strings.Join(buildKeys, ","), strings.Join(probeKeys, ","), mode),
			producers: []Operator{buildProducer, probeProducer},
		},
		buildKeys: buildKeys,
		probeKeys: probeKeys,
		mode:      mode,
		nullMode:  nullMode,
	}
}

func (h *HashJoin) Execute(in *morsel.Morsel, leg Leg) ([]*morsel.Morsel, bool, error) {
	switch leg {
	case LegBuild, LegLeft:
		if in == nil {
			h.buildEOS = true
		} else {
			h.buildBuf = append(h.buildBuf, in)
		}
	case LegProbe, LegRight:
		if in == nil {
			h.probeEOS = true
		} else {
			h.probeBuf = append(h.probeBuf, in)
		}
	}
	if !h.buildEOS || !h.probeEOS {
		return nil, false, nil
	}

	build, err := morsel.Concat(h.buildBuf)
	if err != nil {
		return nil, false, err
	}
	probe, err := morsel.Concat(h.probeBuf)
	if err != nil {
		return nil, false, err
	}

	var out *morsel.Morsel
	switch h.mode {
	case JoinInner:
		out, err = join.HashInnerJoin(build, probe, h.buildKeys, h.probeKeys, h.nullMode)
	case JoinLeft:
		out, err = join.HashOuterJoin(build, probe, h.buildKeys, h.probeKeys, h.nullMode, false, true)
	case JoinRight:
		out, err = join.HashOuterJoin(build, probe, h.buildKeys, h.probeKeys, h.nullMode, true, false)
	case JoinFull:
		out, err = join.HashOuterJoin(build, probe, h.buildKeys, h.probeKeys, h.nullMode, true, true)
	}
	if err != nil {
		return nil, false, err
	}
	return []*morsel.Morsel{out}, true, nil
}
