// cmd/draken/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"draken/internal/aggregate"
	"draken/internal/expr"
	"draken/internal/join"
	"draken/internal/morsel"
	"draken/internal/operator"
	"draken/internal/vector"
)

const VERSION = "0.1.0"

// Build variables - can be set during build with ldflags, matching the
// teacher's cmd/sentra/main.go pattern.
var (
	BuildDate = time.Now().Format("2006-01-02")
	GitCommit = "unknown"
)

func main() {
	scenarioFlag := flag.String("scenario", "all", "demo scenario to run: s1, s2, s3, s4, s5, or all")
	partitions := flag.Int("partitions", 1, "number of independent pipeline partitions to run concurrently")
	explain := flag.Bool("explain", false, "print the operator plan instead of running it")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("draken %s (build %s, commit %s)\n", VERSION, BuildDate, GitCommit)
		return
	}

	scenarios := scenariosFor(*scenarioFlag)
	if len(scenarios) == 0 {
		log.Fatalf("unknown scenario %q", *scenarioFlag)
	}

	if *partitions <= 1 {
		for _, s := range scenarios {
			if err := runScenario(s, *explain, -1); err != nil {
				log.Fatalf("%s: %v", s.name, err)
			}
		}
		return
	}

	runID := uuid.New().String()
	color("run %s across %d partitions\n", runID, *partitions)
	var g errgroup.Group
	for p := 0; p < *partitions; p++ {
		p := p
		g.Go(func() error {
			for _, s := range scenarios {
				if err := runScenario(s, *explain, p); err != nil {
					return fmt.Errorf("partition %d %s: %w", p, s.name, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("%v", err)
	}
}

// color writes to stdout with ANSI dimming when stdout is a real
// terminal, and plain text otherwise — isatty is what tells the
// difference, the same gating terminal tools use to avoid polluting
// piped output with escape codes.
func color(format string, args ...interface{}) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("\x1b[2m"+format+"\x1b[0m", args...)
		return
	}
	fmt.Printf(format, args...)
}

// plan is a fully-wired operator DAG plus the driver call it needs:
// unary pipelines are pulled with operator.Run over one Source/Leg,
// binary ones (joins, cross joins) with operator.RunBinary over a build
// and a probe side. Each scenario builds its own plan; execute()
// dispatches on which driver it needs.
type plan struct {
	root                operator.Operator
	src                 operator.Source
	leg                 operator.Leg
	buildSrc, probeSrc  operator.Source
	buildLeg, probeLeg  operator.Leg
	binary              bool
}

func (p plan) execute() ([]*morsel.Morsel, error) {
	if p.binary {
		return operator.RunBinary(p.root, p.buildSrc, p.probeSrc, p.buildLeg, p.probeLeg)
	}
	return operator.Run(p.root, p.src, p.leg)
}

type scenario struct {
	name string
	run  func() (plan, error)
}

func scenariosFor(name string) []scenario {
	all := []scenario{
		{"s1-selection-projection", scenarioS1},
		{"s2-hash-join", scenarioS2},
		{"s3-group-by", scenarioS3},
		{"s4-order-by", scenarioS4},
		{"s5-cross-join-unnest", scenarioS5},
	}
	if name == "all" {
		return all
	}
	for _, s := range all {
		if len(s.name) >= 2 && s.name[:2] == name {
			return []scenario{s}
		}
	}
	return nil
}

// runScenario runs (or, with explainOnly, describes without driving) a
// single scenario's plan. A non-negative partitionID prefixes the
// printed line with which concurrent partition produced it; -1 means
// the single-partition case.
func runScenario(s scenario, explainOnly bool, partitionID int) error {
	p, err := s.run()
	if err != nil {
		return err
	}

	prefix := fmt.Sprintf("[%s]", s.name)
	if partitionID >= 0 {
		prefix = fmt.Sprintf("partition %d %s", partitionID, prefix)
	}

	if explainOnly {
		color("%s plan:\n%s\n", prefix, operator.Describe(p.root))
		return nil
	}

	outs, err := p.execute()
	if err != nil {
		return err
	}
	whole, err := morsel.Concat(outs)
	if err != nil {
		return err
	}
	color("%s %s rows, %s columns\n", prefix, humanize.Comma(int64(whole.NumRows())), humanize.Comma(int64(whole.NumColumns())))
	return nil
}

// scenarioS1 builds spec.md §8 scenario S1: selection then projection.
func scenarioS1() (plan, error) {
	in, err := morsel.New([]string{"x", "y"}, []vector.Vector{
		vector.NewNumericVector(vector.KindInt32, []int32{1, 2, 3}, nil),
		vector.NewNumericVector(vector.KindInt32, []int32{10, 20, 30}, nil),
	})
	if err != nil {
		return plan{}, err
	}
	pred := &expr.Binary{
		Op:   expr.OpAnd,
		Left: &expr.Binary{Op: expr.OpGt, Left: &expr.Column{Name: "x"}, Right: &expr.Literal{Value: int32(1)}},
		Right: &expr.Binary{Op: expr.OpLt, Left: &expr.Column{Name: "y"}, Right: &expr.Literal{Value: int32(30)}},
	}
	sel := operator.NewSelection(nil, pred)
	proj := operator.NewProjection(sel, []operator.ProjectItem{{Source: "y"}})
	return plan{root: proj, src: operator.NewSliceSource(in), leg: operator.LegDefault}, nil
}

// scenarioS2 builds spec.md §8 scenario S2: a hash inner join.
func scenarioS2() (plan, error) {
	build, err := morsel.New([]string{"id", "name"}, []vector.Vector{
		vector.NewNumericVector(vector.KindInt32, []int32{1, 2, 3, 4, 5}, nil),
		vector.NewBytesVector(vector.KindString, []int32{0, 1, 2, 3, 4, 5}, []byte("ABCDE"), nil),
	})
	if err != nil {
		return plan{}, err
	}
	probe, err := morsel.New([]string{"uid", "amt"}, []vector.Vector{
		vector.NewNumericVector(vector.KindInt32, []int32{2, 1, 4, 2}, nil),
		vector.NewNumericVector(vector.KindInt32, []int32{100, 200, 150, 300}, nil),
	})
	if err != nil {
		return plan{}, err
	}
	hj := operator.NewHashJoin(nil, nil, []string{"id"}, []string{"uid"}, operator.JoinInner, join.NullsNeverMatch)
	return plan{
		root:     hj,
		binary:   true,
		buildSrc: operator.NewSliceSource(build),
		probeSrc: operator.NewSliceSource(probe),
		buildLeg: operator.LegBuild,
		probeLeg: operator.LegProbe,
	}, nil
}

// scenarioS3 builds spec.md §8 scenario S3: group-by with SUM and
// COUNT(*).
func scenarioS3() (plan, error) {
	in, err := morsel.New([]string{"planet", "val"}, []vector.Vector{
		vector.NewNumericVector(vector.KindInt32, []int32{1, 1, 2, 2, 3}, nil),
		vector.NewNumericVector(vector.KindInt32, []int32{10, 20, 30, 40, 50}, nil),
	})
	if err != nil {
		return plan{}, err
	}
	agg := operator.NewAggregate(nil, []string{"planet"}, []aggregate.Spec{
		{Func: aggregate.FuncSum, Column: "val", Alias: "total"},
		{Func: aggregate.FuncCountStar, Alias: "n"},
	})
	return plan{root: agg, src: operator.NewSliceSource(in), leg: operator.LegDefault}, nil
}

// scenarioS4 builds spec.md §8 scenario S4: order-by with NULLS LAST.
func scenarioS4() (plan, error) {
	validity := vector.NewBitmap(5)
	for i, present := range []bool{true, false, true, true, false} {
		validity.SetBit(i, present)
	}
	k := vector.NewNumericVector(vector.KindInt32, []int32{3, 0, 1, 2, 0}, validity)
	in, err := morsel.New([]string{"k"}, []vector.Vector{k})
	if err != nil {
		return plan{}, err
	}
	ob := operator.NewOrderBy(nil, []operator.SortKey{{Column: "k"}})
	return plan{root: ob, src: operator.NewSliceSource(in), leg: operator.LegDefault}, nil
}

// scenarioS5 builds spec.md §8 scenario S5: CROSS JOIN UNNEST with
// INNER-UNNEST semantics (empty lists drop their row).
func scenarioS5() (plan, error) {
	idVec := vector.NewNumericVector(vector.KindInt32, []int32{1, 2, 3}, nil)
	offsets := []int32{0, 2, 2, 3}
	childOffsets := []int32{0, 1, 2, 3}
	child := vector.NewBytesVector(vector.KindString, childOffsets, []byte("abc"), nil)
	listVec := vector.NewListVector(offsets, child, nil)
	in, err := morsel.New([]string{"id", "tags"}, []vector.Vector{idVec, listVec})
	if err != nil {
		return plan{}, err
	}
	un := operator.NewCrossJoinUnnest(nil, "tags", "tag", operator.UnnestInner)
	return plan{root: un, src: operator.NewSliceSource(in), leg: operator.LegDefault}, nil
}
