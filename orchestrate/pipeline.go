package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/equiv"
	"github.com/zkarkit/circuitkit/graphbuild"
	"github.com/zkarkit/circuitkit/safety"
	"github.com/zkarkit/circuitkit/simplify"
)

// Options configures a pipeline Run.
type Options struct {
	// Forbidden signals the simplifier must not eliminate (typically the
	// circuit's declared outputs; the caller may add public inputs too).
	Forbidden map[algebra.SignalID]bool
	// ForceOldHeuristic disables simplify's occurrence-minimizing pivot
	// heuristic.
	ForceOldHeuristic bool
	// OnlyPlonk restricts simplify's eliminated substitutions to those
	// valid for PLONK (at most two non-constant RHS terms).
	OnlyPlonk bool
	// Partitioner clusters the shared-signal graph; defaults to
	// graphbuild.GonumPartitioner{} when nil.
	Partitioner graphbuild.Partitioner
	// Mode selects how much equivalence work to do before verification.
	Mode Mode
	// EquivSolver backs pairwise structural-equivalence checks; defaults
	// to equiv.RefSolver{} when nil.
	EquivSolver equiv.Solver
	// SafetySolver backs per-node weak-safety SMT queries; required for
	// Verify to run (no default - wiring a real SMT backend is a CLI
	// concern, not this package's).
	SafetySolver safety.Solver
	// SafetyTimeoutMillis is the per-query SMT timeout.
	SafetyTimeoutMillis int
	// Now returns the current time; defaults to time.Now. Tests inject a
	// fixed clock for deterministic Timings.
	Now func() time.Time
}

// Result is the full pipeline output.
type Result struct {
	Substitutions         []algebra.Substitution
	SignalMap             *simplify.SignalMap
	Graph                 *graphbuild.SignalGraph
	DAG                   *graphbuild.DAG
	EquivalencyLocal      [][]int
	EquivalencyStructural [][]int
	SafetyResults         map[int]safety.Result
	Timings               Timings
}

// Run drives the full pipeline over store: linear simplification, graph
// construction and DAG lift with passthrough merging, local (and,
// depending on Mode, structural) equivalence classification, and per-node
// weak-safety verification, collecting a Timings entry per phase (spec.md
// section 4.9).
//
// inputs and outputs are the circuit's declared boundary signals; they
// seed both simplify's Forbidden set (outputs, merged with opts.Forbidden)
// and the DAG lift's boundary-part detection.
func Run(ctx context.Context, store *conststore.Store, inputs, outputs map[algebra.SignalID]bool, opts Options) (*Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	partitioner := opts.Partitioner
	if partitioner == nil {
		partitioner = graphbuild.GonumPartitioner{}
	}

	forbidden := map[algebra.SignalID]bool{}
	for s := range opts.Forbidden {
		forbidden[s] = true
	}
	for s := range outputs {
		forbidden[s] = true
	}

	res := &Result{SafetyResults: map[int]safety.Result{}}

	var subs []algebra.Substitution
	var sm *simplify.SignalMap
	err := timed(&res.Timings, PhaseSimplify, now, func() error {
		var err error
		subs, sm, err = simplify.Run(store, simplify.Options{
			Forbidden:         forbidden,
			ForceOldHeuristic: opts.ForceOldHeuristic,
			OnlyPlonk:         opts.OnlyPlonk,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrate: simplify phase: %w", err)
	}
	res.Substitutions = subs
	res.SignalMap = sm

	var sg *graphbuild.SignalGraph
	err = timed(&res.Timings, PhaseGraph, now, func() error {
		sg = graphbuild.BuildSignalGraph(store)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Graph = sg

	var parts [][]conststore.ConstraintID
	err = timed(&res.Timings, PhasePartition, now, func() error {
		nodeParts, err := graphbuild.Partition(sg, partitioner)
		if err != nil {
			return err
		}
		parts = make([][]conststore.ConstraintID, len(nodeParts))
		for i, p := range nodeParts {
			ids := make([]conststore.ConstraintID, len(p))
			for j, n := range p {
				ids[j] = sg.IDByNode[n]
			}
			parts[i] = ids
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrate: partition phase: %w", err)
	}

	var dag *graphbuild.DAG
	err = timed(&res.Timings, PhaseDAGLift, now, func() error {
		var err error
		dag, err = graphbuild.LiftToDAG(store, parts, inputs, outputs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrate: DAG lift phase: %w", err)
	}

	err = timed(&res.Timings, PhasePassthru, now, func() error {
		return graphbuild.MergePassthrough(dag, inputs, outputs)
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrate: passthrough merge phase: %w", err)
	}
	res.DAG = dag

	var localClasses [][]int
	err = timed(&res.Timings, PhaseFingerprintLocal, now, func() error {
		localClasses = LocalEquivalence(store, dag)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.EquivalencyLocal = localClasses

	if opts.Mode == ModeAugmented || opts.Mode == ModeBoth {
		var structural [][]int
		err = timed(&res.Timings, PhaseFingerprintStructural, now, func() error {
			var err error
			structural, err = StructuralEquivalence(ctx, store, dag, localClasses, opts.EquivSolver)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("orchestrate: structural equivalence phase: %w", err)
		}
		res.EquivalencyStructural = structural
	}

	if opts.SafetySolver != nil {
		err = timed(&res.Timings, PhaseVerify, now, func() error {
			for i := range dag.Nodes {
				r, err := safety.AugmentAndVerify(ctx, store, dag, i, opts.SafetyTimeoutMillis, opts.SafetySolver)
				if err != nil {
					return fmt.Errorf("node %d: %w", i, err)
				}
				res.SafetyResults[i] = r
			}
			classes := res.EquivalencyStructural
			if opts.Mode != ModeBoth || len(classes) == 0 {
				classes = res.EquivalencyLocal
			}
			safety.PropagateEquivalence(res.SafetyResults, classes)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("orchestrate: verify phase: %w", err)
		}
	}

	return res, nil
}
