package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkarkit/circuitkit/circuitio"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/graphbuild"
	"github.com/zkarkit/circuitkit/orchestrate"
)

var decomposeMode string

var decomposeCmd = &cobra.Command{
	Use:   "decompose <input> <output>",
	Short: "Partition a circuit's shared-signal graph, lift it to a DAG, and write Structure JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runDecompose,
}

func init() {
	decomposeCmd.Flags().StringVar(&decomposeMode, "mode", "acir", "input circuit format: plonk|acir|r1cs")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	var timings orchestrate.Timings

	circuit, err := readCircuit(args[0], decomposeMode)
	if err != nil {
		return err
	}
	warnIfSignalCountMismatch(circuit, args[0])

	var sg *graphbuild.SignalGraph
	elapsed(&timings, orchestrate.PhaseGraph, func() {
		sg = graphbuild.BuildSignalGraph(circuit.Store)
	})

	var parts [][]conststore.ConstraintID
	if err := elapsedErr(&timings, orchestrate.PhasePartition, func() error {
		nodeParts, err := graphbuild.Partition(sg, graphbuild.GonumPartitioner{})
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
	}); err != nil {
		return fmt.Errorf("decompose: partition: %w", err)
	}

	var dag *graphbuild.DAG
	if err := elapsedErr(&timings, orchestrate.PhaseDAGLift, func() error {
		var err error
		dag, err = graphbuild.LiftToDAG(circuit.Store, parts, circuit.Inputs, circuit.Outputs)
		return err
	}); err != nil {
		return fmt.Errorf("decompose: lift to DAG: %w", err)
	}

	if err := elapsedErr(&timings, orchestrate.PhasePassthru, func() error {
		return graphbuild.MergePassthrough(dag, circuit.Inputs, circuit.Outputs)
	}); err != nil {
		return fmt.Errorf("decompose: passthrough merge: %w", err)
	}

	var localClasses [][]int
	elapsed(&timings, orchestrate.PhaseFingerprintLocal, func() {
		localClasses = orchestrate.LocalEquivalence(circuit.Store, dag)
	})

	var timingsJSON []circuitio.TimingEntryJSON
	for _, t := range timings {
		timingsJSON = append(timingsJSON, circuitio.TimingEntryJSON{Phase: string(t.Phase), DurationMs: t.Duration.Milliseconds()})
	}
	doc := circuitio.BuildStructureJSON(dag, localClasses, nil, timingsJSON)

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("decompose: create output: %w", err)
	}
	defer f.Close()
	if err := circuitio.WriteStructureJSON(f, doc); err != nil {
		return fmt.Errorf("decompose: %w", err)
	}

	log.Infof("decompose: %d nodes across %d local equivalence classes", len(dag.Nodes), len(localClasses))
	return nil
}

// elapsed runs fn and appends its wall-clock duration under phase p.
func elapsed(t *orchestrate.Timings, p orchestrate.Phase, fn func()) {
	start := time.Now()
	fn()
	t.Record(p, time.Since(start))
}

// elapsedErr is elapsed for a fn that can fail.
func elapsedErr(t *orchestrate.Timings, p orchestrate.Phase, fn func() error) error {
	start := time.Now()
	err := fn()
	t.Record(p, time.Since(start))
	return err
}
