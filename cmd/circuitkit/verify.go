package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zkarkit/circuitkit/circuitio"
	"github.com/zkarkit/circuitkit/equiv"
	"github.com/zkarkit/circuitkit/orchestrate"
	"github.com/zkarkit/circuitkit/safety"
)

var (
	verifyCircuitMode string
	verifyEquivMode   string
	verifyTimeoutMillis int
)

var verifyCmd = &cobra.Command{
	Use:   "verify <circuit-input> <structure-input> <output>",
	Short: "Run structural-equivalence refinement and per-node weak-safety SMT verification",
	Long: `verify reconstructs the constraint store from circuit-input (needed for
coefficient data, since Structure JSON only carries constraint IDs and
signal sets) and the decomposed DAG from structure-input, then produces an
updated Structure JSON carrying equivalence classes, per-node verification
status, and phase timings.`,
	Args: cobra.ExactArgs(3),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyCircuitMode, "mode", "acir", "circuit-input format: plonk|acir|r1cs")
	verifyCmd.Flags().StringVar(&verifyEquivMode, "equiv", "local", "equivalence mode: local|augmented|both")
	verifyCmd.Flags().IntVar(&verifyTimeoutMillis, "timeout", 5000, "per-query SMT timeout in milliseconds")
}

func runVerify(cmd *cobra.Command, args []string) error {
	circuitPath, structurePath, outputPath := args[0], args[1], args[2]

	circuit, err := readCircuit(circuitPath, verifyCircuitMode)
	if err != nil {
		return err
	}

	sf, err := os.Open(structurePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", structurePath, err)
	}
	doc, err := circuitio.ReadStructureJSON(sf)
	sf.Close()
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	dag := doc.ToDAG()

	mode := orchestrate.ParseMode(verifyEquivMode)

	var timings orchestrate.Timings
	localClasses := doc.EquivalencyLocal
	if localClasses == nil {
		elapsed(&timings, orchestrate.PhaseFingerprintLocal, func() {
			localClasses = orchestrate.LocalEquivalence(circuit.Store, dag)
		})
	}

	structuralClasses := doc.EquivalencyStructural
	if (mode == orchestrate.ModeAugmented || mode == orchestrate.ModeBoth) && structuralClasses == nil {
		ctx := context.Background()
		if err := elapsedErr(&timings, orchestrate.PhaseFingerprintStructural, func() error {
			var err error
			structuralClasses, err = orchestrate.StructuralEquivalence(ctx, circuit.Store, dag, localClasses, equiv.RefSolver{})
			return err
		}); err != nil {
			return fmt.Errorf("verify: structural equivalence: %w", err)
		}
	}

	results := map[int]safety.Result{}
	ctx := context.Background()
	if err := elapsedErr(&timings, orchestrate.PhaseVerify, func() error {
		for i := range dag.Nodes {
			r, err := safety.AugmentAndVerify(ctx, circuit.Store, dag, i, verifyTimeoutMillis, z3Solver{})
			if err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
			results[i] = r
		}
		classes := structuralClasses
		if mode != orchestrate.ModeBoth || len(classes) == 0 {
			classes = localClasses
		}
		safety.PropagateEquivalence(results, classes)
		return nil
	}); err != nil {
		return err
	}

	verified, failed, unknown := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case safety.Verified:
			verified++
		case safety.Failed:
			failed++
		default:
			unknown++
		}
	}
	log.Infof("verify: %d verified, %d failed, %d unknown (of %d nodes)", verified, failed, unknown, len(dag.Nodes))

	var timingsJSON []circuitio.TimingEntryJSON
	for _, t := range doc.Timings {
		timingsJSON = append(timingsJSON, t)
	}
	for _, t := range timings {
		timingsJSON = append(timingsJSON, circuitio.TimingEntryJSON{Phase: string(t.Phase), DurationMs: t.Duration.Milliseconds()})
	}
	out := circuitio.BuildStructureJSON(dag, localClasses, structuralClasses, timingsJSON)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("verify: create output: %w", err)
	}
	defer f.Close()
	if err := circuitio.WriteStructureJSON(f, out); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("verify: %d node(s) failed weak-safety verification", failed)
	}
	return nil
}
