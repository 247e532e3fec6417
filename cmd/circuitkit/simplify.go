package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/circuitio"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/simplify"
)

var (
	simplifyMode         string
	simplifyForceOld     bool
	simplifyTimeoutMillis int
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify <input> <output>",
	Short: "Run linear simplification over a circuit and write the reduced circuit",
	Args:  cobra.ExactArgs(2),
	RunE:  runSimplify,
}

func init() {
	simplifyCmd.Flags().StringVar(&simplifyMode, "mode", "acir", "input circuit format: plonk|acir|r1cs")
	simplifyCmd.Flags().BoolVar(&simplifyForceOld, "force-old-heuristic", false, "disable the occurrence-minimizing pivot heuristic")
	simplifyCmd.Flags().IntVar(&simplifyTimeoutMillis, "timeout", 0, "unused by this subcommand, accepted for CLI uniformity")
}

func runSimplify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	circuit, err := readCircuit(args[0], simplifyMode)
	if err != nil {
		return err
	}
	warnIfSignalCountMismatch(circuit, args[0])

	forbidden := map[algebra.SignalID]bool{}
	for s := range circuit.Outputs {
		forbidden[s] = true
	}

	subs, sm, err := simplify.Run(circuit.Store, simplify.Options{
		Forbidden:         forbidden,
		ForceOldHeuristic: simplifyForceOld,
		OnlyPlonk:         simplifyMode == "plonk",
	})
	if err != nil {
		return fmt.Errorf("simplify: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"substitutions": len(subs),
		"surviving":     sm.Len(),
	}).Info("simplification converged")

	renumbered := conststore.NewStore()
	for _, id := range circuit.Store.GetIDs() {
		c, ok := circuit.Store.Read(id)
		if !ok {
			continue
		}
		renumbered.Add(simplify.ApplyToConstraint(sm, c))
	}

	out := &circuitio.Circuit{
		Store:      renumbered,
		Inputs:     renumberSignalSet(circuit.Inputs, sm),
		Outputs:    renumberSignalSet(circuit.Outputs, sm),
		NumSignals: sm.Len(),
	}

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("simplify: create output: %w", err)
	}
	defer f.Close()
	if err := circuitio.WriteCircuitJSON(f, out); err != nil {
		return fmt.Errorf("simplify: %w", err)
	}

	log.Infof("simplify: %s -> %s in %s", args[0], args[1], time.Since(start))
	return nil
}

func renumberSignalSet(old map[algebra.SignalID]bool, sm *simplify.SignalMap) map[algebra.SignalID]bool {
	out := map[algebra.SignalID]bool{}
	for s := range old {
		if ns, ok := sm.Map(s); ok {
			out[ns] = true
		}
	}
	return out
}
