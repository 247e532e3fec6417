package main

import (
	"fmt"
	"os"

	"github.com/zkarkit/circuitkit/circuitio"
)

// readCircuit loads path as a circuitio.Circuit. mode selects the on-disk
// format: "r1cs" reads the standard R1CS v1 binary container; "plonk" and
// "acir" both read Circuit JSON, since this toolchain's Circuit JSON is
// already format-agnostic and the PLONK/ACIR distinction only matters to a
// downstream proving backend this toolchain doesn't implement.
func readCircuit(path, mode string) (*circuitio.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch mode {
	case "r1cs":
		r1cs, err := circuitio.ReadR1CS(f)
		if err != nil {
			return nil, err
		}
		return &circuitio.Circuit{
			Store:      r1cs.Store,
			Inputs:     r1cs.InputSignals(),
			Outputs:    r1cs.OutputSignals(),
			NumSignals: int(r1cs.Header.TotalWires) - 1,
		}, nil
	case "plonk", "acir", "":
		return circuitio.ReadCircuitJSON(f)
	default:
		return nil, fmt.Errorf("unrecognized circuit mode %q (want plonk|acir|r1cs)", mode)
	}
}

func warnIfSignalCountMismatch(c *circuitio.Circuit, path string) {
	if c.NumSignals == 0 {
		return
	}
	if max := c.MaxSignal(); int(max) >= c.NumSignals {
		log.Warnf("%s: declared number_of_signals=%d but constraints reference signal %d", path, c.NumSignals, max)
	}
}
