// Command circuitkit drives the circuit simplification, decomposition, and
// safety-verification toolchain as three cobra subcommands over the
// on-disk formats in package circuitio.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
