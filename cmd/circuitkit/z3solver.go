package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zkarkit/circuitkit/safety"
)

// z3Solver drives the "z3" binary as a subprocess, the way the teacher
// shells out to the "algokit"/"goal" CLIs rather than linking a library:
// no Go SMT binding was available to wire in, so the external tool is
// invoked over stdin/stdout with the rendered SMT-LIB2 script.
type z3Solver struct{}

func (z3Solver) Solve(ctx context.Context, q safety.Query) (safety.Status, error) {
	var script bytes.Buffer
	if err := safety.RenderSMT(&script, q); err != nil {
		return safety.Unknown, err
	}

	cmd := exec.CommandContext(ctx, "z3", "-in")
	cmd.Stdin = &script
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return safety.Unknown, nil
		}
		return safety.Unknown, fmt.Errorf("z3: %w: %s", err, stderr.String())
	}

	switch strings.TrimSpace(strings.SplitN(stdout.String(), "\n", 2)[0]) {
	case "unsat":
		return safety.Verified, nil
	case "sat":
		return safety.Failed, nil
	default:
		return safety.Unknown, nil
	}
}
