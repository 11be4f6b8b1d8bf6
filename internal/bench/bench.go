// Package bench drives a command end-to-end, repeatedly, and reports
// the timing distribution across invocations. It has no contract with
// the target beyond process exit code and wall-clock duration.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Invocation records one end-to-end run of the target command.
type Invocation struct {
	Run        int           `json:"run"`
	Duration   time.Duration `json:"-"`
	DurationMS float64       `json:"duration_ms"`
	ExitCode   int           `json:"exit_code"`
}

// Runner invokes a command repeatedly, sequentially, and records each
// invocation.
type Runner struct {
	Binary string
	Args   []string
	Runs   int
	Stdout io.Writer // target output destination, discarded when nil
	Stderr io.Writer
	OnRun  func(Invocation)
}

// Execute performs all invocations and returns one record per run. A
// non-zero exit from the target is recorded, not treated as an error;
// only failing to start the process or a cancelled ctx aborts the loop,
// returning the invocations completed so far.
func (r *Runner) Execute(ctx context.Context) ([]Invocation, error) {
	runs := r.Runs
	if runs < 1 {
		runs = 1
	}

	invocations := make([]Invocation, 0, runs)
	for i := 1; i <= runs; i++ {
		if err := ctx.Err(); err != nil {
			return invocations, err
		}

		cmd := exec.CommandContext(ctx, r.Binary, r.Args...)
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr

		started := time.Now()
		err := cmd.Run()
		elapsed := time.Since(started)

		exitCode := 0
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return invocations, fmt.Errorf("run %d: %w", i, err)
			}
			exitCode = exitErr.ExitCode()
		}

		inv := Invocation{
			Run:        i,
			Duration:   elapsed,
			DurationMS: elapsed.Seconds() * 1000,
			ExitCode:   exitCode,
		}
		invocations = append(invocations, inv)

		if r.OnRun != nil {
			r.OnRun(inv)
		}
	}

	return invocations, nil
}
