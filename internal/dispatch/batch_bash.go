package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turnagent/core/internal/action"
)

type batchResult struct {
	Label    string
	Cmd      string
	Output   string
	ExitCode int
	Duration time.Duration
}

// handleBatchBash runs commands in parallel with all-settled semantics
// when Parallel is set, otherwise sequentially, stopping at the first
// failure unless ContinueOnError.
func (d *Dispatcher) handleBatchBash(ctx context.Context, bb action.BatchBash) (string, bool) {
	results := make([]batchResult, len(bb.Commands))
	anyError := false

	if bb.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range bb.Commands {
			i, c := i, c
			g.Go(func() error {
				results[i] = d.runBatchCommand(gctx, c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, c := range bb.Commands {
			results[i] = d.runBatchCommand(ctx, c)
			if results[i].ExitCode != 0 && !bb.ContinueOnError {
				anyError = true
				results = results[:i+1]
				break
			}
		}
	}

	var b strings.Builder
	for _, r := range results {
		label := r.Label
		if label == "" {
			label = r.Cmd
		}
		status := "ok"
		if r.ExitCode != 0 {
			status = "failed"
			anyError = true
		}
		fmt.Fprintf(&b, "[%s] (%s, %s, %dms)\n%s\n", label, status, exitCodeString(r.ExitCode), r.Duration.Milliseconds(), r.Output)
	}
	return strings.TrimRight(b.String(), "\n"), anyError
}

func (d *Dispatcher) runBatchCommand(ctx context.Context, c action.BatchCommand) batchResult {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60
	}
	start := time.Now()
	res, err := d.Exec.Execute(ctx, c.Cmd, timeout)
	elapsed := time.Since(start)
	if err != nil {
		return batchResult{Label: c.Label, Cmd: c.Cmd, Output: err.Error(), ExitCode: -1, Duration: elapsed}
	}
	return batchResult{Label: c.Label, Cmd: c.Cmd, Output: res.Output, ExitCode: res.ExitCode, Duration: elapsed}
}

func exitCodeString(code int) string {
	return fmt.Sprintf("exit %d", code)
}
