package dispatch

import (
	"context"
	"fmt"

	"github.com/turnagent/core/internal/action"
	"github.com/turnagent/core/internal/state"
)

func (d *Dispatcher) handleLaunchSubagent(ctx context.Context, ls action.LaunchSubagent) (string, bool) {
	t, ok := d.Hub.Lookup(ls.TaskID)
	if !ok {
		return fmt.Sprintf("Task not found: %s", ls.TaskID), true
	}
	return d.launchSubagentFor(ctx, t)
}

func (d *Dispatcher) launchSubagentFor(ctx context.Context, t *state.Task) (string, bool) {
	if t == nil {
		return "Task not found", true
	}
	if d.Subagents == nil {
		return fmt.Sprintf("No subagent launcher configured; task %s left pending", t.ID), true
	}

	bootstrap := d.collectBootstrap(ctx, t.ContextBootstrap)
	contexts := d.Hub.GetContextsForTask(t.ContextRefs)

	report, trajectory, err := d.Subagents.Launch(ctx, t, bootstrap, contexts)
	if err != nil {
		return fmt.Sprintf("Subagent for task %s failed: %v", t.ID, err), true
	}

	msg, isErr := d.Hub.ProcessSubagentResult(t.ID, report)
	if trajectory != "" {
		msg = msg + "\n\nTrajectory:\n" + trajectory
	}
	return msg, isErr
}

// collectBootstrap reads each bootstrap path: a directory contributes
// its `ls` listing, a file contributes its first 1000 lines.
func (d *Dispatcher) collectBootstrap(ctx context.Context, paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		dirCheck, err := d.Exec.Execute(ctx, fmt.Sprintf("test -d %q", p), 10)
		if err == nil && dirCheck.ExitCode == 0 {
			listing, _ := d.Search.LS(ctx, p, nil)
			out[p] = listing
			continue
		}
		limit := 1000
		content, _ := d.Files.ReadFile(ctx, p, nil, &limit)
		out[p] = content
	}
	return out
}
