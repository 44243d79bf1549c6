package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnagent/core/internal/action"
	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/retry"
)

// handleBash runs a single command. The blocking path retries through
// the classifier (non-zero exit is only a retry trigger when the
// error classifies as retriable); on final failure it tries
// tryCommandFallbacks before giving up. The non-blocking path fires
// and forgets.
func (d *Dispatcher) handleBash(ctx context.Context, b action.Bash) (string, bool) {
	if !b.Block {
		if err := d.Exec.ExecuteBackground(b.Cmd); err != nil {
			return fmt.Sprintf("Failed to start background command: %v", err), true
		}
		return "Command started in background", false
	}

	timeout := b.TimeoutSecs
	if timeout <= 0 {
		timeout = 60
	}

	res, cls, err := withRetryClassified(ctx, d.RetryMaxAttempts, func() (exec.Result, error) {
		return d.Exec.Execute(ctx, b.Cmd, timeout)
	})
	if err == nil && res.ExitCode == 0 {
		return res.Output, false
	}

	if fallbackOut, ok := tryCommandFallbacks(ctx, d, b.Cmd, timeout); ok {
		return fallbackOut, false
	}

	return enrichBashError(res.Output, res.ExitCode, cls), true
}

func enrichBashError(output string, exitCode int, cls retry.Classification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", output)
	fmt.Fprintf(&b, "[ERROR TYPE] %s\n", cls.Kind)

	switch {
	case strings.Contains(output, "No such file or directory"):
		fmt.Fprintf(&b, "[SUGGESTION] Check the path exists and is spelled correctly.\n")
	case strings.Contains(output, "Permission denied"):
		fmt.Fprintf(&b, "[SUGGESTION] Check file permissions or run with elevated privileges.\n")
	case strings.Contains(output, "command not found"):
		fmt.Fprintf(&b, "[SUGGESTION] The command isn't installed or isn't on PATH.\n")
	case strings.Contains(output, "npm ERR!"):
		fmt.Fprintf(&b, "[SUGGESTION] Inspect the npm error above; consider npm install first.\n")
	case strings.Contains(output, "SyntaxError"):
		fmt.Fprintf(&b, "[SUGGESTION] Fix the syntax error before retrying.\n")
	case exitCode == 124:
		fmt.Fprintf(&b, "[SUGGESTION] The command timed out; increase timeoutSecs or narrow its scope.\n")
	default:
		fmt.Fprintf(&b, "[SUGGESTION] %s\n", cls.Suggestion)
	}
	return strings.TrimRight(b.String(), "\n")
}

// tryCommandFallbacks applies pattern-specific alternatives for a few
// commonly-missing or commonly-misused commands.
func tryCommandFallbacks(ctx context.Context, d *Dispatcher, cmd string, timeout int) (string, bool) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "", false
	}

	var alt string
	switch fields[0] {
	case "pip":
		alt = "python3 -m pip " + strings.Join(fields[1:], " ")
	case "file":
		alt = "ls -la " + strings.Join(fields[1:], " ")
	case "hexdump":
		alt = "od -c " + strings.Join(fields[1:], " ")
	default:
		return "", false
	}

	res, err := d.Exec.Execute(ctx, alt, timeout)
	if err == nil && res.ExitCode == 0 {
		return res.Output, true
	}
	return "", false
}
