// Package search implements grep/glob/ls
// grep/glob/ls over a CommandExecutor, with the same truncation and
// ignore-pattern rules a shell-backed tool needs.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/logger"
)

type Manager struct {
	Exec   exec.CommandExecutor
	Logger logger.ExtendedLogger
}

func NewManager(e exec.CommandExecutor, log logger.ExtendedLogger) *Manager {
	if log == nil {
		log = logger.Noop()
	}
	return &Manager{Exec: e, Logger: log}
}

// Grep runs grep -r -n -H rooted at path (default ".") piped through
// head -n 100. Exit 1 with empty output is a success meaning
// "no matches"; exit >1 is an error.
func (m *Manager) Grep(ctx context.Context, pattern, path, include string) (string, bool) {
	if path == "" {
		path = "."
	}
	cmd := "grep -r -n -H --color=never"
	if include != "" {
		cmd = fmt.Sprintf("%s --include=%q", cmd, include)
	}
	cmd = fmt.Sprintf("%s %q %q | head -n 100", cmd, pattern, path)

	res, err := m.Exec.Execute(ctx, cmd, 30)
	if err != nil {
		return fmt.Sprintf("grep failed: %v", err), true
	}
	if res.ExitCode == 1 && strings.TrimSpace(res.Output) == "" {
		return "No matches found", false
	}
	if res.ExitCode > 1 {
		return fmt.Sprintf("grep failed: %s", res.Output), true
	}

	lines := splitNonEmpty(res.Output)
	out := res.Output
	if len(lines) == 100 {
		out = strings.TrimRight(out, "\n") + "\n[Output truncated to 100 matches]"
	}
	return out, false
}

// Glob runs find <path> -name <pattern> -type f | head -n 100 | sort.
// Every "**/" in pattern is collapsed to "*/" before invocation —
// find's -name has no recursive-glob concept.
func (m *Manager) Glob(ctx context.Context, pattern, path string) (string, bool) {
	if path == "" {
		path = "."
	}
	pattern = strings.ReplaceAll(pattern, "**/", "*/")
	cmd := fmt.Sprintf("find %q -name %q -type f | head -n 100 | sort", path, pattern)

	res, err := m.Exec.Execute(ctx, cmd, 30)
	if err != nil || res.ExitCode != 0 {
		return fmt.Sprintf("glob failed: %v", err), true
	}
	if strings.TrimSpace(res.Output) == "" {
		return "No files found", false
	}
	return res.Output, false
}

// LS checks existence/type with test -d, then runs ls -la and applies
// ignore patterns: a leading "*" means suffix match, a trailing "*"
// means prefix match, otherwise substring match. The "total …" header
// and blank lines always survive filtering.
func (m *Manager) LS(ctx context.Context, path string, ignore []string) (string, bool) {
	if path == "" {
		path = "."
	}
	check, err := m.Exec.Execute(ctx, fmt.Sprintf("test -d %q", path), 10)
	if err != nil || check.ExitCode != 0 {
		return fmt.Sprintf("Directory not found: %s", path), true
	}

	res, err := m.Exec.Execute(ctx, fmt.Sprintf("ls -la %q", path), 15)
	if err != nil || res.ExitCode != 0 {
		return fmt.Sprintf("ls failed: %s", path), true
	}
	if len(ignore) == 0 {
		return res.Output, false
	}

	var kept []string
	for _, line := range strings.Split(res.Output, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "total ") {
			kept = append(kept, line)
			continue
		}
		if !matchesAnyIgnore(line, ignore) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), false
}

func matchesAnyIgnore(line string, patterns []string) bool {
	for _, p := range patterns {
		switch {
		case strings.HasPrefix(p, "*"):
			if strings.HasSuffix(line, strings.TrimPrefix(p, "*")) {
				return true
			}
		case strings.HasSuffix(p, "*"):
			fields := strings.Fields(line)
			if len(fields) > 0 && strings.HasPrefix(fields[len(fields)-1], strings.TrimSuffix(p, "*")) {
				return true
			}
		default:
			if strings.Contains(line, p) {
				return true
			}
		}
	}
	return false
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
