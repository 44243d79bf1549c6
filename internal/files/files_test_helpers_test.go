package files

import (
	"context"
	"strings"

	"github.com/turnagent/core/internal/exec"
)

// scriptedExecutor resolves commands through an ordered list of
// predicate/response rules, falling back to an exit-0 empty result.
type scriptedExecutor struct {
	rules []execRule
	calls []string
}

type execRule struct {
	match  func(cmd string) bool
	result exec.Result
	err    error
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{}
}

func (s *scriptedExecutor) on(substr string, res exec.Result, err error) *scriptedExecutor {
	s.rules = append(s.rules, execRule{
		match:  func(cmd string) bool { return strings.Contains(cmd, substr) },
		result: res,
		err:    err,
	})
	return s
}

func (s *scriptedExecutor) Execute(ctx context.Context, cmd string, timeoutSecs int) (exec.Result, error) {
	s.calls = append(s.calls, cmd)
	for _, r := range s.rules {
		if r.match(cmd) {
			return r.result, r.err
		}
	}
	return exec.Result{Output: "", ExitCode: 0}, nil
}

func (s *scriptedExecutor) ExecuteBackground(cmd string) error { return nil }
