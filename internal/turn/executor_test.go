package turn

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnagent/core/internal/dispatch"
	"github.com/turnagent/core/internal/exec"
)

// scriptedExecutor resolves commands through an ordered list of
// substring rules, falling back to an exit-0 empty result.
type scriptedExecutor struct {
	rules []rule
	calls []string
}

type rule struct {
	substr string
	result exec.Result
}

func (s *scriptedExecutor) on(substr string, res exec.Result) *scriptedExecutor {
	s.rules = append(s.rules, rule{substr, res})
	return s
}

func (s *scriptedExecutor) Execute(ctx context.Context, cmd string, timeoutSecs int) (exec.Result, error) {
	s.calls = append(s.calls, cmd)
	for _, r := range s.rules {
		if strings.Contains(cmd, r.substr) {
			return r.result, nil
		}
	}
	return exec.Result{ExitCode: 0}, nil
}

func (s *scriptedExecutor) ExecuteBackground(cmd string) error { return nil }

func TestExecute_NoActionAttemptReturnsHint(t *testing.T) {
	d := dispatch.New(&scriptedExecutor{}, nil)
	res := Execute(context.Background(), "I think I should just explain this in plain prose.", d)

	assert.True(t, res.HasError)
	assert.False(t, res.Done)
	require.Len(t, res.EnvResponses, 1)
	assert.Contains(t, res.EnvResponses[0], "No recognized action tag")
}

func TestExecute_ParseErrorWithNoDecodableActionsBlocks(t *testing.T) {
	d := dispatch.New(&scriptedExecutor{}, nil)
	raw := "<nonexistent_tag>\nfoo: bar\n</nonexistent_tag>"

	res := Execute(context.Background(), raw, d)
	assert.True(t, res.HasError)
	assert.False(t, res.Done)
	require.Len(t, res.EnvResponses, 1)
	assert.Contains(t, res.EnvResponses[0], "[PARSE ERROR]")
	assert.Contains(t, res.EnvResponses[0], "Unknown action type")
}

func TestExecute_DispatchErrorMarksTurnFailedButLaterActionsStillRun(t *testing.T) {
	se := &scriptedExecutor{}
	se.on("false", exec.Result{ExitCode: 1, Output: "boom"})
	d := dispatch.New(se, nil)
	d.RetryMaxAttempts = 1

	raw := "<bash>\ncmd: \"false\"\n</bash>\n<bash>\ncmd: \"echo second\"\n</bash>"
	res := Execute(context.Background(), raw, d)

	assert.True(t, res.HasError)
	assert.False(t, res.Done)
	require.Len(t, res.EnvResponses, 2, "both actions dispatch; only the finish gate breaks early")

	ranSecond := false
	for _, c := range se.calls {
		if strings.Contains(c, "echo second") {
			ranSecond = true
		}
	}
	assert.True(t, ranSecond, "a non-finish dispatch error does not stop the rest of the turn")
}

func TestExecute_FinishBlockedWhenEarlierActionInTurnFailed(t *testing.T) {
	se := &scriptedExecutor{}
	se.on("false", exec.Result{ExitCode: 1, Output: "boom"})
	d := dispatch.New(se, nil)
	d.RetryMaxAttempts = 1

	raw := "<bash>\ncmd: \"false\"\n</bash>\n<finish>\nmessage: \"done\"\n</finish>"
	res := Execute(context.Background(), raw, d)

	assert.True(t, res.HasError)
	assert.False(t, res.Done)
	found := false
	for _, r := range res.EnvResponses {
		if strings.Contains(r, "FINISH BLOCKED") {
			found = true
		}
	}
	assert.True(t, found, "expected a finish-blocked envelope, got %v", res.EnvResponses)
}

func TestExecute_FinishBlockedOnCriticalBuildValidation(t *testing.T) {
	se := &scriptedExecutor{}
	se.on(`test -e "package.json"`, exec.Result{ExitCode: 0})
	se.on("npm run build", exec.Result{ExitCode: 1, Output: "SyntaxError: unexpected token"})
	d := dispatch.New(se, nil)
	d.CodeChangesOccurred = true
	d.ModifiedFiles = []string{"src/index.js"}

	raw := "<finish>\nmessage: \"done\"\n</finish>"
	res := Execute(context.Background(), raw, d)

	assert.True(t, res.HasError)
	assert.False(t, res.Done)
	assert.True(t, d.CodeChangesOccurred, "CRITICAL outcome must not clear the pending-changes flag")

	found := false
	for _, r := range res.EnvResponses {
		if strings.Contains(r, "CRITICAL") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExecute_SuccessfulFinishClearsCodeChangeFlagsAndReturnsMessage(t *testing.T) {
	se := &scriptedExecutor{} // every probe falls through to the default exit-0 empty result -> INFO
	d := dispatch.New(se, nil)
	d.CodeChangesOccurred = true
	d.ModifiedFiles = []string{"README.md"}

	raw := "<finish>\nmessage: \"all set\"\n</finish>"
	res := Execute(context.Background(), raw, d)

	require.False(t, res.HasError)
	assert.True(t, res.Done)
	assert.Equal(t, "all set", res.FinishMessage)
	assert.False(t, d.CodeChangesOccurred)
	assert.Nil(t, d.ModifiedFiles)
}
