package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnagent/core/internal/dispatch"
	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/llm"
)

type noopExecutor struct{}

func (noopExecutor) Execute(ctx context.Context, cmd string, timeoutSecs int) (exec.Result, error) {
	return exec.Result{ExitCode: 0}, nil
}
func (noopExecutor) ExecuteBackground(cmd string) error { return nil }

// fakeLLMClient replays a fixed queue of responses/errors, one per call,
// repeating the last entry once the queue is exhausted.
type fakeLLMClient struct {
	responses []llm.Response
	errs      []error
	calls     int
}

func (f *fakeLLMClient) GetResponse(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return f.responses[i], err
}

func (f *fakeLLMClient) CountInputTokens(messages []llm.Message) int { return 0 }
func (f *fakeLLMClient) CountOutputTokens(content string) int        { return 0 }

func TestOrchestrator_CompletesOnFirstTurnFinish(t *testing.T) {
	d := dispatch.New(noopExecutor{}, nil)
	client := &fakeLLMClient{
		responses: []llm.Response{{Content: "<finish>\nmessage: \"all done\"\n</finish>"}},
	}
	o := New(d, client, "you are an agent", 10, nil)

	res := o.Run(context.Background(), "do the thing")
	assert.True(t, res.Completed)
	assert.Equal(t, "all done", res.FinishMessage)
	assert.Equal(t, 1, res.TurnsExecuted)
	assert.False(t, res.MaxTurnsReached)
}

func TestOrchestrator_ExhaustsTurnBudgetWhenNeverFinishing(t *testing.T) {
	d := dispatch.New(noopExecutor{}, nil)
	client := &fakeLLMClient{
		responses: []llm.Response{{Content: "<todo>\nviewAll: true\n</todo>"}},
	}
	o := New(d, client, "you are an agent", 3, nil)

	res := o.Run(context.Background(), "do the thing")
	assert.False(t, res.Completed)
	assert.True(t, res.MaxTurnsReached)
	assert.Equal(t, 3, res.TurnsExecuted)
}

func TestOrchestrator_LLMErrorIsLoggedAndLoopContinues(t *testing.T) {
	d := dispatch.New(noopExecutor{}, nil)
	client := &fakeLLMClient{
		responses: []llm.Response{{}, {Content: "<finish>\nmessage: \"recovered\"\n</finish>"}},
		errs:      []error{errors.New("connection reset"), nil},
	}
	o := New(d, client, "you are an agent", 10, nil)

	res := o.Run(context.Background(), "do the thing")
	require.True(t, res.Completed)
	assert.Equal(t, "recovered", res.FinishMessage)
	assert.Equal(t, 2, res.TurnsExecuted)
	assert.Contains(t, o.History.Render(), "[LLM ERROR] connection reset")
}

func TestOrchestrator_DefaultsMaxTurnsWhenNonPositive(t *testing.T) {
	d := dispatch.New(noopExecutor{}, nil)
	client := &fakeLLMClient{responses: []llm.Response{{Content: "<finish>\nmessage: \"done\"\n</finish>"}}}
	o := New(d, client, "sys", 0, nil)
	assert.Equal(t, 50, o.MaxTurns)
}

func TestOrchestrator_BuildsUserMessageWithTodosContextsAndHistory(t *testing.T) {
	d := dispatch.New(noopExecutor{}, nil)
	client := &fakeLLMClient{}
	o := New(d, client, "sys", 5, nil)

	msg := o.buildUserMessage("implement the feature")
	assert.Contains(t, msg, "implement the feature")
	assert.Contains(t, msg, "## Todos")
	assert.Contains(t, msg, "## Contexts")
	assert.Contains(t, msg, "## Recent History")
}
