package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnagent/core/internal/llm"
	"github.com/turnagent/core/internal/state"
)

func TestSubagentRunner_LaunchReturnsReportFromReportAction(t *testing.T) {
	client := &fakeLLMClient{
		responses: []llm.Response{{Content: "<report>\ncomments: \"investigated and fixed the bug\"\ncontexts:\n  - id: ctx1\n    content: \"root cause was a race condition\"\n</report>"}},
	}
	runner := &SubagentRunner{Exec: noopExecutor{}, LLM: client}
	task := &state.Task{ID: "task_001", AgentType: "coder", Title: "fix the bug", Description: "fix the race condition in the worker pool"}

	report, trajectory, err := runner.Launch(context.Background(), task, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "investigated and fixed the bug", report.Comments)
	require.Len(t, report.Contexts, 1)
	assert.Equal(t, "ctx1", report.Contexts[0].ID)
	assert.Contains(t, trajectory, "Subagent turn 1")
	assert.Contains(t, trajectory, "trajectory ")
}

func TestSubagentRunner_LaunchPropagatesLLMError(t *testing.T) {
	client := &fakeLLMClient{
		responses: []llm.Response{{}},
		errs:      []error{errors.New("upstream unavailable")},
	}
	runner := &SubagentRunner{Exec: noopExecutor{}, LLM: client}
	task := &state.Task{ID: "task_002", AgentType: "explorer", Title: "survey", Description: "survey the codebase"}

	_, _, err := runner.Launch(context.Background(), task, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestSubagentRunner_LaunchExhaustsTurnBudgetWithoutReport(t *testing.T) {
	client := &fakeLLMClient{
		responses: []llm.Response{{Content: "<bash>\ncmd: \"echo still working\"\n</bash>"}},
	}
	runner := &SubagentRunner{Exec: noopExecutor{}, LLM: client}
	task := &state.Task{ID: "task_003", AgentType: "coder", Title: "loop forever", Description: "never finishes"}

	report, trajectory, err := runner.Launch(context.Background(), task, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, report.Comments, "exhausted its turn budget")
	assert.Contains(t, trajectory, "Subagent turn 20")
}

func TestSubagentSystemPrompt_IncludesBootstrapAndContexts(t *testing.T) {
	task := &state.Task{AgentType: "explorer", Title: "map the auth flow"}
	prompt := subagentSystemPrompt(task, map[string]string{"auth.go": "package auth"}, map[string]string{"ctx1": "prior finding"})

	assert.Contains(t, prompt, "explorer subagent")
	assert.Contains(t, prompt, "map the auth flow")
	assert.Contains(t, prompt, "auth.go")
	assert.Contains(t, prompt, "package auth")
	assert.Contains(t, prompt, "ctx1")
	assert.Contains(t, prompt, "prior finding")
}
