// Package orchestrator implements the top-level turn loop that builds
// each prompt, calls the LLM, runs the turn executor, and folds the
// result into conversation history.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/turnagent/core/internal/dispatch"
	"github.com/turnagent/core/internal/llm"
	"github.com/turnagent/core/internal/logger"
	"github.com/turnagent/core/internal/turn"
)

// RunResult is what a completed (or turn-budget-exhausted) run
// reports to the CLI.
type RunResult struct {
	Completed       bool
	FinishMessage   string
	TurnsExecuted   int
	MaxTurnsReached bool
}

type Orchestrator struct {
	Dispatcher   *dispatch.Dispatcher
	LLM          llm.Client
	SystemPrompt string
	MaxTurns     int
	Logger       logger.ExtendedLogger

	History *History
}

func New(d *dispatch.Dispatcher, client llm.Client, systemPrompt string, maxTurns int, log logger.ExtendedLogger) *Orchestrator {
	if log == nil {
		log = logger.Noop()
	}
	if maxTurns <= 0 {
		maxTurns = 50
	}
	return &Orchestrator{
		Dispatcher:   d,
		LLM:          client,
		SystemPrompt: systemPrompt,
		MaxTurns:     maxTurns,
		Logger:       log,
		History:      NewHistory(maxTurns),
	}
}

// Run drives the turn loop for one task instruction until the finish
// gate accepts, or the turn budget is exhausted.
func (o *Orchestrator) Run(ctx context.Context, instruction string) RunResult {
	turns := 0
	done := false
	finishMessage := ""

	for !done && turns < o.MaxTurns {
		userMessage := o.buildUserMessage(instruction)
		messages := []llm.Message{
			{Role: llm.RoleSystem, Content: o.SystemPrompt},
			{Role: llm.RoleUser, Content: userMessage},
		}

		resp, err := o.LLM.GetResponse(ctx, messages)
		turns++
		if err != nil {
			o.Logger.Errorf("LLM call failed on turn %d: %v", turns, err)
			o.History.Append("", fmt.Sprintf("[LLM ERROR] %v", err))
			continue
		}

		result := turn.Execute(ctx, resp.Content, o.Dispatcher)
		envResponse := joinEnvResponses(result.EnvResponses)
		o.History.Append(resp.Content, envResponse)

		if result.Done {
			done = true
			finishMessage = result.FinishMessage
		}
	}

	return RunResult{
		Completed:       done,
		FinishMessage:   finishMessage,
		TurnsExecuted:   turns,
		MaxTurnsReached: !done && turns >= o.MaxTurns,
	}
}

func (o *Orchestrator) buildUserMessage(instruction string) string {
	return fmt.Sprintf("## Current Task\n%s\n\n%s", instruction, o.stateSummary())
}

func (o *Orchestrator) stateSummary() string {
	return fmt.Sprintf(
		"## Todos\n%s\n\n## Contexts\n%s\n\n## Recent History\n%s",
		o.Dispatcher.Todos.View(),
		o.Dispatcher.Hub.Contexts.View(),
		o.History.Render(),
	)
}

func joinEnvResponses(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}
