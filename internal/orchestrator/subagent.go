package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/turnagent/core/internal/action"
	"github.com/turnagent/core/internal/dispatch"
	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/llm"
	"github.com/turnagent/core/internal/logger"
	"github.com/turnagent/core/internal/parser"
	"github.com/turnagent/core/internal/state"
	"github.com/turnagent/core/internal/turn"
)

// maxSubagentTurns bounds a launched subagent's own turn loop — it is
// deliberately smaller than a top-level orchestrator's budget.
const maxSubagentTurns = 20

// SubagentRunner launches a fresh, isolated agent per task: its own
// dispatcher and state, sharing only the CommandExecutor and LLM
// client with its parent. Its result reaches the parent exclusively
// through the Report it produces — no mutable state is shared between
// parent and child.
type SubagentRunner struct {
	Exec   exec.CommandExecutor
	LLM    llm.Client
	Logger logger.ExtendedLogger
}

var _ dispatch.SubagentLauncher = (*SubagentRunner)(nil)

func (s *SubagentRunner) Launch(ctx context.Context, t *state.Task, bootstrap map[string]string, contexts map[string]string) (state.SubagentReport, string, error) {
	d := dispatch.New(s.Exec, s.Logger)
	systemPrompt := subagentSystemPrompt(t, bootstrap, contexts)

	trajectoryID := uuid.NewString()
	if s.Logger != nil {
		s.Logger.WithField("trajectoryId", trajectoryID).Infof("launching subagent for task %s", t.ID)
	}

	var trajectory strings.Builder
	fmt.Fprintf(&trajectory, "trajectory %s\n", trajectoryID)
	instruction := t.Description

	turns := 0
	for turns < maxSubagentTurns {
		messages := []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("## Task\n%s", instruction)},
		}
		resp, err := s.LLM.GetResponse(ctx, messages)
		turns++
		if err != nil {
			return state.SubagentReport{}, trajectory.String(), err
		}

		fmt.Fprintf(&trajectory, "--- Subagent turn %d ---\n%s\n", turns, resp.Content)

		parsed := parser.Parse(resp.Content)
		for _, a := range parsed.Actions {
			if r, ok := a.(action.Report); ok {
				report := state.SubagentReport{Comments: r.Comments}
				for _, c := range r.Contexts {
					report.Contexts = append(report.Contexts, state.ReportedContext{ID: c.ID, Content: c.Content})
				}
				turn.Execute(ctx, resp.Content, d)
				return report, trajectory.String(), nil
			}
		}

		turn.Execute(ctx, resp.Content, d)
	}

	return state.SubagentReport{Comments: "subagent exhausted its turn budget without reporting"}, trajectory.String(), nil
}

func subagentSystemPrompt(t *state.Task, bootstrap, contexts map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s subagent working on: %s\n\n", t.AgentType, t.Title)
	if len(bootstrap) > 0 {
		b.WriteString("## Bootstrap context\n")
		for path, content := range bootstrap {
			fmt.Fprintf(&b, "### %s\n%s\n\n", path, content)
		}
	}
	if len(contexts) > 0 {
		b.WriteString("## Referenced contexts\n")
		for id, content := range contexts {
			fmt.Fprintf(&b, "### %s\n%s\n\n", id, content)
		}
	}
	b.WriteString("Emit a <report> action with any contexts you want to hand back and a <comments> summary when done.")
	return b.String()
}
