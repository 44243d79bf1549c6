package orchestrator

import (
	"fmt"
	"strings"
)

const agentOutputTruncateAt = 500

// HistoryTurn pairs one turn's raw agent output with its rendered env
// response.
type HistoryTurn struct {
	AgentOutput string
	EnvResponse string
}

// History is a sliding window of the last N turns. Agent output over
// 500 chars is clipped with an ellipsis when rendered; env responses
// are never truncated — a deliberate asymmetry: a dropped tool result
// is much costlier to lose than a long repeated agent message.
type History struct {
	turns    []HistoryTurn
	maxTurns int
}

func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &History{maxTurns: maxTurns}
}

func (h *History) Append(agentOutput, envResponse string) {
	h.turns = append(h.turns, HistoryTurn{AgentOutput: agentOutput, EnvResponse: envResponse})
	if len(h.turns) > h.maxTurns {
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
}

func (h *History) Len() int { return len(h.turns) }

// Render concatenates every retained turn as "agent: …\nenv: …".
func (h *History) Render() string {
	if len(h.turns) == 0 {
		return "No prior turns."
	}
	var b strings.Builder
	for i, t := range h.turns {
		fmt.Fprintf(&b, "--- Turn %d ---\nagent: %s\nenv: %s\n", i+1, clipAgentOutput(t.AgentOutput), t.EnvResponse)
	}
	return strings.TrimRight(b.String(), "\n")
}

func clipAgentOutput(s string) string {
	if len(s) <= agentOutputTruncateAt {
		return s
	}
	return s[:agentOutputTruncateAt] + "..."
}
