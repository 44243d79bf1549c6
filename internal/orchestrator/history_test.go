package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_RenderOnEmptyHistory(t *testing.T) {
	h := NewHistory(5)
	assert.Equal(t, "No prior turns.", h.Render())
}

func TestHistory_AppendEvictsOldestBeyondMaxTurns(t *testing.T) {
	h := NewHistory(2)
	h.Append("turn1", "env1")
	h.Append("turn2", "env2")
	h.Append("turn3", "env3")

	assert.Equal(t, 2, h.Len())
	rendered := h.Render()
	assert.NotContains(t, rendered, "turn1")
	assert.Contains(t, rendered, "turn2")
	assert.Contains(t, rendered, "turn3")
}

func TestHistory_ClipsLongAgentOutputButNotEnvResponse(t *testing.T) {
	h := NewHistory(5)
	longAgent := strings.Repeat("a", 600)
	longEnv := strings.Repeat("b", 600)
	h.Append(longAgent, longEnv)

	rendered := h.Render()
	assert.Contains(t, rendered, strings.Repeat("a", 500)+"...")
	assert.NotContains(t, rendered, strings.Repeat("a", 501))
	assert.Contains(t, rendered, longEnv)
}

func TestHistory_DefaultsMaxTurnsWhenNonPositive(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 25; i++ {
		h.Append("a", "b")
	}
	assert.Equal(t, 20, h.Len())
}

func TestHistory_RendersTurnsInOrderWithNumbering(t *testing.T) {
	h := NewHistory(5)
	h.Append("first", "envA")
	h.Append("second", "envB")

	rendered := h.Render()
	idx1 := strings.Index(rendered, "Turn 1")
	idx2 := strings.Index(rendered, "Turn 2")
	assert.True(t, idx1 >= 0 && idx2 > idx1)
}
