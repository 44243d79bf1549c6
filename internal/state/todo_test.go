package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turnagent/core/internal/action"
)

func TestTodoManager_ViewEmpty(t *testing.T) {
	tm := NewTodoManager()
	assert.Equal(t, "No todos.", tm.View())
}

func TestTodoManager_AddAssignsMonotonicIDs(t *testing.T) {
	tm := NewTodoManager()
	_, isErr := tm.Apply([]action.TodoOp{
		{Action: "add", Content: "write tests"},
		{Action: "add", Content: "ship it"},
	})
	assert.False(t, isErr)
	assert.Contains(t, tm.View(), "#1 write tests")
	assert.Contains(t, tm.View(), "#2 ship it")
}

func TestTodoManager_CompleteMarksDone(t *testing.T) {
	tm := NewTodoManager()
	tm.Apply([]action.TodoOp{{Action: "add", Content: "task one"}})
	_, isErr := tm.Apply([]action.TodoOp{{Action: "complete", TaskID: "1"}})
	assert.False(t, isErr)
	assert.Contains(t, tm.View(), "[✓] #1 task one")
}

func TestTodoManager_CompleteUnknownIDIsError(t *testing.T) {
	tm := NewTodoManager()
	msg, isErr := tm.Apply([]action.TodoOp{{Action: "complete", TaskID: "99"}})
	assert.True(t, isErr)
	assert.Contains(t, msg, "not found")
}

func TestTodoManager_DeleteRemovesEntry(t *testing.T) {
	tm := NewTodoManager()
	tm.Apply([]action.TodoOp{{Action: "add", Content: "task one"}})
	_, isErr := tm.Apply([]action.TodoOp{{Action: "delete", TaskID: "1"}})
	assert.False(t, isErr)
	assert.Equal(t, "No todos.", tm.View())
}

func TestTodoManager_NonNumericTaskIDIsError(t *testing.T) {
	tm := NewTodoManager()
	_, isErr := tm.Apply([]action.TodoOp{{Action: "complete", TaskID: "abc"}})
	assert.True(t, isErr)
}

func TestTodoManager_Reset(t *testing.T) {
	tm := NewTodoManager()
	tm.Apply([]action.TodoOp{{Action: "add", Content: "task one"}})
	tm.Reset()
	assert.Equal(t, "No todos.", tm.View())

	tm.Apply([]action.TodoOp{{Action: "add", Content: "fresh start"}})
	assert.Contains(t, tm.View(), "#1 fresh start")
}
