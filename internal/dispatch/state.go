package dispatch

import (
	"context"
	"fmt"

	"github.com/turnagent/core/internal/action"
)

func (d *Dispatcher) handleBatchTodo(bt action.BatchTodo) (string, bool) {
	msg, isErr := d.Todos.Apply(bt.Operations)
	if bt.ViewAll {
		view := d.Todos.View()
		if msg == "" {
			return view, isErr
		}
		return msg + "\n\n" + view, isErr
	}
	return msg, isErr
}

func (d *Dispatcher) handleAddNote(n action.AddNote) (string, bool) {
	id := d.Scratch.AddNote(n.Content)
	return fmt.Sprintf("Added note #%d", id), false
}

func (d *Dispatcher) handleViewAllNotes() (string, bool) {
	return d.Scratch.ViewAll(), false
}

func (d *Dispatcher) handleTaskCreate(ctx context.Context, tc action.TaskCreate) (string, bool) {
	bootstrap := make([]string, 0, len(tc.ContextBootstrap))
	for _, ref := range tc.ContextBootstrap {
		bootstrap = append(bootstrap, ref.Path)
	}
	id := d.Hub.CreateTask(tc.AgentType, tc.Title, tc.Description, tc.ContextRefs, bootstrap)

	if !tc.AutoLaunch {
		return fmt.Sprintf("Created task %s", id), false
	}

	t, _ := d.Hub.Lookup(id)
	return d.launchSubagentFor(ctx, t)
}

func (d *Dispatcher) handleAddContext(ac action.AddContext) (string, bool) {
	if d.Hub.AddContext(ac.ID, ac.Content, ac.ReportedBy, ac.TaskID) {
		return fmt.Sprintf("Context '%s' stored", ac.ID), false
	}
	return fmt.Sprintf("[WARNING] Context '%s' already exists", ac.ID), true
}
