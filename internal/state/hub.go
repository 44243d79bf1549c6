package state

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/turnagent/core/internal/logger"
)

// OrchestratorHub owns task lifecycle, the context store, and the
// sub-task dependency graph for one orchestrator run.
type OrchestratorHub struct {
	Contexts *ContextStore

	tasks   map[string]*Task
	counter int
	logger  logger.ExtendedLogger
}

func NewOrchestratorHub(log logger.ExtendedLogger) *OrchestratorHub {
	if log == nil {
		log = logger.Noop()
	}
	return &OrchestratorHub{
		Contexts: NewContextStore(log),
		tasks:    make(map[string]*Task),
		logger:   log,
	}
}

// CreateTask assigns a monotonic task_NNN id (zero-padded width 3) and
// returns it with initial status "created".
func (h *OrchestratorHub) CreateTask(agentType, title, description string, contextRefs, contextBootstrap []string) string {
	h.counter++
	id := fmt.Sprintf("task_%03d", h.counter)
	h.tasks[id] = &Task{
		ID:               id,
		AgentType:        agentType,
		Title:            title,
		Description:      description,
		ContextRefs:      contextRefs,
		ContextBootstrap: contextBootstrap,
		Status:           StatusCreated,
		CreatedAt:        time.Now(),
	}
	return id
}

var paddedTaskIDRe = regexp.MustCompile(`^task_(\d+)$`)

// Lookup normalizes a caller-supplied id: if the literal id is absent
// and it matches task_\d+, retry with the number zero-padded to width
// 3.
func (h *OrchestratorHub) Lookup(taskID string) (*Task, bool) {
	if t, ok := h.tasks[taskID]; ok {
		return t, true
	}
	if m := paddedTaskIDRe.FindStringSubmatch(taskID); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			padded := fmt.Sprintf("task_%03d", n)
			if t, ok := h.tasks[padded]; ok {
				return t, true
			}
		}
	}
	return nil, false
}

// UpdateTaskStatus permits any transition, including backward ones
// (discouraged, not forbidden). Transitioning to completed stamps
// CompletedAt and may auto-complete the parent.
func (h *OrchestratorHub) UpdateTaskStatus(taskID, status string) bool {
	t, ok := h.Lookup(taskID)
	if !ok {
		return false
	}
	t.Status = status
	if status == StatusCompleted {
		t.CompletedAt = time.Now()
		if t.ParentTaskID != "" {
			h.maybeCompleteParent(t.ParentTaskID)
		}
	}
	return true
}

func (h *OrchestratorHub) maybeCompleteParent(parentID string) {
	parent, ok := h.Lookup(parentID)
	if !ok || parent.Status == StatusCompleted {
		return
	}
	for _, t := range h.tasks {
		if t.ParentTaskID == parent.ID && t.Status != StatusCompleted {
			return
		}
	}
	h.UpdateTaskStatus(parent.ID, StatusCompleted)
}

// AddContext rejects (returns false) if id already exists.
func (h *OrchestratorHub) AddContext(id, content, reportedBy, taskID string) bool {
	return h.Contexts.Add(id, content)
}

func (h *OrchestratorHub) GetContextsForTask(refs []string) map[string]string {
	return h.Contexts.Get(refs)
}

// SubagentReport mirrors the action.Report shape the dispatcher's
// LaunchSubagent handler passes in.
type SubagentReport struct {
	Contexts []ReportedContext
	Comments string
}

type ReportedContext struct {
	ID      string
	Content string
}

// ProcessSubagentResult stores every reported context whose id is not
// already present (dropping the rest), records the task's result, and
// flips the task to completed.
func (h *OrchestratorHub) ProcessSubagentResult(taskID string, report SubagentReport) (string, bool) {
	t, ok := h.Lookup(taskID)
	if !ok {
		return fmt.Sprintf("Task not found: %s", taskID), true
	}

	var stored []string
	for _, c := range report.Contexts {
		if h.Contexts.Add(c.ID, c.Content) {
			stored = append(stored, c.ID)
		}
	}

	t.Result = &TaskResult{ContextIDsStored: stored, Comments: report.Comments}
	h.UpdateTaskStatus(taskID, StatusCompleted)
	return fmt.Sprintf("Task %s completed; stored %d context(s)", taskID, len(stored)), false
}

// SubTaskSpec is one child spec passed to DecomposeTask.
type SubTaskSpec struct {
	AgentType        string
	Title            string
	Description      string
	ContextRefs      []string
	ContextBootstrap []string
	Dependencies     []string
}

// DecomposeTask creates children of parent, each recording parent and
// its declared dependency ids.
func (h *OrchestratorHub) DecomposeTask(parent string, specs []SubTaskSpec) []string {
	var ids []string
	for _, s := range specs {
		id := h.CreateTask(s.AgentType, s.Title, s.Description, s.ContextRefs, s.ContextBootstrap)
		t := h.tasks[id]
		t.ParentTaskID = parent
		t.Dependencies = s.Dependencies
		ids = append(ids, id)
	}
	return ids
}

// GetReadySubTasks returns children of parent whose own status is
// "created" and whose every dependency task is "completed".
func (h *OrchestratorHub) GetReadySubTasks(parent string) []*Task {
	var ready []*Task
	for _, t := range h.tasks {
		if t.ParentTaskID != parent || t.Status != StatusCreated {
			continue
		}
		allDepsMet := true
		for _, dep := range t.Dependencies {
			depTask, ok := h.Lookup(dep)
			if !ok || depTask.Status != StatusCompleted {
				allDepsMet = false
				break
			}
		}
		if allDepsMet {
			ready = append(ready, t)
		}
	}
	return ready
}
