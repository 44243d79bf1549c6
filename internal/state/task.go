package state

import "time"

// Task statuses. "created" is also the legal target of an
// otherwise-invalid backward transition — the hub permits it but does
// not validate reachability, matching the source's permissive
// updateTaskStatus.
const (
	StatusCreated    = "created"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// TaskResult is what processSubagentResult records against a task.
type TaskResult struct {
	ContextIDsStored []string
	Comments         string
}

type Task struct {
	ID               string
	AgentType        string
	Title            string
	Description      string
	ContextRefs      []string
	ContextBootstrap []string
	Status           string
	CreatedAt        time.Time
	CompletedAt      time.Time
	ParentTaskID     string
	Dependencies     []string
	Result           *TaskResult
}
