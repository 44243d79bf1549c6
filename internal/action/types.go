// Package action declares every action variant the runtime can dispatch
// and validates parsed payloads against their field constraints.
package action

import "fmt"

// Kind discriminates an Action variant by its tag name.
type Kind string

const (
	KindBash          Kind = "bash"
	KindBatchBash     Kind = "batch_bash"
	KindFinish        Kind = "finish"
	KindBatchTodo     Kind = "todo"
	KindRead          Kind = "read"
	KindWrite         Kind = "write"
	KindEdit          Kind = "edit"
	KindMultiEdit     Kind = "multi_edit"
	KindFileMetadata  Kind = "file_metadata"
	KindGrep          Kind = "grep"
	KindGlob          Kind = "glob"
	KindLS            Kind = "ls"
	KindAddNote       Kind = "add_note"
	KindViewAllNotes  Kind = "view_all_notes"
	KindTaskCreate    Kind = "task_create"
	KindAddContext    Kind = "add_context"
	KindLaunchSubagent Kind = "launch_subagent"
	KindReport        Kind = "report"
)

// IgnoredTags are scaffolding tags the parser strips out at both
// extraction and attempt-detection time.
var IgnoredTags = map[string]bool{
	"think":    true,
	"reasoning": true,
	"plan_md":  true,
}

// Action is the common interface every variant satisfies.
type Action interface {
	Kind() Kind
}

type Bash struct {
	Cmd         string `yaml:"cmd" validate:"required"`
	Block       bool   `yaml:"block"`
	TimeoutSecs int    `yaml:"timeoutSecs" validate:"omitempty,min=1,max=300"`
}

func (Bash) Kind() Kind { return KindBash }

// NewBash applies the documented defaults (block=true, timeoutSecs=60).
func NewBash() Bash { return Bash{Block: true, TimeoutSecs: 60} }

type BatchCommand struct {
	Cmd     string `yaml:"cmd" validate:"required"`
	Label   string `yaml:"label"`
	Timeout int    `yaml:"timeout"`
}

type BatchBash struct {
	Commands        []BatchCommand `yaml:"commands" validate:"required,min=1,dive"`
	Parallel        bool           `yaml:"parallel"`
	ContinueOnError bool           `yaml:"continueOnError"`
}

func (BatchBash) Kind() Kind { return KindBatchBash }

func NewBatchBash() BatchBash { return BatchBash{Parallel: true} }

type Finish struct {
	Message string `yaml:"message"`
}

func (Finish) Kind() Kind { return KindFinish }

func NewFinish() Finish { return Finish{Message: "Task completed"} }

type TodoOp struct {
	Action  string `yaml:"action" validate:"required,oneof=add complete delete"`
	Content string `yaml:"content"`
	TaskID  string `yaml:"taskId"`
}

type BatchTodo struct {
	Operations []TodoOp `yaml:"operations" validate:"dive"`
	ViewAll    bool     `yaml:"viewAll"`
}

func (BatchTodo) Kind() Kind { return KindBatchTodo }

// ValidateOps enforces the per-operation constraints:
// add requires content, complete/delete require taskId.
func (b BatchTodo) ValidateOps() error {
	for i, op := range b.Operations {
		switch op.Action {
		case "add":
			if op.Content == "" {
				return fieldErrf(fmt.Sprintf("operations[%d].content", i), "required when action=add")
			}
		case "complete", "delete":
			if op.TaskID == "" {
				return fieldErrf(fmt.Sprintf("operations[%d].taskId", i), "required when action=%s", op.Action)
			}
		}
	}
	return nil
}

type Read struct {
	FilePath string `yaml:"filePath" validate:"required"`
	Offset   *int   `yaml:"offset" validate:"omitempty,min=0"`
	Limit    *int   `yaml:"limit" validate:"omitempty,min=1"`
}

func (Read) Kind() Kind { return KindRead }

type Write struct {
	FilePath string `yaml:"filePath" validate:"required"`
	Content  string `yaml:"content"`
}

func (Write) Kind() Kind { return KindWrite }

type Edit struct {
	FilePath    string `yaml:"filePath" validate:"required"`
	OldString   string `yaml:"oldString"`
	NewString   string `yaml:"newString"`
	ReplaceAll  bool   `yaml:"replaceAll"`
}

func (Edit) Kind() Kind { return KindEdit }

type EditOp struct {
	OldString  string `yaml:"oldString"`
	NewString  string `yaml:"newString"`
	ReplaceAll bool   `yaml:"replaceAll"`
}

type MultiEdit struct {
	FilePath string   `yaml:"filePath" validate:"required"`
	Edits    []EditOp `yaml:"edits" validate:"required,min=1"`
}

func (MultiEdit) Kind() Kind { return KindMultiEdit }

type FileMetadata struct {
	FilePaths []string `yaml:"filePaths" validate:"required,min=1,max=10"`
}

func (FileMetadata) Kind() Kind { return KindFileMetadata }

type Grep struct {
	Pattern string `yaml:"pattern" validate:"required"`
	Path    string `yaml:"path"`
	Include string `yaml:"include"`
}

func (Grep) Kind() Kind { return KindGrep }

type Glob struct {
	Pattern string `yaml:"pattern" validate:"required"`
	Path    string `yaml:"path"`
}

func (Glob) Kind() Kind { return KindGlob }

type LS struct {
	Path   string   `yaml:"path"`
	Ignore []string `yaml:"ignore"`
}

func (LS) Kind() Kind { return KindLS }

type AddNote struct {
	Content string `yaml:"content" validate:"required"`
}

func (AddNote) Kind() Kind { return KindAddNote }

type ViewAllNotes struct{}

func (ViewAllNotes) Kind() Kind { return KindViewAllNotes }

type ContextBootstrapRef struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

type TaskCreate struct {
	AgentType         string                `yaml:"agentType" validate:"required,oneof=explorer coder"`
	Title             string                `yaml:"title" validate:"required"`
	Description       string                `yaml:"description" validate:"required"`
	ContextRefs       []string              `yaml:"contextRefs"`
	ContextBootstrap  []ContextBootstrapRef `yaml:"contextBootstrap"`
	AutoLaunch        bool                  `yaml:"autoLaunch"`
}

func (TaskCreate) Kind() Kind { return KindTaskCreate }

type AddContext struct {
	ID         string `yaml:"id" validate:"required"`
	Content    string `yaml:"content" validate:"required"`
	ReportedBy string `yaml:"reportedBy"`
	TaskID     string `yaml:"taskId"`
}

func (AddContext) Kind() Kind { return KindAddContext }

// NewAddContext applies the documented default (reportedBy="?").
func NewAddContext() AddContext { return AddContext{ReportedBy: "?"} }

type LaunchSubagent struct {
	TaskID string `yaml:"taskId" validate:"required"`
}

func (LaunchSubagent) Kind() Kind { return KindLaunchSubagent }

type ReportContext struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content"`
}

type Report struct {
	Contexts []ReportContext `yaml:"contexts"`
	Comments string          `yaml:"comments"`
}

func (Report) Kind() Kind { return KindReport }
