package action

import "github.com/invopop/jsonschema"

// AllVariants is the JSON-schema reflection root: every action variant
// in one container, reflected as a single struct that embeds every
// known payload type.
type AllVariants struct {
	Bash           Bash           `json:"bash"`
	BatchBash      BatchBash      `json:"batch_bash"`
	Finish         Finish         `json:"finish"`
	BatchTodo      BatchTodo      `json:"todo"`
	Read           Read           `json:"read"`
	Write          Write          `json:"write"`
	Edit           Edit           `json:"edit"`
	MultiEdit      MultiEdit      `json:"multi_edit"`
	FileMetadata   FileMetadata   `json:"file_metadata"`
	Grep           Grep           `json:"grep"`
	Glob           Glob           `json:"glob"`
	LS             LS             `json:"ls"`
	AddNote        AddNote        `json:"add_note"`
	ViewAllNotes   ViewAllNotes   `json:"view_all_notes"`
	TaskCreate     TaskCreate     `json:"task_create"`
	AddContext     AddContext     `json:"add_context"`
	LaunchSubagent LaunchSubagent `json:"launch_subagent"`
	Report         Report         `json:"report"`
}

// Schema reflects AllVariants into a JSON Schema document.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{DoNotReference: false}
	return reflector.Reflect(&AllVariants{})
}
