package action

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Simple tags map 1:1 onto a single action kind.
var simpleTags = map[string]Kind{
	"bash":            KindBash,
	"batch_bash":      KindBatchBash,
	"finish":          KindFinish,
	"todo":            KindBatchTodo,
	"task_create":     KindTaskCreate,
	"add_context":     KindAddContext,
	"launch_subagent": KindLaunchSubagent,
	"report":          KindReport,
}

// Composite tags read an inner "action:" discriminant before dispatch.
var compositeTags = map[string]map[string]Kind{
	"file": {
		"read":          KindRead,
		"write":         KindWrite,
		"edit":          KindEdit,
		"multi_edit":    KindMultiEdit,
		"metadata":      KindFileMetadata,
	},
	"search": {
		"grep": KindGrep,
		"glob": KindGlob,
		"ls":   KindLS,
	},
	"scratchpad": {
		"add_note":       KindAddNote,
		"view_all_notes": KindViewAllNotes,
	},
}

// KnownTags reports whether tag is a recognized top-level tag at all
// (simple or composite), regardless of whether it ultimately decodes.
func KnownTags(tag string) bool {
	if _, ok := simpleTags[tag]; ok {
		return true
	}
	_, ok := compositeTags[tag]
	return ok
}

// newForKind constructs a variant with its documented defaults applied.
func newForKind(k Kind) Action {
	switch k {
	case KindBash:
		return NewBash()
	case KindBatchBash:
		return NewBatchBash()
	case KindFinish:
		return NewFinish()
	case KindBatchTodo:
		return BatchTodo{}
	case KindRead:
		return Read{}
	case KindWrite:
		return Write{}
	case KindEdit:
		return Edit{}
	case KindMultiEdit:
		return MultiEdit{}
	case KindFileMetadata:
		return FileMetadata{}
	case KindGrep:
		return Grep{}
	case KindGlob:
		return Glob{}
	case KindLS:
		return LS{}
	case KindAddNote:
		return AddNote{}
	case KindViewAllNotes:
		return ViewAllNotes{}
	case KindTaskCreate:
		return TaskCreate{}
	case KindAddContext:
		return NewAddContext()
	case KindLaunchSubagent:
		return LaunchSubagent{}
	case KindReport:
		return Report{}
	default:
		return nil
	}
}

// DecodeSimple decodes and validates a simple (1:1) tag's YAML body.
func DecodeSimple(tag string, node *yaml.Node) (Action, error) {
	kind, ok := simpleTags[tag]
	if !ok {
		return nil, fmt.Errorf("unknown action type: %s", tag)
	}
	return decodeInto(kind, node)
}

// DecodeComposite decodes and validates a composite tag's YAML body,
// using its "action:" discriminant to pick the concrete kind.
func DecodeComposite(tag, discriminant string, node *yaml.Node) (Action, error) {
	table, ok := compositeTags[tag]
	if !ok {
		return nil, fmt.Errorf("unknown action type: %s", tag)
	}
	kind, ok := table[discriminant]
	if !ok {
		return nil, fmt.Errorf("unknown action type: %s.%s", tag, discriminant)
	}
	return decodeInto(kind, node)
}

func decodeInto(kind Kind, node *yaml.Node) (Action, error) {
	base := newForKind(kind)
	if base == nil {
		return nil, fmt.Errorf("unknown action type: %s", kind)
	}

	switch v := base.(type) {
	case Bash:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case BatchBash:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Finish:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case BatchTodo:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Read:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Write:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Edit:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case MultiEdit:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case FileMetadata:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Grep:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Glob:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case LS:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case AddNote:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case ViewAllNotes:
		// no fields to decode
	case TaskCreate:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case AddContext:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case LaunchSubagent:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	case Report:
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		base = v
	}

	if err := Validate(base); err != nil {
		return nil, err
	}
	return base, nil
}
