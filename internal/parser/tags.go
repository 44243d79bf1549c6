package parser

import "gopkg.in/yaml.v3"

// snakeToCamel maps the snake_case key variants LLMs commonly emit onto
// the canonical camelCase field names the action schema expects.
var snakeToCamel = map[string]string{
	"file_path":         "filePath",
	"file_paths":        "filePaths",
	"old_string":        "oldString",
	"new_string":        "newString",
	"replace_all":       "replaceAll",
	"task_id":           "taskId",
	"agent_type":        "agentType",
	"context_refs":      "contextRefs",
	"context_bootstrap": "contextBootstrap",
	"auto_launch":       "autoLaunch",
	"reported_by":       "reportedBy",
	"view_all":          "viewAll",
	"continue_on_error": "continueOnError",
	"timeout_secs":      "timeoutSecs",
}

// normalizeKeys renames recognized snake_case mapping keys to their
// canonical camelCase form in place. Per the documented (possibly buggy,
// preserved) source behavior: if the canonical key is already present
// among the mapping's siblings, the snake_case variant is left alone —
// an empty if-branch, not an overwrite.
func normalizeKeys(node *yaml.Node) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.DocumentNode:
		for _, c := range node.Content {
			normalizeKeys(c)
		}
	case yaml.MappingNode:
		canonicalPresent := make(map[string]bool)
		for i := 0; i+1 < len(node.Content); i += 2 {
			canonicalPresent[node.Content[i].Value] = true
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if canonical, ok := snakeToCamel[key.Value]; ok {
				if canonicalPresent[canonical] {
					// Canonical key already present: no-op, retained as documented.
				} else {
					key.Value = canonical
				}
			}
			normalizeKeys(node.Content[i+1])
		}
	case yaml.SequenceNode:
		for _, c := range node.Content {
			normalizeKeys(c)
		}
	}
}
