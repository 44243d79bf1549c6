package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeYAML(t *testing.T, body string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(body), &doc))
	require.Len(t, doc.Content, 1, "expected a single top-level mapping")
	return doc.Content[0]
}

func TestKnownTags(t *testing.T) {
	for _, tag := range []string{"bash", "batch_bash", "finish", "todo", "task_create", "add_context", "launch_subagent", "report", "file", "search", "scratchpad"} {
		assert.True(t, KnownTags(tag), tag)
	}
	assert.False(t, KnownTags("nope"))
	assert.False(t, KnownTags(""))
}

func TestDecodeSimple_AppliesDocumentedDefaults(t *testing.T) {
	node := decodeYAML(t, "cmd: echo hi\n")
	act, err := DecodeSimple("bash", node)
	require.NoError(t, err)
	b := act.(Bash)
	assert.Equal(t, "echo hi", b.Cmd)
	assert.True(t, b.Block)
	assert.Equal(t, 60, b.TimeoutSecs)
}

func TestDecodeSimple_UnknownTag(t *testing.T) {
	node := decodeYAML(t, "cmd: echo hi\n")
	_, err := DecodeSimple("nonexistent", node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action type")
}

func TestDecodeSimple_ValidationFailurePropagates(t *testing.T) {
	node := decodeYAML(t, "block: true\n") // missing required cmd
	_, err := DecodeSimple("bash", node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestDecodeComposite_DispatchesOnDiscriminant(t *testing.T) {
	node := decodeYAML(t, "filePath: main.go\n")
	act, err := DecodeComposite("file", "read", node)
	require.NoError(t, err)
	r := act.(Read)
	assert.Equal(t, "main.go", r.FilePath)
	assert.Nil(t, r.Offset)
}

func TestDecodeComposite_UnknownTag(t *testing.T) {
	node := decodeYAML(t, "filePath: main.go\n")
	_, err := DecodeComposite("notatag", "read", node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action type")
}

func TestDecodeComposite_UnknownDiscriminant(t *testing.T) {
	node := decodeYAML(t, "filePath: main.go\n")
	_, err := DecodeComposite("file", "teleport", node)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file.teleport")
}

func TestDecodeComposite_ViewAllNotesHasNoFieldsToDecode(t *testing.T) {
	node := decodeYAML(t, "{}\n")
	act, err := DecodeComposite("scratchpad", "view_all_notes", node)
	require.NoError(t, err)
	assert.Equal(t, KindViewAllNotes, act.Kind())
}

func TestDecodeSimple_AddContextAppliesDefault(t *testing.T) {
	node := decodeYAML(t, "id: ctx1\ncontent: some finding\n")
	act, err := DecodeSimple("add_context", node)
	require.NoError(t, err)
	ac := act.(AddContext)
	assert.Equal(t, "?", ac.ReportedBy)
}

func TestValidate_RequiredFieldMissing(t *testing.T) {
	err := Validate(Grep{})
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Path, "Pattern")
}

func TestValidate_OneofConstraint(t *testing.T) {
	err := Validate(TaskCreate{AgentType: "manager", Title: "t", Description: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AgentType")
}

func TestValidate_BatchTodoRequiresContentOnAdd(t *testing.T) {
	err := Validate(BatchTodo{Operations: []TodoOp{{Action: "add"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operations[0].content")
}

func TestValidate_BatchTodoRequiresTaskIDOnCompleteAndDelete(t *testing.T) {
	err := Validate(BatchTodo{Operations: []TodoOp{{Action: "complete"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operations[0].taskId")

	err = Validate(BatchTodo{Operations: []TodoOp{{Action: "delete"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operations[0].taskId")
}

func TestValidate_BatchTodoViewAllNeedsNoOperations(t *testing.T) {
	assert.NoError(t, Validate(BatchTodo{ViewAll: true}))
}

func TestValidate_PassesOnWellFormedAction(t *testing.T) {
	b := NewBash()
	b.Cmd = "echo ok"
	assert.NoError(t, Validate(b))
}

func TestEnvelope_FormatsTagAndMessage(t *testing.T) {
	err := Validate(Grep{})
	got := Envelope("search", err)
	assert.Equal(t, "[search] Validation error: "+err.Error(), got)
}

