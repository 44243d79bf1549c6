package files

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnagent/core/internal/exec"
)

func TestReadFile_NoOffsetOrLimitUsesPlainNl(t *testing.T) {
	se := newScriptedExecutor().on("nl -ba", exec.Result{Output: "1\tpackage main\n", ExitCode: 0}, nil)
	m := NewManager(se, nil)

	out, isErr := m.ReadFile(context.Background(), "main.go", nil, nil)
	require.False(t, isErr)
	assert.Contains(t, out, "package main")
	require.Len(t, se.calls, 1)
	assert.Contains(t, se.calls[0], "nl -ba")
	assert.NotContains(t, se.calls[0], "tail")
	assert.NotContains(t, se.calls[0], "head")
}

func TestReadFile_OffsetAndLimitBuildsTailHeadPipeline(t *testing.T) {
	se := newScriptedExecutor().on("nl -ba", exec.Result{Output: "some lines", ExitCode: 0}, nil)
	m := NewManager(se, nil)

	offset, limit := 5, 10
	_, isErr := m.ReadFile(context.Background(), "big.go", &offset, &limit)
	require.False(t, isErr)
	require.Len(t, se.calls, 1)
	assert.Contains(t, se.calls[0], "tail -n +6")
	assert.Contains(t, se.calls[0], "head -n 10")
}

func TestReadFile_MissingFileIsError(t *testing.T) {
	se := newScriptedExecutor().on("nl -ba", exec.Result{Output: "cat: missing.go: No such file or directory", ExitCode: 1}, nil)
	m := NewManager(se, nil)

	out, isErr := m.ReadFile(context.Background(), "missing.go", nil, nil)
	assert.True(t, isErr)
	assert.Contains(t, out, "File not found")
}

func TestGetMetadata_CapsAtTenPaths(t *testing.T) {
	se := newScriptedExecutor().on("stat -c", exec.Result{Output: "100 1700000000 alice:staff 644 regular file", ExitCode: 0}, nil)
	m := NewManager(se, nil)

	paths := make([]string, 15)
	for i := range paths {
		paths[i] = "file.go"
	}
	_, _ = m.GetMetadata(context.Background(), paths)
	assert.Len(t, se.calls, 10)
}

func TestGetMetadata_MissingPathReportsNotFound(t *testing.T) {
	se := newScriptedExecutor().on("stat -c", exec.Result{Output: "stat: cannot stat 'nope.go': No such file or directory", ExitCode: 1}, nil)
	m := NewManager(se, nil)

	out, _ := m.GetMetadata(context.Background(), []string{"nope.go"})
	assert.Contains(t, out, "nope.go: Not found")
}

func TestIsCodeFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"src/index.ts", true},
		{"Makefile", true},
		{"go.mod", true},
		{"README.md", false},
		{"notes.txt", false},
		{"path/to/package.json", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCodeFile(tt.path), tt.path)
	}
}
