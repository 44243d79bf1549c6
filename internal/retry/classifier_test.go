package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_TextPatternsWinOverExitCode(t *testing.T) {
	tests := []struct {
		name     string
		errText  string
		exitCode int
		wantKind Kind
		wantRetr bool
	}{
		{"connection reset", "Error: connection reset by peer", 1, KindTransient, true},
		{"timeout", "operation timed out after 30s", 1, KindTransient, true},
		{"permission denied", "bash: ./script.sh: Permission denied", 126, KindPermission, false},
		{"read only fs", "write failed: read-only file system", 1, KindPermission, false},
		{"command not found", "foo: command not found", 127, KindNotFound, false},
		{"no such file", "cat: /tmp/x: No such file or directory", 1, KindNotFound, false},
		{"module not found", "Error: Cannot find module 'lodash'", 1, KindNotFound, false},
		{"syntax error", "SyntaxError: Unexpected token }", 2, KindSyntax, false},
		{"oom", "Killed\nFatal: out of memory", 137, KindPermanent, false},
		{"disk full", "write error: no space left on device", 1, KindPermanent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.errText, tt.exitCode)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantRetr, got.Retriable)
			assert.NotEmpty(t, got.Suggestion)
		})
	}
}

func TestClassify_FallsBackToExitCodeTable(t *testing.T) {
	got := Classify("some unrecognized output", 127)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.False(t, got.Retriable)
}

func TestClassify_UnknownRetriableOnlyUnderSignalRange(t *testing.T) {
	low := Classify("mystery failure", 1)
	assert.Equal(t, KindUnknown, low.Kind)
	assert.True(t, low.Retriable)

	high := Classify("mystery failure", 130)
	assert.Equal(t, KindPermanent, high.Kind)
	assert.False(t, high.Retriable)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	got := Classify("CONNECTION RESET by peer", 1)
	assert.Equal(t, KindTransient, got.Kind)
}
