// Package files implements the file manager:
// read/write/edit/multiedit/metadata primitives built atop a
// CommandExecutor, with a multi-strategy write chain, backup-on-edit,
// and optional syntax pre-validation.
package files

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/logger"
)

// Manager provides the file primitives the dispatcher's Read/Write/Edit
// handlers call into.
type Manager struct {
	Exec   exec.CommandExecutor
	Logger logger.ExtendedLogger
}

func NewManager(e exec.CommandExecutor, log logger.ExtendedLogger) *Manager {
	if log == nil {
		log = logger.Noop()
	}
	return &Manager{Exec: e, Logger: log}
}

// ReadFile returns (text, isError). It chooses among four shell
// pipelines combining `nl -ba`, `tail -n +N`, `head -n M` depending on
// whether offset/limit were supplied.
func (m *Manager) ReadFile(ctx context.Context, path string, offset, limit *int) (string, bool) {
	var pipeline string
	switch {
	case offset != nil && limit != nil:
		pipeline = fmt.Sprintf("nl -ba %q | tail -n +%d | head -n %d", path, *offset+1, *limit)
	case offset != nil:
		pipeline = fmt.Sprintf("nl -ba %q | tail -n +%d", path, *offset+1)
	case limit != nil:
		pipeline = fmt.Sprintf("nl -ba %q | head -n %d", path, *limit)
	default:
		pipeline = fmt.Sprintf("nl -ba %q", path)
	}

	res, err := m.Exec.Execute(ctx, pipeline, 30)
	if err != nil {
		return fmt.Sprintf("File not found: %s (%v)", path, err), true
	}
	if res.ExitCode != 0 || strings.Contains(res.Output, "No such file or directory") {
		return fmt.Sprintf("File not found: %s", path), true
	}
	return res.Output, false
}

// GetMetadata caps at 10 paths, stats each, and formats
// size/modified/owner/perm/type; a missing path prints "Not found".
func (m *Manager) GetMetadata(ctx context.Context, paths []string) (string, bool) {
	if len(paths) > 10 {
		paths = paths[:10]
	}

	var b strings.Builder
	anyError := false
	for _, p := range paths {
		res, err := m.Exec.Execute(ctx, fmt.Sprintf("stat -c '%%s %%Y %%U:%%G %%a %%F' %q", p), 15)
		if err != nil || res.ExitCode != 0 || strings.Contains(res.Output, "No such file or directory") {
			fmt.Fprintf(&b, "%s: Not found\n", p)
			continue
		}
		fields := strings.Fields(strings.TrimSpace(res.Output))
		if len(fields) < 5 {
			fmt.Fprintf(&b, "%s: Not found\n", p)
			anyError = true
			continue
		}
		size, owner, perm, ftype := fields[0], fields[2], fields[3], strings.Join(fields[4:], " ")
		epoch, convErr := strconv.ParseInt(fields[1], 10, 64)
		modified := fields[1]
		if convErr == nil {
			modified = time.Unix(epoch, 0).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(&b, "%s: size=%s modified=%s owner=%s perm=%s type=%s\n", p, size, modified, owner, perm, ftype)
	}
	return b.String(), anyError
}

// codeFileExtensions is the curated set of recognized code/build files
// whose successful Write/Edit flips codeChangesOccurred.
var codeFileExtensions = map[string]bool{
	".js": true, ".ts": true, ".tsx": true, ".jsx": true, ".py": true,
	".java": true, ".cpp": true, ".cc": true, ".c": true, ".h": true,
	".hpp": true, ".cs": true, ".php": true, ".rb": true, ".go": true,
	".rs": true, ".swift": true, ".kt": true, ".kts": true, ".scala": true,
}

var codeFileNames = map[string]bool{
	"Makefile": true, "makefile": true, "package.json": true,
	"Cargo.toml": true, "go.mod": true, "pom.xml": true,
	"build.gradle": true, "requirements.txt": true, "pyproject.toml": true,
}

// IsCodeFile reports whether path is a recognized code or build file.
func IsCodeFile(path string) bool {
	base := path
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		base = path[idx+1:]
	}
	if codeFileNames[base] {
		return true
	}
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return codeFileExtensions[base[idx:]]
	}
	return false
}
