package files

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// writeStrategy is one rung of the write chain: given the unquoted
// destination path and the raw content to write, produce a command
// that writes content to path (each strategy quotes path itself).
type writeStrategy struct {
	name string
	cmd  func(path, content string) string
}

// writeChain tries, in order, a node helper, a python helper, a bash
// heredoc, and finally printf — mirroring environments where some
// interpreters may be missing or sandboxed. The node and python helpers
// take content as base64 on argv rather than piping it through stdin,
// so a content line that collides with the heredoc delimiter can't
// corrupt the write.
var writeChain = []writeStrategy{
	{
		name: "node",
		cmd: func(path, content string) string {
			b64 := base64.StdEncoding.EncodeToString([]byte(content))
			return fmt.Sprintf(`node -e 'const fs=require("fs");fs.writeFileSync(process.argv[1],Buffer.from(process.argv[2],"base64"))' %q %q`, path, b64)
		},
	},
	{
		name: "python",
		cmd: func(path, content string) string {
			b64 := base64.StdEncoding.EncodeToString([]byte(content))
			return fmt.Sprintf(`python3 -c 'import sys,base64;open(sys.argv[1],"wb").write(base64.b64decode(sys.argv[2]))' %q %q`, path, b64)
		},
	},
	{
		name: "heredoc",
		cmd: func(path, content string) string {
			return fmt.Sprintf(`cat > %q <<%s
%s
%s`, path, heredocDelim, content, heredocDelim)
		},
	},
	{
		name: "printf",
		cmd: func(path, content string) string {
			escaped := "'" + strings.ReplaceAll(content, "'", `'\''`) + "'"
			return fmt.Sprintf(`printf '%%s' %s > %q`, escaped, path)
		},
	},
}

const heredocDelim = "TURNAGENT_EOF_7f3a"

// buildWriteCommand renders strategy i's command for path and content.
func buildWriteCommand(i int, path, content string) string {
	return writeChain[i].cmd(path, content)
}

// WriteFile runs mkdir -p on the parent directory, then tries each
// writeChain strategy until one exits 0. Returns (message, isError).
func (m *Manager) WriteFile(ctx context.Context, path, content string) (string, bool) {
	if dir := parentDir(path); dir != "" && dir != "." {
		if res, err := m.Exec.Execute(ctx, fmt.Sprintf("mkdir -p %q", dir), 15); err != nil || res.ExitCode != 0 {
			return fmt.Sprintf("Failed to create directory for %s", path), true
		}
	}

	var lastOutput string
	for i, strat := range writeChain {
		cmd := buildWriteCommand(i, path, content)
		res, err := m.Exec.Execute(ctx, cmd, 30)
		if err == nil && res.ExitCode == 0 {
			m.Logger.Debugf("wrote %s via %s strategy", path, strat.name)
			return fmt.Sprintf("File written: %s (%d bytes)", path, len(content)), false
		}
		lastOutput = res.Output
	}
	return fmt.Sprintf("Failed to write %s: all write strategies exhausted (%s)", path, lastOutput), true
}

// syntaxCheckers maps a file extension to the shell command (with %q
// substituted for the path) used to pre-validate syntax before the
// write is considered final.
var syntaxCheckers = map[string]string{
	".py": "python3 -m py_compile %q",
	".js": "node --check %q",
	".ts": "node --check %q",
	".jsx": "node --check %q",
	".tsx": "node --check %q",
	".json": "python3 -c 'import json,sys; json.load(open(sys.argv[1]))' %q",
	".sh": "bash -n %q",
	".go": "gofmt -l %q",
}

// WriteFileValidated is WriteFile plus a best-effort syntax
// pre-validation keyed on the file's extension. When a checker exists
// for the extension, content is written to a scratch path first and
// checked there; a failing check leaves the target path untouched and
// the write is refused with the checker's output as a suggested fix.
// Only once the check passes does the scratch file get promoted to
// path. Extensions with no registered checker skip straight to
// WriteFile.
func (m *Manager) WriteFileValidated(ctx context.Context, path, content string) (string, bool) {
	ext := extOf(path)
	checkerTmpl, ok := syntaxCheckers[ext]
	if !ok {
		return m.WriteFile(ctx, path, content)
	}

	scratch := path + ".precheck" + ext
	msg, isErr := m.WriteFile(ctx, scratch, content)
	if isErr {
		return msg, isErr
	}
	defer m.Exec.Execute(ctx, fmt.Sprintf("rm -f %q", scratch), 10)

	res, err := m.Exec.Execute(ctx, fmt.Sprintf(checkerTmpl, scratch), 20)
	if err != nil {
		return fmt.Sprintf("Write refused: syntax check for %s could not run: %v", path, err), true
	}
	if res.ExitCode != 0 || strings.TrimSpace(res.Output) != "" {
		return fmt.Sprintf("Write refused: %s failed syntax validation. Suggested fix: %s", path, strings.TrimSpace(res.Output)), true
	}

	if mv, err := m.Exec.Execute(ctx, fmt.Sprintf("mv %q %q", scratch, path), 15); err != nil || mv.ExitCode != 0 {
		return fmt.Sprintf("Failed to finalize validated write to %s", path), true
	}
	return fmt.Sprintf("File written: %s (%d bytes)", path, len(content)), false
}

func parentDir(path string) string {
	idx := strings.LastIndexAny(path, "/\\")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func extOf(path string) string {
	base := path
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		base = path[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		return base[idx:]
	}
	return ""
}
