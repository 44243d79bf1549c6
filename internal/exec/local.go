package exec

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/turnagent/core/internal/logger"
)

// LocalExecutor runs commands on the host via os/exec, merging
// stdout+stderr and sending SIGTERM on timeout (exit code 124),
// implementing the CommandExecutor contract. It is the default,
// container-less reference implementation; a sandboxed/remote executor
// would satisfy the same interface.
type LocalExecutor struct {
	Workdir string
	Logger  logger.ExtendedLogger
}

var _ CommandExecutor = (*LocalExecutor)(nil)

func NewLocalExecutor(workdir string, log logger.ExtendedLogger) *LocalExecutor {
	if log == nil {
		log = logger.Noop()
	}
	return &LocalExecutor{Workdir: workdir, Logger: log}
}

func (e *LocalExecutor) Execute(ctx context.Context, cmdline string, timeoutSecs int) (Result, error) {
	if timeoutSecs <= 0 {
		timeoutSecs = 120
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-c", cmdline)
	if e.Workdir != "" {
		cmd.Dir = e.Workdir
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}

	err := cmd.Run()
	exitCode := 0
	if runCtx.Err() == context.DeadlineExceeded {
		e.Logger.Warnf("command timed out after %ds: %s", timeoutSecs, cmdline)
		return Result{Output: buf.String(), ExitCode: 124}, nil
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{Output: buf.String(), ExitCode: -1}, err
		}
	}
	return Result{Output: buf.String(), ExitCode: exitCode}, nil
}

func (e *LocalExecutor) ExecuteBackground(cmdline string) error {
	cmd := exec.Command("bash", "-c", cmdline)
	if e.Workdir != "" {
		cmd.Dir = e.Workdir
	}
	return cmd.Start()
}
