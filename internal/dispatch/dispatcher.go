// Package dispatch implements pure routing from a tagged action
// variant to its handler, wrapped uniformly with metrics recording
// and the tool-output envelope.
package dispatch

import (
	"context"
	"regexp"
	"time"

	"github.com/turnagent/core/internal/action"
	"github.com/turnagent/core/internal/cache"
	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/files"
	"github.com/turnagent/core/internal/logger"
	"github.com/turnagent/core/internal/metrics"
	"github.com/turnagent/core/internal/retry"
	"github.com/turnagent/core/internal/search"
	"github.com/turnagent/core/internal/state"
)

// SubagentLauncher is the narrow boundary the dispatcher needs from
// whatever owns the orchestrator's turn loop, avoiding an import cycle
// between dispatch and orchestrator.
type SubagentLauncher interface {
	Launch(ctx context.Context, task *state.Task, bootstrap map[string]string, contexts map[string]string) (state.SubagentReport, string, error)
}

// Dispatcher owns every piece of state a handler might touch.
type Dispatcher struct {
	Exec      exec.CommandExecutor
	Files     *files.Manager
	Search    *search.Manager
	Todos     *state.TodoManager
	Scratch   *state.ScratchpadManager
	Hub       *state.OrchestratorHub
	Cache     *cache.Cache
	Metrics   *metrics.Collector
	Logger    logger.ExtendedLogger
	Subagents SubagentLauncher

	RetryMaxAttempts int

	CodeChangesOccurred bool
	ModifiedFiles       []string
}

func New(e exec.CommandExecutor, log logger.ExtendedLogger) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	return &Dispatcher{
		Exec:             e,
		Files:            files.NewManager(e, log),
		Search:           search.NewManager(e, log),
		Todos:            state.NewTodoManager(),
		Scratch:          state.NewScratchpadManager(),
		Hub:              state.NewOrchestratorHub(log),
		Cache:            cache.New(e),
		Metrics:          metrics.NewCollector(),
		Logger:           log,
		RetryMaxAttempts: 3,
	}
}

var errTypeRe = regexp.MustCompile(`\[ERROR TYPE\]\s*(\S+)`)

// Dispatch routes a to its handler, records a metric around the call,
// and wraps the handler's text in the "<kind_output>" envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, a action.Action) (string, bool) {
	kind := string(a.Kind())
	start := time.Now()

	output, isError := d.route(ctx, a)

	duration := time.Since(start)
	errType := ""
	if isError {
		if m := errTypeRe.FindStringSubmatch(output); m != nil {
			errType = m[1]
		}
	}
	if d.Metrics != nil {
		d.Metrics.Record(metrics.Record{
			Kind: kind, Success: !isError, Duration: duration,
			ErrorType: errType, Timestamp: start,
		})
	}

	return envelope(kind, output), isError
}

func envelope(kind, body string) string {
	return "<" + kind + "_output>\n" + body + "\n</" + kind + "_output>"
}

func (d *Dispatcher) route(ctx context.Context, a action.Action) (string, bool) {
	switch v := a.(type) {
	case action.Bash:
		return d.handleBash(ctx, v)
	case action.BatchBash:
		return d.handleBatchBash(ctx, v)
	case action.BatchTodo:
		return d.handleBatchTodo(v)
	case action.Read:
		return d.handleRead(ctx, v)
	case action.Write:
		return d.handleWrite(ctx, v)
	case action.Edit:
		return d.handleEdit(ctx, v)
	case action.MultiEdit:
		return d.handleMultiEdit(ctx, v)
	case action.FileMetadata:
		return d.handleFileMetadata(ctx, v)
	case action.Grep:
		return d.handleGrep(ctx, v)
	case action.Glob:
		return d.handleGlob(ctx, v)
	case action.LS:
		return d.handleLS(ctx, v)
	case action.AddNote:
		return d.handleAddNote(v)
	case action.ViewAllNotes:
		return d.handleViewAllNotes()
	case action.TaskCreate:
		return d.handleTaskCreate(ctx, v)
	case action.AddContext:
		return d.handleAddContext(v)
	case action.LaunchSubagent:
		return d.handleLaunchSubagent(ctx, v)
	case action.Report:
		return "Report acknowledged", false
	case action.Finish:
		return v.Message, false
	default:
		return "Unhandled action kind", true
	}
}

// withRetryClassified adapts retry.WithRetry for handlers whose
// failure mode is "non-zero exit code", surfacing the classification
// for suggestion text.
func withRetryClassified(ctx context.Context, maxAttempts int, op func() (exec.Result, error)) (exec.Result, retry.Classification, error) {
	var lastRes exec.Result
	var lastCls retry.Classification
	err := retry.WithRetry(ctx, func() error {
		res, opErr := op()
		lastRes = res
		if opErr != nil {
			lastCls = retry.Classify(opErr.Error(), -1)
			return opErr
		}
		if res.ExitCode != 0 {
			lastCls = retry.Classify(res.Output, res.ExitCode)
			if !lastCls.Retriable {
				return nil
			}
			return errExitCode{res.ExitCode}
		}
		return nil
	}, retry.Options{MaxAttempts: maxAttempts})
	if err != nil {
		return lastRes, lastCls, err
	}
	return lastRes, lastCls, nil
}

type errExitCode struct{ code int }

func (e errExitCode) Error() string   { return "command exited non-zero" }
func (e errExitCode) ExitCode() int   { return e.code }
