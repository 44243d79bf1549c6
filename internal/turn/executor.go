// Package turn implements the finish-gate state machine that parses
// one LLM response, dispatches its actions in order, and decides
// whether the task may terminate.
package turn

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnagent/core/internal/action"
	"github.com/turnagent/core/internal/dispatch"
	"github.com/turnagent/core/internal/parser"
)

// Result is what one turn produces for the orchestrator to fold into
// conversation history.
type Result struct {
	Done          bool
	HasError      bool
	FinishMessage string
	EnvResponses  []string
}

const noActionHint = `[SYSTEM] No recognized action tag was found in your response. Wrap your intended action in a tag at the start of a line, e.g.:
<bash>
cmd: "echo hello"
</bash>`

// Execute parses raw, dispatches every decoded action through d in
// order, and applies the finish gate.
func Execute(ctx context.Context, raw string, d *dispatch.Dispatcher) Result {
	result := Result{}
	parsed := parser.Parse(raw)

	if !parsed.FoundActionAttempt {
		result.EnvResponses = append(result.EnvResponses, noActionHint)
		result.HasError = true
		return result
	}

	turnHasError := false
	if len(parsed.Errors) > 0 {
		var b strings.Builder
		b.WriteString("[PARSE ERROR]\n")
		for _, e := range parsed.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		result.EnvResponses = append(result.EnvResponses, strings.TrimRight(b.String(), "\n"))
		turnHasError = true
		if len(parsed.Actions) == 0 {
			result.HasError = true
			return result
		}
	}

	for _, a := range parsed.Actions {
		if a.Kind() == action.KindFinish {
			if turnHasError {
				result.EnvResponses = append(result.EnvResponses, "[FINISH BLOCKED] This turn had a parse or tool error; fix it before finishing.")
				result.HasError = true
				break
			}

			if d.CodeChangesOccurred {
				outcome := d.RunBuildValidation(ctx)
				result.EnvResponses = append(result.EnvResponses, fmt.Sprintf("[BUILD VALIDATION] %s\n%s", outcome.Category, outcome.Summary))
				if outcome.Category == dispatch.CategoryCritical {
					result.EnvResponses = append(result.EnvResponses, "Finish blocked - CRITICAL build validation failure must be resolved first.")
					result.HasError = true
					break
				}
				d.CodeChangesOccurred = false
				d.ModifiedFiles = nil
			}

			envelope, isErr := d.Dispatch(ctx, a)
			result.EnvResponses = append(result.EnvResponses, envelope)
			if isErr {
				result.HasError = true
				break
			}

			result.Done = true
			if fin, ok := a.(action.Finish); ok {
				result.FinishMessage = fin.Message
			}
			break
		}

		envelope, isErr := d.Dispatch(ctx, a)
		result.EnvResponses = append(result.EnvResponses, envelope)
		if isErr {
			turnHasError = true
		}
	}

	if turnHasError {
		result.HasError = true
	}
	return result
}
