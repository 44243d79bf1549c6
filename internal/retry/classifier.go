// Package retry implements the error classifier and retry engine
// ordered pattern matching over error text and exit codes, plus
// exponential backoff with jitter.
package retry

import "strings"

// Kind is the classification taxonomy. Transient and Unknown (with
// exit code < 128) are retriable; the rest are not.
type Kind string

const (
	KindTransient  Kind = "transient"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindSyntax     Kind = "syntax"
	KindPermanent  Kind = "permanent"
	KindUnknown    Kind = "unknown"
)

type Classification struct {
	Kind       Kind
	Suggestion string
	Retriable  bool
}

// textPattern is one (substring, classification) rule. Patterns are
// matched first-match-wins in order, because several overlap (e.g.
// "timeout" vs "permission denied").
type textPattern struct {
	substr string
	kind   Kind
	hint   string
}

var textPatterns = []textPattern{
	{"connection reset", KindTransient, "The connection was reset; retrying may succeed."},
	{"econnreset", KindTransient, "The connection was reset; retrying may succeed."},
	{"timed out", KindTransient, "The operation timed out; consider a longer timeout or retry."},
	{"timeout", KindTransient, "The operation timed out; consider a longer timeout or retry."},
	{"permission denied", KindPermission, "Check file/directory permissions or run with appropriate privileges."},
	{"read-only file system", KindPermission, "The filesystem is read-only; this cannot be retried without remounting."},
	{"command not found", KindNotFound, "Install the missing command or check PATH."},
	{"no such file or directory", KindNotFound, "Verify the path exists before retrying."},
	{"module not found", KindNotFound, "Install the missing module/dependency."},
	{"cannot find module", KindNotFound, "Install the missing module/dependency."},
	{"syntaxerror", KindSyntax, "Fix the syntax error in the source before retrying."},
	{"parse error", KindSyntax, "Fix the parse error in the source before retrying."},
	{"unexpected token", KindSyntax, "Fix the syntax error in the source before retrying."},
	{"out of memory", KindPermanent, "The process ran out of memory; reduce workload or raise limits."},
	{"cannot allocate memory", KindPermanent, "The process ran out of memory; reduce workload or raise limits."},
	{"no space left on device", KindPermanent, "Free disk space before retrying."},
	{"killed", KindPermanent, "The process was killed (likely by a signal); this will not succeed on retry alone."},
	{"broken pipe", KindPermanent, "The downstream process closed its input; check the pipeline."},
}

// exitCodeKinds maps well-known exit codes straight to a kind,
// independent of the text patterns.
var exitCodeKinds = map[int]Kind{
	1:   KindUnknown,
	2:   KindSyntax,
	126: KindPermission,
	127: KindNotFound,
	130: KindPermanent,
	137: KindPermanent,
	143: KindPermanent,
}

// Classify inspects errText (first-match-wins over textPatterns) and
// falls back to the exit-code table, then to KindUnknown.
func Classify(errText string, exitCode int) Classification {
	lower := strings.ToLower(errText)
	for _, p := range textPatterns {
		if strings.Contains(lower, p.substr) {
			return Classification{Kind: p.kind, Suggestion: p.hint, Retriable: retriable(p.kind, exitCode)}
		}
	}
	if kind, ok := exitCodeKinds[exitCode]; ok {
		return Classification{Kind: kind, Suggestion: suggestionFor(kind), Retriable: retriable(kind, exitCode)}
	}
	return Classification{Kind: KindUnknown, Suggestion: "Unclassified error; retrying may or may not help.", Retriable: retriable(KindUnknown, exitCode)}
}

func retriable(k Kind, exitCode int) bool {
	switch k {
	case KindTransient:
		return true
	case KindUnknown:
		return exitCode < 128
	default:
		return false
	}
}

func suggestionFor(k Kind) string {
	switch k {
	case KindSyntax:
		return "Fix the syntax error in the source before retrying."
	case KindPermission:
		return "Check file/directory permissions or run with appropriate privileges."
	case KindNotFound:
		return "Verify the command or path exists."
	case KindPermanent:
		return "This failure will not be resolved by retrying."
	default:
		return "Unclassified error; retrying may or may not help."
	}
}
