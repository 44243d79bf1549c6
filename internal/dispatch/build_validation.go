package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/turnagent/core/internal/cache"
)

type ValidationOutcome struct {
	Category string // CRITICAL | WARNING | INFO
	Summary  string
}

const (
	CategoryCritical = "CRITICAL"
	CategoryWarning  = "WARNING"
	CategoryInfo     = "INFO"
)

// criticalMarkers flag a probe's output as CRITICAL: syntax/parse/compile
// errors, missing modules, undefined references.
var criticalMarkers = []string{
	"syntaxerror", "parse error", "cannot find module", "module not found",
	"undefined reference", "error ts", "compilation error", "fatal error",
}

// warningMarkers flag lint/style/unused findings and test failures —
// surfaced but non-blocking.
var warningMarkers = []string{
	"warning", "unused", "deprecated", "tests failed", "failing",
}

func categorize(output string, exitCode int) string {
	lower := strings.ToLower(output)
	for _, m := range criticalMarkers {
		if strings.Contains(lower, m) {
			return CategoryCritical
		}
	}
	if exitCode != 0 {
		for _, m := range warningMarkers {
			if strings.Contains(lower, m) {
				return CategoryWarning
			}
		}
		return CategoryCritical
	}
	for _, m := range warningMarkers {
		if strings.Contains(lower, m) {
			return CategoryWarning
		}
	}
	return CategoryInfo
}

// RunBuildValidation runs the best-effort toolchain probes applicable
// to the working tree, each cache-keyed on the files it depends on,
// and combines their categorizations (any CRITICAL wins, else any
// WARNING, else INFO).
func (d *Dispatcher) RunBuildValidation(ctx context.Context) ValidationOutcome {
	var probes []ValidationOutcome

	if exists, _ := d.pathExists(ctx, "package.json"); exists {
		probes = append(probes, d.cachedProbe(ctx, "node-build", []string{"package.json"}, func() (string, int) {
			cmd := "npm run build"
			res, err := d.Exec.Execute(ctx, cmd, 90)
			// npm test stands in only when there is no build script to run.
			if err != nil || (res.ExitCode != 0 && strings.Contains(res.Output, "Missing script")) {
				res2, _ := d.Exec.Execute(ctx, "npm test", 90)
				return res2.Output, res2.ExitCode
			}
			return res.Output, res.ExitCode
		}))
	}

	if exists, _ := d.anyPathExists(ctx, "requirements.txt", "setup.py", "pyproject.toml"); exists {
		probes = append(probes, d.cachedProbe(ctx, "python-compile", []string{"requirements.txt", "setup.py", "pyproject.toml"}, func() (string, int) {
			res, err := d.Exec.Execute(ctx, `find . -name '*.py' | head -n 10 | xargs -r python3 -m py_compile`, 60)
			if err != nil {
				return err.Error(), 1
			}
			return res.Output, res.ExitCode
		}))
	}

	if exists, _ := d.pathExists(ctx, "tsconfig.json"); exists {
		probes = append(probes, d.cachedProbe(ctx, "typescript-check", []string{"tsconfig.json"}, func() (string, int) {
			res, err := d.Exec.Execute(ctx, "npx tsc --noEmit", 90)
			if err != nil {
				return err.Error(), 1
			}
			return res.Output, res.ExitCode
		}))
	}

	if exists, _ := d.anyGlobExists(ctx, "*.c", "*.cpp", "*.cc"); exists {
		probes = append(probes, d.cachedProbe(ctx, "cpp-compile", []string{"."}, func() (string, int) {
			res, err := d.Exec.Execute(ctx, `find . \( -name '*.c' -o -name '*.cpp' -o -name '*.cc' \) | head -n 5 | while read f; do g++ -c "$f" -o /tmp/test.o || exit 1; done`, 60)
			if err != nil {
				return err.Error(), 1
			}
			return res.Output, res.ExitCode
		}))
	}

	if exists, _ := d.pathExists(ctx, "Makefile"); exists {
		probes = append(probes, d.cachedProbe(ctx, "make-dry-run", []string{"Makefile"}, func() (string, int) {
			res, err := d.Exec.Execute(ctx, "make -n", 30)
			if err != nil {
				return err.Error(), 1
			}
			return res.Output, res.ExitCode
		}))
	}

	if len(probes) == 0 {
		return ValidationOutcome{Category: CategoryInfo, Summary: "No recognized build system; nothing to validate."}
	}

	overall := CategoryInfo
	var summaries []string
	for _, p := range probes {
		summaries = append(summaries, fmt.Sprintf("[%s] %s", p.Category, p.Summary))
		if p.Category == CategoryCritical {
			overall = CategoryCritical
		} else if p.Category == CategoryWarning && overall != CategoryCritical {
			overall = CategoryWarning
		}
	}
	return ValidationOutcome{Category: overall, Summary: strings.Join(summaries, "\n")}
}

// cachedProbe runs fn unless a cache hit exists for this validation
// type over the given files; a hit is reported with a "[CACHED]" prefix.
func (d *Dispatcher) cachedProbe(ctx context.Context, validationType string, relevantFiles []string, fn func() (string, int)) ValidationOutcome {
	key := cache.Key(validationType, relevantFiles, nil)
	if cached, ok := d.Cache.Lookup(ctx, key); ok {
		category := categoryFromCached(cached)
		summary := cached
		if idx := strings.Index(cached, "|"); idx > 0 {
			summary = cached[idx+1:]
		}
		return ValidationOutcome{Category: category, Summary: "[CACHED] " + summary}
	}

	output, exitCode := fn()
	category := categorize(output, exitCode)
	summary := fmt.Sprintf("%s: %s", validationType, strings.TrimSpace(firstLine(output)))
	d.Cache.Store(ctx, key, relevantFiles, string(category)+"|"+summary)
	return ValidationOutcome{Category: category, Summary: summary}
}

func categoryFromCached(cached string) string {
	if idx := strings.Index(cached, "|"); idx > 0 {
		return cached[:idx]
	}
	return CategoryInfo
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	if s == "" {
		return "ok"
	}
	return s
}

func (d *Dispatcher) pathExists(ctx context.Context, path string) (bool, error) {
	res, err := d.Exec.Execute(ctx, fmt.Sprintf("test -e %q", path), 10)
	return err == nil && res.ExitCode == 0, err
}

func (d *Dispatcher) anyPathExists(ctx context.Context, paths ...string) (bool, error) {
	for _, p := range paths {
		if ok, _ := d.pathExists(ctx, p); ok {
			return true, nil
		}
	}
	return false, nil
}

func (d *Dispatcher) anyGlobExists(ctx context.Context, globs ...string) (bool, error) {
	for _, g := range globs {
		res, err := d.Exec.Execute(ctx, fmt.Sprintf(`find . -name %q | head -n 1`, g), 10)
		if err == nil && strings.TrimSpace(res.Output) != "" {
			return true, nil
		}
	}
	return false, nil
}
