package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turnagent/core/internal/dispatch"
	"github.com/turnagent/core/internal/exec"
	"github.com/turnagent/core/internal/llm"
	"github.com/turnagent/core/internal/logger"
	"github.com/turnagent/core/internal/orchestrator"
)

var (
	flagContainer   string
	flagModel       string
	flagTemperature float64
	flagAPIKey      string
	flagAPIBase     string
	flagMaxTurns    int
	flagLogDir      string
	flagWorkdir     string
)

var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Run the agent against a single task instruction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTask,
}

func init() {
	runCmd.Flags().StringVar(&flagContainer, "container", "", "container image/id the executor should target (reserved; local executor ignores it)")
	runCmd.Flags().StringVar(&flagModel, "model", "", "LLM model identifier")
	runCmd.Flags().Float64Var(&flagTemperature, "temperature", 0.2, "LLM sampling temperature")
	runCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "LLM provider API key")
	runCmd.Flags().StringVar(&flagAPIBase, "api-base", "", "LLM provider API base URL")
	runCmd.Flags().IntVar(&flagMaxTurns, "max-turns", 50, "maximum orchestrator turns before giving up")
	runCmd.Flags().StringVar(&flagLogDir, "log-dir", "", "directory for the turnagent.log log file")
	runCmd.Flags().StringVar(&flagWorkdir, "workdir", ".", "working directory the executor runs commands in")
}

func runTask(c *cobra.Command, args []string) error {
	instruction := args[0]

	log, err := logger.New(logger.Config{
		LogFile:      logFilePath(),
		Level:        "info",
		Format:       "text",
		EnableStdout: true,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	client, err := newClient()
	if err != nil {
		return err
	}

	executor := exec.NewLocalExecutor(flagWorkdir, log)
	d := dispatch.New(executor, log)
	d.Subagents = &orchestrator.SubagentRunner{Exec: executor, LLM: client, Logger: log}

	orch := orchestrator.New(d, client, defaultSystemPrompt, flagMaxTurns, log)
	result := orch.Run(context.Background(), instruction)

	fmt.Printf("completed=%t turnsExecuted=%d maxTurnsReached=%t\n", result.Completed, result.TurnsExecuted, result.MaxTurnsReached)
	if result.FinishMessage != "" {
		fmt.Println(result.FinishMessage)
	}

	if !result.Completed {
		os.Exit(1)
	}
	return nil
}

func logFilePath() string {
	if flagLogDir == "" {
		return ""
	}
	return flagLogDir + "/turnagent.log"
}

// newClient constructs the configured LLM client. No concrete provider
// ships with this module (the LLM HTTP client is intentionally out of
// scope); callers wanting a real run must supply one via a build that
// wires llm.Client themselves.
func newClient() (llm.Client, error) {
	if flagAPIKey == "" {
		return nil, fmt.Errorf("no LLM client wired: pass --api-key against a build with a concrete llm.Client, or construct *orchestrator.Orchestrator directly with one")
	}
	return nil, fmt.Errorf("no built-in LLM provider client: this module only declares the llm.Client interface; no concrete HTTP client ships here")
}

const defaultSystemPrompt = `You are an autonomous coding agent. Respond with one or more XML-tagged actions, each tag's body a YAML mapping of its fields.

Top-level tags: bash, batch_bash, todo, task_create, add_context, launch_subagent, report, finish.
Composite tags carry an "action:" field that picks the variant:
  <file>action: read|write|edit|multi_edit|metadata, filePath: ..., ...</file>
  <search>action: grep|glob|ls, ...</search>
  <scratchpad>action: add_note|view_all_notes, ...</scratchpad>

Call finish only once the task is done and no turn error is outstanding.`
