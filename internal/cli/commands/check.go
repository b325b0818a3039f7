package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/grug-lang/grug/engine"
	"github.com/grug-lang/grug/internal/cli/config"
	"github.com/grug-lang/grug/internal/cli/ui"
)

var checkJSON bool

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Type-check every mod script without running it",
		Long: `Load mod_api.json, discover every .grug file under mods_dir_path, and
run the tokenizer, parser, and type propagator over each one.

A script that fails to compile aborts the whole check; nothing is ever
partially loaded for a host to run.`,
		Example: `  grug check
  grug check --json`,
		RunE: runCheck,
	}

	cmd.Flags().BoolVar(&checkJSON, "json", false, "Output the result as JSON")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading grug.yml: %w", err)
	}

	packages, err := resolvePackages(cfg.Packages)
	if err != nil {
		return err
	}

	start := time.Now()
	e, err := engine.New(engine.Config{
		ModApiPath:      cfg.ModApiPath,
		ModsDirPath:     cfg.ModsDirPath,
		OnFnTimeLimitMs: cfg.OnFnTimeLimitMs,
		Packages:        packages,
	})
	elapsed := time.Since(start)

	if checkJSON {
		return reportCheckJSON(e, err)
	}
	return reportCheckTerminal(e, err, elapsed)
}

func reportCheckTerminal(e *engine.Engine, err error, elapsed time.Duration) error {
	if err != nil {
		fmt.Fprint(os.Stderr, ui.CompileError(err.Error(), nil, false))
		return fmt.Errorf("check failed")
	}

	ui.WriteSuccess(os.Stdout, fmt.Sprintf("%d file(s) compiled in %.3fs", len(e.Files()), elapsed.Seconds()), false)

	table := ui.NewTable(os.Stdout, []string{"FILE", "MOD", "ENTITY TYPE", "ON_FNS"}, nil)
	for path, cf := range e.Files() {
		table.AddRow(path, cf.Mod, cf.EntityType, fmt.Sprintf("%d", len(cf.OnFnNames())))
	}
	table.Render()
	return nil
}

type checkResult struct {
	Success bool   `json:"success"`
	Files   int    `json:"files,omitempty"`
	Error   string `json:"error,omitempty"`
}

func reportCheckJSON(e *engine.Engine, err error) error {
	result := checkResult{Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Files = len(e.Files())
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if encErr := encoder.Encode(result); encErr != nil {
		return encErr
	}
	if err != nil {
		return fmt.Errorf("check failed")
	}
	return nil
}
