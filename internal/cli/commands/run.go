package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grug-lang/grug/engine"
	"github.com/grug-lang/grug/interp"
	"github.com/grug-lang/grug/internal/cli/config"
	"github.com/grug-lang/grug/internal/cli/ui"
)

var (
	runOnFnArgs string
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path> <on_fn>",
		Short: "Spawn an entity from a compiled script and dispatch one on_fn hook",
		Long: `Load and type-check every mod under mods_dir_path, spawn a single entity
from the script at path, and dispatch the named on_fn hook against it.

This exists for exercising a mod script from the command line without a
game host attached; --args supplies the hook's arguments as a JSON array,
passed positionally to the on_fn's declared parameters as number, bool, or
string values. JSON has no id form: an id parameter receives a number value.`,
		Example: `  grug run mods/core/goblin-Enemy.grug on_spawn --args '[1]'
  grug run mods/core/goblin-Enemy.grug on_spawn`,
		Args: cobra.ExactArgs(2),
		RunE: runRun,
	}

	cmd.Flags().StringVar(&runOnFnArgs, "args", "[]", "JSON array of arguments to pass to the on_fn hook")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	path, onFnName := args[0], args[1]

	infoColor := color.New(color.FgCyan)
	successColor := color.New(color.FgGreen, color.Bold)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading grug.yml: %w", err)
	}

	packages, err := resolvePackages(cfg.Packages)
	if err != nil {
		return err
	}

	e, err := engine.New(engine.Config{
		ModApiPath:      cfg.ModApiPath,
		ModsDirPath:     cfg.ModsDirPath,
		OnFnTimeLimitMs: cfg.OnFnTimeLimitMs,
		Packages:        packages,
	})
	if err != nil {
		return fmt.Errorf("compiling mods: %w", err)
	}

	cf, ok := e.Files()[path]
	if !ok {
		// Files are keyed by the path the loader walked; accept any other
		// spelling (e.g. absolute) of the same file on disk.
		if want, statErr := os.Stat(path); statErr == nil {
			for p, f := range e.Files() {
				if got, err := os.Stat(p); err == nil && os.SameFile(want, got) {
					cf, ok = f, true
					break
				}
			}
		}
	}
	if !ok {
		return fmt.Errorf("%s was not discovered under %s", path, cfg.ModsDirPath)
	}

	hookArgs, err := decodeArgs(runOnFnArgs)
	if err != nil {
		return fmt.Errorf("parsing --args: %w", err)
	}

	if _, ok := cf.OnFn(onFnName); !ok {
		if close := ui.FindBestMatch(onFnName, cf.OnFnNames(), nil); close != "" {
			return fmt.Errorf("%s has no %s hook; did you mean %s?", cf.Path, onFnName, close)
		}
		return fmt.Errorf("%s has no %s hook", cf.Path, onFnName)
	}

	entity, err := e.Spawn(cf)
	if err != nil {
		return fmt.Errorf("spawning entity: %w", err)
	}

	infoColor.Printf("Spawned entity %d from %s (mod %s, %s)\n", entity.ID, cf.Path, cf.Mod, cf.EntityType)

	if err := entity.Dispatch(onFnName, hookArgs); err != nil {
		return fmt.Errorf("dispatching %s: %w", onFnName, err)
	}

	successColor.Printf("✓ dispatched %s\n", onFnName)
	return nil
}

// decodeArgs turns a JSON array into interp.Values: numbers become
// interp.Number, strings become interp.String, and booleans become
// interp.Bool. There is no JSON representation for an id value; a number
// passed for an id parameter stays an interp.Number and is not converted.
func decodeArgs(raw string) ([]interp.Value, error) {
	var parsed []any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}

	values := make([]interp.Value, len(parsed))
	for i, v := range parsed {
		switch val := v.(type) {
		case float64:
			values[i] = interp.Number(val)
		case string:
			values[i] = interp.String(val)
		case bool:
			values[i] = interp.Bool(val)
		default:
			return nil, fmt.Errorf("unsupported argument at index %d: %v", i, v)
		}
	}
	return values, nil
}
