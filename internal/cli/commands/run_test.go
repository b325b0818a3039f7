package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()

	if cmd.Use != "run <path> <on_fn>" {
		t.Errorf("expected Use to be 'run <path> <on_fn>', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Flags().Lookup("args") == nil {
		t.Error("expected --args flag to be registered")
	}
}

func writeRunProject(t *testing.T, dir string) string {
	t.Helper()

	apiContent := `{
		"entities": {
			"Enemy": {"on_functions": {"on_spawn": {"arguments": [{"name": "me", "type": "id", "entity_type": "enemy"}]}}}
		},
		"game_functions": {
			"take_damage": {"arguments": [{"name": "amount", "type": "number"}]}
		}
	}`
	if err := os.WriteFile(filepath.Join(dir, "mod_api.json"), []byte(apiContent), 0644); err != nil {
		t.Fatalf("failed to write mod_api.json: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "mods", "core"), 0755); err != nil {
		t.Fatalf("failed to create mods dir: %v", err)
	}
	script := "health: number = 100\n\non_spawn(me: id) {\n    take_damage(health)\n}\n"
	scriptPath := filepath.Join(dir, "mods", "core", "goblin-Enemy.grug")
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		t.Fatalf("failed to write mod script: %v", err)
	}
	return scriptPath
}

func TestRunRun_DispatchesOnFn(t *testing.T) {
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	scriptPath := writeRunProject(t, dir)

	cmd := NewRunCommand()
	runOnFnArgs = "[]"
	if err := runRun(cmd, []string{scriptPath, "on_spawn"}); err != nil {
		t.Errorf("expected run to succeed, got: %v", err)
	}
}

func TestRunRun_FailsOnUnknownPath(t *testing.T) {
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	writeRunProject(t, dir)

	cmd := NewRunCommand()
	runOnFnArgs = "[]"
	if err := runRun(cmd, []string{"mods/core/missing-Enemy.grug", "on_spawn"}); err == nil {
		t.Error("expected run to fail for a path the engine never discovered")
	}
}

func TestRunRun_FailsOnUnknownOnFnWithSuggestion(t *testing.T) {
	dir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	scriptPath := writeRunProject(t, dir)

	cmd := NewRunCommand()
	runOnFnArgs = "[]"
	err := runRun(cmd, []string{scriptPath, "on_spwan"})
	if err == nil {
		t.Fatal("expected run to fail for a hook the script doesn't implement")
	}
	if !strings.Contains(err.Error(), "on_spawn") {
		t.Errorf("expected error to suggest the close match on_spawn, got: %v", err)
	}
}

func TestDecodeArgs(t *testing.T) {
	values, err := decodeArgs(`[1, "goblin", true]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0].Number() != 1 {
		t.Errorf("expected first value to be 1, got %v", values[0].Number())
	}
	if values[1].String() != "goblin" {
		t.Errorf("expected second value to be 'goblin', got %v", values[1].String())
	}
	if !values[2].Bool() {
		t.Errorf("expected third value to be true")
	}
}

func TestDecodeArgs_RejectsMalformedJSON(t *testing.T) {
	if _, err := decodeArgs("not json"); err == nil {
		t.Error("expected decodeArgs to fail on malformed JSON")
	}
}
