package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	testCases := []struct {
		name        string
		projectName string
		expectError bool
		errorMsg    string
	}{
		{name: "valid name", projectName: "my-project"},
		{name: "valid name with underscores", projectName: "my_project"},
		{name: "valid name alphanumeric", projectName: "myproject123"},
		{
			name:        "empty string",
			projectName: "",
			expectError: true,
			errorMsg:    "must be 1-100 characters",
		},
		{
			name:        "whitespace only",
			projectName: "   ",
			expectError: true,
			errorMsg:    "must be 1-100 characters",
		},
		{
			name:        "contains slash",
			projectName: "my/project",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "contains dot",
			projectName: "my.project",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "path traversal attempt",
			projectName: "../malicious",
			expectError: true,
			errorMsg:    "can only contain letters, numbers, dashes, and underscores",
		},
		{
			name:        "absolute path",
			projectName: "/usr/bin/malware",
			expectError: true,
			errorMsg:    "cannot be an absolute path",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProjectName(tc.projectName)

			if tc.expectError {
				if err == nil {
					t.Errorf("expected error for project name %q, got nil", tc.projectName)
				} else if tc.errorMsg != "" && !contains(err.Error(), tc.errorMsg) {
					t.Errorf("expected error to contain %q, got %q", tc.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error for project name %q, got %v", tc.projectName, err)
			}
		})
	}
}

func TestValidateEntityType(t *testing.T) {
	if err := validateEntityType("Enemy"); err != nil {
		t.Errorf("expected Enemy to be valid, got %v", err)
	}
	if err := validateEntityType("enemy"); err == nil {
		t.Error("expected lowercase entity type to be rejected")
	}
	if err := validateEntityType("Enemy Type"); err == nil {
		t.Error("expected entity type with a space to be rejected")
	}
}

// Helper function for string contains check
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestNewNewCommand(t *testing.T) {
	cmd := NewNewCommand()

	if cmd.Use != "new [project-name]" {
		t.Errorf("expected Use to be 'new [project-name]', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Flags().Lookup("interactive") == nil {
		t.Error("expected --interactive flag to be registered")
	}

	if cmd.Flags().Lookup("entity-type") == nil {
		t.Error("expected --entity-type flag to be registered")
	}
}

func TestRunNew_DirectoryAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingDir := filepath.Join(tmpDir, "existing-project")
	if err := os.MkdirAll(existingDir, 0755); err != nil {
		t.Fatalf("failed to create test directory: %v", err)
	}

	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	cmd := NewNewCommand()
	newEntityType = "Enemy"
	err := runNew(cmd, []string{"existing-project"})

	if err == nil {
		t.Error("expected error when directory already exists, got nil")
	}
	if !contains(err.Error(), "already exists") {
		t.Errorf("expected 'already exists' error, got: %v", err)
	}
}

func TestRunNew_InvalidProjectName(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	testCases := []string{"", "my/project", "my.project", "/tmp/project"}

	for _, name := range testCases {
		t.Run(name, func(t *testing.T) {
			cmd := NewNewCommand()
			newEntityType = "Enemy"
			if err := runNew(cmd, []string{name}); err == nil {
				t.Errorf("expected error for project name %q, got nil", name)
			}
		})
	}
}

func TestRunNew_ValidProjectCreation(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	cmd := NewNewCommand()
	newEntityType = "Enemy"
	if err := runNew(cmd, []string{"test-project"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedDirs := []string{
		"test-project",
		"test-project/mods",
		"test-project/mods/core",
	}
	for _, dir := range expectedDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	expectedFiles := []string{
		"test-project/grug.yml",
		"test-project/mod_api.json",
		"test-project/mods/core/enemy-Enemy.grug",
		"test-project/README.md",
	}
	for _, file := range expectedFiles {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			t.Errorf("expected file %s to exist", file)
		}
	}
}
