package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	newInteractive bool
	newEntityType  string
)

var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateProjectName rejects anything that could escape the current
// directory or collide with shell-special characters once it's joined
// into a path.
func validateProjectName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("project name must be 1-100 characters")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name cannot be an absolute path")
	}
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("project name can only contain letters, numbers, dashes, and underscores")
	}

	return nil
}

// validateEntityType requires PascalCase so the scaffolded file name
// parses under the same <name>-<EntityType>.grug convention the engine's
// loader enforces.
func validateEntityType(name string) error {
	matched, _ := regexp.MatchString(`^[A-Z][a-zA-Z0-9]*$`, name)
	if !matched {
		return fmt.Errorf("entity type must be PascalCase, e.g. Enemy")
	}
	return nil
}

// NewNewCommand creates the new command.
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Scaffold a new grug project",
		Long: `Create a new grug project: a grug.yml config, a starter mod_api.json,
and one mod script under mods/core.

If no project name is provided, you will be prompted to enter one.`,
		Example: `  grug new my-game
  grug new my-game --entity-type Enemy
  grug new --interactive`,
		RunE: runNew,
	}

	cmd.Flags().BoolVarP(&newInteractive, "interactive", "i", false, "Prompt for project name and entity type")
	cmd.Flags().StringVar(&newEntityType, "entity-type", "Enemy", "Entity type the starter script implements")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	promptColor := color.New(color.FgYellow)

	var projectName string
	if len(args) > 0 {
		projectName = args[0]
	}
	entityType := newEntityType

	if newInteractive {
		if projectName == "" {
			prompt := &survey.Input{Message: "Project name:"}
			if err := survey.AskOne(prompt, &projectName, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
		}
		prompt := &survey.Input{Message: "Starter entity type:", Default: entityType}
		if err := survey.AskOne(prompt, &entityType, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if err := validateProjectName(projectName); err != nil {
		return err
	}
	if err := validateEntityType(entityType); err != nil {
		return err
	}

	projectPath := filepath.Join(".", projectName)
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("directory %s already exists", projectName)
	}

	infoColor.Printf("Creating project: %s\n\n", projectName)

	modsDir := filepath.Join(projectPath, "mods", "core")
	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", modsDir, err)
	}

	lowerEntity := strings.ToLower(entityType)

	if err := renderToFile(filepath.Join(projectPath, "grug.yml"), grugYmlTemplate, nil); err != nil {
		return err
	}
	infoColor.Println("  ✓ Created grug.yml")

	if err := renderToFile(filepath.Join(projectPath, "mod_api.json"), modApiTemplate, map[string]string{
		"EntityType": entityType,
		"LowerEntity": lowerEntity,
	}); err != nil {
		return err
	}
	infoColor.Println("  ✓ Created mod_api.json")

	scriptName := fmt.Sprintf("%s-%s.grug", lowerEntity, entityType)
	scriptPath := filepath.Join(modsDir, scriptName)
	if err := renderToFile(scriptPath, grugScriptTemplate, map[string]string{
		"EntityType": entityType,
	}); err != nil {
		return err
	}
	infoColor.Printf("  ✓ Created mods/core/%s\n", scriptName)

	if err := renderToFile(filepath.Join(projectPath, "README.md"), readmeTemplate, map[string]string{
		"ProjectName": projectName,
		"EntityType":  entityType,
	}); err != nil {
		return err
	}
	infoColor.Println("  ✓ Created README.md")

	fmt.Println()
	successColor.Printf("✓ Created project: %s\n\n", projectName)
	promptColor.Println("Get started:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  grug check")
	fmt.Printf("  grug run mods/core/%s on_spawn\n", scriptName)

	return nil
}

func renderToFile(path, tmplText string, data any) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(tmplText)
	if err != nil {
		return fmt.Errorf("parsing template for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		os.Remove(path)
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}

const grugYmlTemplate = `mod_api_path: mod_api.json
mods_dir_path: mods
on_fn_time_limit_ms: 100
packages:
  - name: stdlib
    prefix: std
`

const modApiTemplate = `{
  "entities": {
    "{{.EntityType}}": {
      "on_functions": {
        "on_spawn": {
          "arguments": [{"name": "me", "type": "id", "entity_type": "{{.LowerEntity}}"}]
        }
      }
    }
  },
  "game_functions": {
    "take_damage": {
      "arguments": [
        {"name": "me", "type": "id", "entity_type": "{{.LowerEntity}}"},
        {"name": "amount", "type": "number"}
      ]
    }
  }
}
`

const grugScriptTemplate = `health: number = 100

on_spawn(me: id) {
    take_damage(me, 0)
}
`

const readmeTemplate = `# {{.ProjectName}}

A grug mod project.

## Getting started

` + "```bash" + `
grug check
grug run mods/core/*-{{.EntityType}}.grug on_spawn
` + "```" + `

## Project structure

- ` + "`mods/`" + ` — one ` + "`.grug`" + ` script per file, named ` + "`<name>-<EntityType>.grug`" + `
- ` + "`mod_api.json`" + ` — the host's published entity types and game functions
- ` + "`grug.yml`" + ` — engine configuration (mod API path, mods directory, call time limit, packages)
`
