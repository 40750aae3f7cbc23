package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kieli-lang/kieli/internal/config"
)

var initInteractive bool

func init() {
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "prompt for project settings instead of using defaults")
}

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Scaffold a kieli.yml and src/ directory for a new project",
	Long: `Create a kieli.yml configuration file and an empty source root.

With --interactive, prompts for the project name and source root instead
of accepting the defaults or command-line argument.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)

	name := "kieli-project"
	if len(args) > 0 {
		name = args[0]
	}
	sourceRoot := "src"

	if initInteractive {
		questions := []*survey.Question{
			{
				Name:     "name",
				Prompt:   &survey.Input{Message: "Project name:", Default: name},
				Validate: validateProjectName,
			},
			{
				Name:   "sourceRoot",
				Prompt: &survey.Input{Message: "Source root:", Default: sourceRoot},
			},
		}
		answers := struct {
			Name       string
			SourceRoot string
		}{}
		if err := survey.Ask(questions, &answers); err != nil {
			return fmt.Errorf("prompting for project settings: %w", err)
		}
		name, sourceRoot = answers.Name, answers.SourceRoot
	} else if err := validateProjectName(name); err != nil {
		return err
	}

	cfg := &config.Config{
		ProjectName: name,
		Source:      config.SourceConfig{Root: sourceRoot},
		Build:       config.BuildConfig{Output: "build"},
		Format:      config.FormatConfig{IndentWidth: 2, UseTabs: false},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding kieli.yml: %w", err)
	}
	if err := os.WriteFile("kieli.yml", data, 0o644); err != nil {
		return fmt.Errorf("writing kieli.yml: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(".", sourceRoot), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sourceRoot, err)
	}

	successColor.Printf("initialized %s in %s/\n", name, sourceRoot)
	return nil
}

func validateProjectName(ans interface{}) error {
	name, ok := ans.(string)
	if !ok {
		return fmt.Errorf("project name must be a string")
	}
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return fmt.Errorf("project name must be 1-100 characters")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name cannot be an absolute path")
	}
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_-]+$`, name)
	if !matched {
		return fmt.Errorf("project name can only contain letters, numbers, dashes, and underscores")
	}
	return nil
}
