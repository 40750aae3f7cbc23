// Package config loads a kieli project's configuration file, grounded on
// the teacher's internal/cli/config package (conduit.yml loading via
// viper), re-pointed from conduit's database/server/build sections onto
// kieli's own compiler-facing settings: source roots, build output, and
// formatter/LSP preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is a kieli project's kieli.yml/kieli.yaml configuration.
type Config struct {
	ProjectName string      `mapstructure:"project_name"`
	Source      SourceConfig `mapstructure:"source"`
	Build       BuildConfig  `mapstructure:"build"`
	Format      FormatConfig `mapstructure:"format"`
}

// SourceConfig controls where kieli looks for source files.
type SourceConfig struct {
	Root    string   `mapstructure:"root"`
	Exclude []string `mapstructure:"exclude"`
}

// BuildConfig controls compiler output.
type BuildConfig struct {
	Output string `mapstructure:"output"`
}

// FormatConfig holds the project file's formatter keys (indent_width,
// use_tabs). They do not match internal/format.Config's own options
// (IndentSize, AlignFields) one to one, and this package does not import
// internal/format or convert between the two.
type FormatConfig struct {
	IndentWidth int  `mapstructure:"indent_width"`
	UseTabs     bool `mapstructure:"use_tabs"`
}

// Load reads kieli.yml/kieli.yaml from the current directory only; parent
// directories are not searched, and the defaults apply when no file is
// found. The same defaults-then-override shape as the teacher's Load.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("source.root", "src")
	v.SetDefault("build.output", "build")
	v.SetDefault("format.indent_width", 4)
	v.SetDefault("format.use_tabs", false)

	v.SetConfigName("kieli")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("KIELI")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// InProject reports whether the current directory looks like a kieli
// project: a kieli.yml/kieli.yaml, or a source root directory.
func InProject() bool {
	if _, err := os.Stat("kieli.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("kieli.yaml"); err == nil {
		return true
	}
	if _, err := os.Stat("src"); err == nil {
		return true
	}
	return false
}

// FindProjectRoot walks up from the current directory looking for
// kieli.yml/kieli.yaml, the same upward-search the teacher's
// GetProjectRoot does for conduit.yml.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "kieli.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "kieli.yaml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a kieli project (no kieli.yml found)")
		}
		dir = parent
	}
}
