// Package config loads grug's engine configuration from grug.yml using a
// viper-backed loader with mapstructure-tagged defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// PackageConfig names one bundled game-function package to load and the
// prefix its functions should be registered under.
type PackageConfig struct {
	Name   string `mapstructure:"name"`
	Prefix string `mapstructure:"prefix"`
}

// Config is grug's engine-construction configuration.
type Config struct {
	ModApiPath      string          `mapstructure:"mod_api_path"`
	ModsDirPath     string          `mapstructure:"mods_dir_path"`
	OnFnTimeLimitMs int             `mapstructure:"on_fn_time_limit_ms"`
	Packages        []PackageConfig `mapstructure:"packages"`
}

// Load loads the configuration from grug.yml or grug.yaml, falling back to
// defaults when no config file is present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("mod_api_path", "mod_api.json")
	v.SetDefault("mods_dir_path", "mods")
	v.SetDefault("on_fn_time_limit_ms", 100)

	v.SetConfigName("grug")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig checks invariants Load cannot express through viper
// defaults alone.
func validateConfig(cfg *Config) error {
	if cfg.OnFnTimeLimitMs <= 0 {
		return fmt.Errorf("on_fn_time_limit_ms must be positive, got %d", cfg.OnFnTimeLimitMs)
	}
	seen := map[string]bool{}
	for _, pkg := range cfg.Packages {
		if seen[pkg.Prefix] {
			return fmt.Errorf("duplicate package prefix %q", pkg.Prefix)
		}
		seen[pkg.Prefix] = true
	}
	return nil
}

// InProject reports whether the current directory looks like a grug mod
// project: a mods/ directory alongside a grug.yml or grug.yaml.
func InProject() bool {
	if _, err := os.Stat("mods"); err != nil {
		return false
	}
	if _, err := os.Stat("grug.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("grug.yaml"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot walks upward from the working directory looking for
// grug.yml/grug.yaml, falling back to a mods/ directory.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "grug.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "grug.yaml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "mods")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a grug project (no grug.yml found)")
		}
		dir = parent
	}
}
