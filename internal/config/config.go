/*
PURPOSE:
  Defines the configuration structure and loading logic for Telemetry Report.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Scan public/reports and public/reports_local unless told otherwise.
  - Write reports under public/manual_reports.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Bad numeric values (workers <= 0) fall back to defaults instead of failing.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Returns error if an explicitly given config file is missing.
  - No file found during the default search means defaults.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible.

USAGE:
  cfg, err := config.Load("telemetry_report.yaml")

RELATED FILES:
  - internal/cli/root.go
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFilePattern = "telemetry_*.json"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config represents the full configuration for Telemetry Report.
type Config struct {
	// InputDirs are scanned in order; earlier directories win on duplicate stems.
	InputDirs   []string `yaml:"input_dirs"`
	OutputDir   string   `yaml:"output_dir"`
	FilePattern string   `yaml:"file_pattern"`
	// Workers bounds concurrent file parsing.
	Workers    int    `yaml:"workers"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	WriteJSONL bool   `yaml:"write_jsonl"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		InputDirs: []string{
			filepath.Join("public", "reports"),
			filepath.Join("public", "reports_local"),
		},
		OutputDir:   filepath.Join("public", "manual_reports"),
		FilePattern: DefaultFilePattern,
		Workers:     runtime.NumCPU(),
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		WriteJSONL:  true,
	}
}

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"telemetry_report.yaml", "report.yaml"}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Validate()
	return cfg, nil
}

// Validate replaces unusable values with defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.FilePattern == "" {
		c.FilePattern = def.FilePattern
	}
	if len(c.InputDirs) == 0 {
		c.InputDirs = def.InputDirs
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
}
