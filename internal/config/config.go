// Package config holds sheetqa configuration. Configuration is loaded
// from an optional YAML file with defaults applied for anything missing;
// directory roots can additionally be overridden from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all sheetqa configuration.
type Config struct {
	Golden     GoldenConfig     `yaml:"golden" json:"golden"`
	Approval   ApprovalConfig   `yaml:"approval" json:"approval"`
	Assessment AssessmentConfig `yaml:"assessment" json:"assessment"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// GoldenConfig configures golden-reference persistence.
type GoldenConfig struct {
	Root string `yaml:"root" json:"root"` // golden-references directory tree
}

// ApprovalConfig configures the approval workflow.
type ApprovalConfig struct {
	Root          string `yaml:"root" json:"root"`                    // pending-approvals directory tree
	RetentionDays int    `yaml:"retention_days" json:"retentionDays"` // terminal-submission retention window
}

// AssessmentConfig configures the rule-based assessment engine.
type AssessmentConfig struct {
	HistoryDB string `yaml:"history_db" json:"historyDb"` // SQLite assessment-history path
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Golden:     GoldenConfig{Root: "golden-references"},
		Approval:   ApprovalConfig{Root: "pending-approvals", RetentionDays: 30},
		Assessment: AssessmentConfig{HistoryDB: filepath.Join("data", "assessment-history.db")},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Environment overrides for the directory roots. Useful in CI where the
// trees live outside the working directory.
const (
	envGoldenRoot   = "SHEETQA_GOLDEN_ROOT"
	envApprovalRoot = "SHEETQA_APPROVAL_ROOT"
	envHistoryDB    = "SHEETQA_HISTORY_DB"
)

// Load reads configuration from path. A missing file is not an error:
// defaults apply. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if v := os.Getenv(envGoldenRoot); v != "" {
		cfg.Golden.Root = v
	}
	if v := os.Getenv(envApprovalRoot); v != "" {
		cfg.Approval.Root = v
	}
	if v := os.Getenv(envHistoryDB); v != "" {
		cfg.Assessment.HistoryDB = v
	}

	if cfg.Approval.RetentionDays <= 0 {
		cfg.Approval.RetentionDays = 30
	}
	return cfg, nil
}
