package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tbingest/internal/gitops"
	"github.com/cleared-dev/tbingest/internal/importer"
	"github.com/cleared-dev/tbingest/internal/mapping"
	"github.com/cleared-dev/tbingest/internal/pipeline"
)

// FileName is the config file at the workspace root.
const FileName = "tbingest.yaml"

// Config represents the top-level tbingest.yaml configuration.
type Config struct {
	Workspace  WorkspaceConfig  `yaml:"workspace"`
	Validation ValidationConfig `yaml:"validation"`
	Mapping    MappingConfig    `yaml:"mapping"`
	Import     ImportConfig     `yaml:"import"`
	Logging    LoggingConfig    `yaml:"logging"`
	Git        GitConfig        `yaml:"git"`
}

// WorkspaceConfig identifies whose trial balances live in the workspace.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
}

// ValidationConfig controls the balance check.
type ValidationConfig struct {
	Tolerance string `yaml:"tolerance"` // decimal string, e.g. "0.01"
}

// MappingConfig selects the row mapping policies.
type MappingConfig struct {
	Coercion       string `yaml:"coercion"` // lenient | strict
	SkipTotalsRows bool   `yaml:"skip_totals_rows"`
}

// ImportConfig controls the import directory scan.
type ImportConfig struct {
	Workers    int      `yaml:"workers"`
	Extensions []string `yaml:"extensions,flow"`
}

// LoggingConfig sets the diagnostic log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration. Commits only happen in workspaces
// that are git repositories.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Author returns the commit identity.
func (g GitConfig) Author() gitops.Author {
	return gitops.Author{Name: g.AuthorName, Email: g.AuthorEmail}
}

// Load reads a tbingest.yaml file from disk. Missing sections take their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Options(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name string) *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Name: name,
		},
		Validation: ValidationConfig{
			Tolerance: "0.01",
		},
		Mapping: MappingConfig{
			Coercion:       mapping.CoerceLenient.String(),
			SkipTotalsRows: true,
		},
		Import: ImportConfig{
			Workers:    4,
			Extensions: append([]string(nil), importer.DefaultExtensions...),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "tbingest",
			AuthorEmail: "tbingest@localhost",
		},
	}
}

// Options converts the file settings into pipeline options. The logger is
// left for the caller to attach.
func (c *Config) Options() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	if s := strings.TrimSpace(c.Validation.Tolerance); s != "" {
		tol, err := decimal.NewFromString(s)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("parsing validation.tolerance %q: %w", s, err)
		}
		if tol.IsNegative() {
			return pipeline.Options{}, fmt.Errorf("validation.tolerance %s is negative", tol)
		}
		opts.Tolerance = tol
	}

	coercion, err := mapping.ParseCoercionPolicy(c.Mapping.Coercion)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("mapping.coercion: %w", err)
	}
	opts.Coercion = coercion
	opts.Skip.SkipTotals = c.Mapping.SkipTotalsRows

	return opts, nil
}
