package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tbingest/internal/buildinfo"
	"github.com/cleared-dev/tbingest/internal/config"
	"github.com/cleared-dev/tbingest/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var repoDir string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:     "tbingest",
		Short:   "Trial balance ingestion for accounting exports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logLevel
			if level == "" {
				cfg, err := loadConfig(repoDir)
				if err != nil {
					return err
				}
				level = cfg.Logging.Level
			}
			log := logger.NewConsole(level, cmd.ErrOrStderr())
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level (overrides tbingest.yaml)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCheckCommand(&repoDir))
	rootCmd.AddCommand(newImportCommand(&repoDir))

	return rootCmd
}

// loadConfig reads <repoDir>/tbingest.yaml, falling back to defaults when the
// workspace has none.
func loadConfig(repoDir string) (*config.Config, error) {
	absDir, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(filepath.Base(absDir)), nil
	}
	return cfg, err
}
