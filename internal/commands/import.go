package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tbingest/internal/config"
	"github.com/cleared-dev/tbingest/internal/export"
	"github.com/cleared-dev/tbingest/internal/gitops"
	"github.com/cleared-dev/tbingest/internal/importer"
	"github.com/cleared-dev/tbingest/internal/logger"
	"github.com/cleared-dev/tbingest/internal/pipeline"
	"github.com/cleared-dev/tbingest/internal/runlog"
)

func newImportCommand(repoDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Ingest every trial balance waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(*repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := loadConfig(absDir)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), absDir, cfg)
		},
	}
	return cmd
}

func runImport(ctx context.Context, out io.Writer, repoRoot string, cfg *config.Config) error {
	log := logger.FromContext(ctx)

	files, err := importer.Scan(repoRoot, cfg.Import.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files to import.")
		return nil
	}

	uploads, err := importer.LoadAll(files)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	runLog := log.With().Str("run_id", runID).Logger()
	opts.Logger = &runLog

	outcomes, runErr := pipeline.New(opts).RunAll(ctx, uploads, cfg.Import.Workers)

	var (
		entries   []runlog.Entry
		counts    = make(map[runlog.Status]int)
		settleErr error
	)
	for _, o := range outcomes {
		e, err := settle(repoRoot, runID, o)
		if err != nil {
			log.Error().Err(err).Str("upload", o.Upload.Name).Msg("settling upload")
			settleErr = errors.Join(settleErr, fmt.Errorf("settling %s: %w", o.Upload.Name, err))
		}
		counts[e.Status]++
		entries = append(entries, e)
		fmt.Fprintf(out, "%-17s %s  %s\n", e.Status, o.Upload.Name, e.Details)
	}

	if err := runlog.Append(repoRoot, entries); err != nil {
		return errors.Join(settleErr, fmt.Errorf("writing ingest log: %w", err))
	}

	fmt.Fprintf(out, "\nImported %d file(s): %d balanced, %d need correction, %d rejected.\n",
		len(outcomes), counts[runlog.StatusBalanced], counts[runlog.StatusNeedsCorrection], counts[runlog.StatusRejected])
	if settleErr != nil {
		return settleErr
	}

	if cfg.Git.AutoCommit && gitops.IsRepo(repoRoot) {
		msg := fmt.Sprintf("import: %d file(s), run %s", len(outcomes), runID)
		hash, err := gitops.CommitAll(repoRoot, msg, cfg.Git.Author())
		if err != nil {
			return fmt.Errorf("committing import: %w", err)
		}
		if hash != "" {
			fmt.Fprintf(out, "Committed %s\n", hash)
		}
	}
	return runErr
}

// settle records one outcome: accepted files are exported and moved to
// import/processed, rejected files stay where they are. A file that cannot
// be exported or moved is logged as rejected and the error returned.
func settle(repoRoot, runID string, o pipeline.Outcome) (runlog.Entry, error) {
	e := runlog.Entry{
		Timestamp: time.Now().UTC().Truncate(time.Second),
		RunID:     runID,
		File:      o.Upload.Name,
	}

	if o.Err != nil {
		e.Status = runlog.StatusRejected
		e.Details = o.Err.Error()
		return e, nil
	}

	res := o.Result
	e.Format = res.Kind.String()
	e.Entries = len(res.Entries)
	e.Skipped = len(res.Skipped)
	e.Debits = res.Validation.TotalDebits
	e.Credits = res.Validation.TotalCredits
	e.Discrepancy = res.Validation.Discrepancy
	e.Status = runlog.StatusBalanced
	if !res.Validation.Balanced {
		e.Status = runlog.StatusNeedsCorrection
	}

	path, err := export.Save(repoRoot, o.Upload.Name, res.Entries)
	if err != nil {
		return reject(e, err), err
	}
	if rel, err := filepath.Rel(repoRoot, path); err == nil {
		path = filepath.ToSlash(rel)
	}
	e.Details = path

	if err := importer.MarkProcessed(repoRoot, o.Upload.Name); err != nil {
		return reject(e, err), err
	}
	return e, nil
}

func reject(e runlog.Entry, err error) runlog.Entry {
	e.Status = runlog.StatusRejected
	e.Details = err.Error()
	return e
}
