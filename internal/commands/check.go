package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tbingest/internal/classify"
	"github.com/cleared-dev/tbingest/internal/export"
	"github.com/cleared-dev/tbingest/internal/logger"
	"github.com/cleared-dev/tbingest/internal/model"
	"github.com/cleared-dev/tbingest/internal/pipeline"
)

func newCheckCommand(repoDir *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Ingest one trial balance and report whether it balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "csv" {
				return fmt.Errorf("unknown format %q (want text or csv)", format)
			}

			cfg, err := loadConfig(*repoDir)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())
			opts.Logger = &log

			return runCheck(cmd.OutOrStdout(), pipeline.New(opts), args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or csv")

	return cmd
}

func runCheck(out io.Writer, p *pipeline.Pipeline, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	res, err := p.Run(model.NewUpload(filepath.Base(path), data))
	if err != nil {
		return err
	}

	if format == "csv" {
		return export.WriteEntries(out, res.Entries)
	}
	return printReport(out, filepath.Base(path), res, p.Options().LineItems)
}

func printReport(out io.Writer, name string, res *pipeline.Result, items classify.LineItemTable) error {
	fmt.Fprintf(out, "File:     %s (%s)\n", name, res.Kind)
	fmt.Fprintf(out, "Entries:  %d (%d rows skipped)\n\n", len(res.Entries), len(res.Skipped))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TYPE\tLINE ITEM\tACCOUNTS\tDEBIT\tCREDIT\tBALANCE\t")
	for _, l := range items.Summarize(res.Entries) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t\n",
			l.Type, l.Bucket, l.Accounts,
			l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.Balance().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	v := res.Validation
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total debits:   %s\n", v.TotalDebits.StringFixed(2))
	fmt.Fprintf(out, "Total credits:  %s\n", v.TotalCredits.StringFixed(2))
	fmt.Fprintf(out, "Discrepancy:    %s\n", v.Discrepancy.StringFixed(2))
	if v.Balanced {
		fmt.Fprintln(out, "Status:         balanced")
	} else {
		fmt.Fprintf(out, "Status:         needs correction (tolerance %s)\n", v.Tolerance.StringFixed(2))
	}

	if len(res.Issues) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, i := range res.Issues {
			fmt.Fprintf(out, "  %s\n", i)
		}
	}
	return nil
}
