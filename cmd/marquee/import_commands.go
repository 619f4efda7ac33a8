package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/ingest"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import pick exports into the club database",
	}

	importCmd.AddCommand(newImportMentionsCommand(ctx))
	importCmd.AddCommand(newImportRankingsCommand(ctx))

	return importCmd
}

func newImportMentionsCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var mappingPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "mentions",
		Short: "Import a special-mention export into the global pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ingest.Options{CSVPath: csvPath, DryRun: dryRun}
			return runImport(cmd, ctx, mappingPath, opts, ingest.RunMentions)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the export file")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "JSON file mapping raw names to account IDs")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the full pipeline without writing to the database")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func newImportRankingsCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var mappingPath string
	var year int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Import an annual ranking export into a year pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ingest.Options{CSVPath: csvPath, Year: year, DryRun: dryRun}
			return runImport(cmd, ctx, mappingPath, opts, ingest.RunRankings)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the export file")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "JSON file mapping raw names to account IDs")
	cmd.Flags().IntVar(&year, "year", 0, "Ranking year (scopes the participant pool)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the full pipeline without writing to the database")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

type runFunc func(context.Context, ingest.Deps, ingest.Options) (*ingest.Report, error)

func runImport(cmd *cobra.Command, ctx *commandContext, mappingPath string, opts ingest.Options, run runFunc) error {
	rt, err := ctx.newRuntime(mappingPath)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.acquireLock(); err != nil {
		return err
	}

	report, err := run(cmd.Context(), rt.deps, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderReport(out, report)

	sidecar, err := report.WriteSidecar(opts.CSVPath)
	if err != nil {
		return err
	}
	if sidecar != "" {
		fmt.Fprintf(out, "Full issue list written to %s\n", sidecar)
	}
	return nil
}
