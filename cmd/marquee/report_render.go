package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"marquee/internal/ingest"
)

const (
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"

	// issueExampleLimit bounds how many rows per issue kind appear in the
	// console summary; the sidecar file carries the full list.
	issueExampleLimit = 3
)

func renderReport(out io.Writer, report *ingest.Report) {
	mode := "import"
	if report.DryRun {
		mode = "dry run (no writes performed)"
	}
	fmt.Fprintf(out, "Run %s — %s\n", report.RunID, mode)

	rows := [][]string{
		{"Rows read", strconv.Itoa(report.Rows)},
		{"Movies resolved", strconv.Itoa(report.MoviesResolved)},
		{"Movies created", strconv.Itoa(report.MoviesCreated)},
		{"Picks created", strconv.Itoa(report.PicksCreated)},
		{"Picks updated", strconv.Itoa(report.PicksUpdated)},
		{"Skipped (conflict)", strconv.Itoa(report.SkippedConflicts)},
		{"Skipped (duplicate)", strconv.Itoa(report.SkippedDuplicates)},
		{"Rows with issues", strconv.Itoa(len(report.Issues))},
	}
	fmt.Fprintln(out, renderCountTable(rows))

	if len(report.Issues) == 0 {
		return
	}

	colorize := shouldColorize(out)
	counts := report.IssueCounts()
	examples := report.Examples(issueExampleLimit)
	for _, kind := range report.IssueKinds() {
		heading := fmt.Sprintf("%s (%d)", kind, counts[kind])
		if colorize {
			heading = ansiYellow + heading + ansiReset
		}
		fmt.Fprintln(out, heading)
		for _, issue := range examples[kind] {
			fmt.Fprintf(out, "  line %d: %s\n", issue.Line, issue.Reason)
		}
		if counts[kind] > issueExampleLimit {
			fmt.Fprintf(out, "  ... and %d more\n", counts[kind]-issueExampleLimit)
		}
	}
}

// renderCountTable lays out metric/count pairs with the counts right-aligned.
func renderCountTable(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Count"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
