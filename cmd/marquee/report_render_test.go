package main

import (
	"bytes"
	"strings"
	"testing"

	"marquee/internal/ingest"
)

func TestRenderReport(t *testing.T) {
	report := &ingest.Report{
		RunID:             "run-1",
		DryRun:            true,
		Rows:              7,
		MoviesCreated:     2,
		PicksCreated:      3,
		SkippedDuplicates: 1,
	}
	for i := 0; i < 5; i++ {
		report.Record(ingest.RowIssue{
			Line: i + 2, Kind: ingest.IssueUnknownParticipant, Reason: "unknown participant",
		})
	}

	var out bytes.Buffer
	renderReport(&out, report)
	rendered := out.String()

	for _, want := range []string{
		"run-1",
		"dry run",
		"Rows read",
		"Picks created",
		"unknown_participant (5)",
		"line 2: unknown participant",
		"... and 2 more",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered report missing %q:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, ansiYellow) {
		t.Fatal("buffer output must not be colorized")
	}
}
