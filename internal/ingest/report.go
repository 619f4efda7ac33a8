package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
)

// IssueKind classifies a row-level problem in the run report.
type IssueKind string

const (
	IssueNoExternalID         IssueKind = "no_external_id"
	IssueUnknownParticipant   IssueKind = "unknown_participant"
	IssueAmbiguousParticipant IssueKind = "ambiguous_participant"
	IssueProviderMiss         IssueKind = "provider_miss"
	IssueBadCategory          IssueKind = "bad_category"
	IssueStoreFailure         IssueKind = "store_failure"
)

// RowIssue records one skipped or failed row with enough context to fix the
// source data by hand.
type RowIssue struct {
	Line        int       `json:"line"`
	Kind        IssueKind `json:"kind"`
	Participant string    `json:"participant,omitempty"`
	Movie       string    `json:"movie,omitempty"`
	Reason      string    `json:"reason"`
}

// Report summarizes one ingestion run. In dry-run mode the created and
// updated counters describe writes that would have happened.
type Report struct {
	RunID             string     `json:"run_id"`
	DryRun            bool       `json:"dry_run"`
	StartedAt         time.Time  `json:"started_at"`
	Rows              int        `json:"rows"`
	MoviesResolved    int        `json:"movies_resolved"`
	MoviesCreated     int        `json:"movies_created"`
	PicksCreated      int        `json:"picks_created"`
	PicksUpdated      int        `json:"picks_updated"`
	SkippedConflicts  int        `json:"skipped_conflicts"`
	SkippedDuplicates int        `json:"skipped_duplicates"`
	Issues            []RowIssue `json:"issues,omitempty"`
}

func newReport(dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
}

// Record appends a row issue.
func (r *Report) Record(issue RowIssue) {
	r.Issues = append(r.Issues, issue)
}

// IssueCounts tallies issues by kind.
func (r *Report) IssueCounts() map[IssueKind]int {
	counts := make(map[IssueKind]int)
	for _, issue := range r.Issues {
		counts[issue.Kind]++
	}
	return counts
}

// IssueKinds returns the kinds present in the report, sorted for stable
// rendering.
func (r *Report) IssueKinds() []IssueKind {
	counts := r.IssueCounts()
	kinds := make([]IssueKind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Examples returns up to max issues per kind, in row order.
func (r *Report) Examples(max int) map[IssueKind][]RowIssue {
	examples := make(map[IssueKind][]RowIssue)
	for _, issue := range r.Issues {
		if len(examples[issue.Kind]) < max {
			examples[issue.Kind] = append(examples[issue.Kind], issue)
		}
	}
	return examples
}

// WriteSidecar writes the full issue list next to the input file as
// <csv>.errors.json. It returns the sidecar path, or "" when the run had no
// issues and no file was written.
func (r *Report) WriteSidecar(csvPath string) (string, error) {
	if len(r.Issues) == 0 {
		return "", nil
	}
	path := csvPath + ".errors.json"
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report sidecar: %w", err)
	}
	return path, nil
}
