package ingest

import (
	"context"
	"errors"
	"fmt"

	"marquee/internal/imdb"
	"marquee/internal/store"
)

// deferredMention is a fully resolved row waiting on movie creation between
// the two passes.
type deferredMention struct {
	row           MentionRow
	participantID int64
	imdbID        string
}

// RunMentions imports a special-mention export into the global pool. Rows
// whose (participant, movie) pair already carries a regular pick are skipped
// as conflicts; existing special mentions are skipped as duplicates; the
// rest are created with a zero score. Re-running the same file is a no-op.
func RunMentions(ctx context.Context, deps Deps, opts Options) (*Report, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	deps.fillDefaults()
	logger := deps.Logger.With("run", "mentions")

	input, err := openInput(opts.CSVPath)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	rows, err := ParseMentionsCSV(input)
	if err != nil {
		return nil, err
	}

	report := newReport(opts.DryRun)
	report.Rows = len(rows)
	logger.Info("starting mention import", "run_id", report.RunID, "rows", len(rows), "dry_run", opts.DryRun)

	participants, err := deps.Participants.ListParticipants(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	resolver := NewParticipantResolver(participants, deps.Tables, 0)

	// Resolve participants and external IDs first so every provider call in
	// the creation phase is for a row that can actually be committed.
	resolved := make([]deferredMention, 0, len(rows))
	imdbIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		imdbID, ok := extractRowID(row.Link, row.Title)
		if !ok {
			report.Record(RowIssue{
				Line: row.Line, Kind: IssueNoExternalID,
				Participant: row.Handle, Movie: row.Title,
				Reason: "no imdb id in link or title",
			})
			continue
		}
		participantID, err := resolver.Resolve(row.Handle)
		if err != nil {
			report.Record(participantIssue(row.Line, row.Handle, row.Title, err))
			continue
		}
		resolved = append(resolved, deferredMention{row: row, participantID: participantID, imdbID: imdbID})
		imdbIDs = append(imdbIDs, imdbID)
	}

	movies := NewMovieResolver(deps.Movies, deps.Provider, deps.Tables, deps.Pacer, logger, opts.DryRun)
	if err := movies.Preload(ctx, imdbIDs); err != nil {
		return nil, err
	}

	reconciler, err := NewMentionReconciler(ctx, deps.Picks)
	if err != nil {
		return nil, err
	}

	// Pass 1: rows whose movie is already cataloged. The rest defer until
	// after movie creation.
	var queue []store.NewPick
	var deferred []deferredMention
	for _, item := range resolved {
		movieID, ok := movies.Lookup(item.imdbID)
		if !ok {
			deferred = append(deferred, item)
			continue
		}
		report.MoviesResolved++
		queueMention(report, reconciler, &queue, item, movieID)
	}

	// Movie creation, then pass 2 over the deferred rows. A row can find its
	// movie in the cache when an earlier deferred row already created it.
	for _, item := range deferred {
		movieID, ok := movies.Lookup(item.imdbID)
		if ok {
			report.MoviesResolved++
		} else {
			movieID, err = movies.ResolveOrCreate(ctx, item.imdbID, item.row.Link)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				report.Record(RowIssue{
					Line: item.row.Line, Kind: IssueProviderMiss,
					Participant: item.row.Handle, Movie: item.imdbID,
					Reason: err.Error(),
				})
				continue
			}
			report.MoviesCreated++
		}
		queueMention(report, reconciler, &queue, item, movieID)
	}

	commitPicks(ctx, deps, report, queue, opts.DryRun)

	logger.Info("mention import finished",
		"run_id", report.RunID,
		"picks_created", report.PicksCreated,
		"conflicts", report.SkippedConflicts,
		"duplicates", report.SkippedDuplicates,
		"issues", len(report.Issues))
	return report, nil
}

func queueMention(report *Report, reconciler *MentionReconciler, queue *[]store.NewPick, item deferredMention, movieID int64) {
	switch reconciler.Decide(item.participantID, movieID) {
	case DecisionConflict:
		report.SkippedConflicts++
	case DecisionDuplicate:
		report.SkippedDuplicates++
	case DecisionCreate:
		*queue = append(*queue, store.NewPick{
			ParticipantID: item.participantID,
			MovieID:       movieID,
			Category:      store.CategorySpecialMention,
			Review:        item.row.Review,
		})
	}
}

// commitPicks writes queued picks one at a time so a single bad row cannot
// abort the rest of the batch.
func commitPicks(ctx context.Context, deps Deps, report *Report, queue []store.NewPick, dryRun bool) {
	for _, pick := range queue {
		if dryRun {
			report.PicksCreated++
			continue
		}
		if _, err := deps.Picks.CreatePick(ctx, pick); err != nil {
			report.Record(RowIssue{
				Kind:   IssueStoreFailure,
				Reason: err.Error(),
			})
			continue
		}
		report.PicksCreated++
	}
}

// extractRowID scans the link column first and the title second; exports
// occasionally paste the IMDb URL into the wrong cell.
func extractRowID(link, title string) (string, bool) {
	if id, ok := imdb.ExtractID(link); ok {
		return id, true
	}
	return imdb.ExtractID(title)
}

func participantIssue(line int, name, movie string, err error) RowIssue {
	kind := IssueUnknownParticipant
	if errors.Is(err, ErrAmbiguousParticipant) {
		kind = IssueAmbiguousParticipant
	}
	return RowIssue{Line: line, Kind: kind, Participant: name, Movie: movie, Reason: err.Error()}
}
