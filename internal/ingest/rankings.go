package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marquee/internal/store"
	"marquee/internal/textnorm"
)

// rankedSlugCap bounds slugs in year-scoped pools; ranking exports carry
// free-text names of arbitrary length.
const rankedSlugCap = 50

// Scores assigned per ranked category. Best-of-year is the high-value tier;
// worst-of-year entries do not score.
const (
	scoreTopTen     = 1
	scoreBestOfYear = 5
	scoreWorstOf    = 0
)

type deferredRanking struct {
	row           RankingRow
	participantID int64
	imdbID        string
	category      store.Category
}

// RunRankings imports an annual ranking export into the pool for opts.Year.
// Unknown participants are created in that pool; existing picks are upserted
// with only their top-position flag revised, so corrected re-runs never
// clobber curated scores or reviews.
func RunRankings(ctx context.Context, deps Deps, opts Options) (*Report, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if opts.Year <= 0 {
		return nil, fmt.Errorf("ranking import requires a year, got %d", opts.Year)
	}
	deps.fillDefaults()
	logger := deps.Logger.With("run", "rankings", "year", opts.Year)

	input, err := openInput(opts.CSVPath)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	rows, err := ParseRankingsCSV(input)
	if err != nil {
		return nil, err
	}

	report := newReport(opts.DryRun)
	report.Rows = len(rows)
	logger.Info("starting ranking import", "run_id", report.RunID, "rows", len(rows), "dry_run", opts.DryRun)

	participants, err := deps.Participants.ListParticipants(ctx, opts.Year)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	resolver := NewParticipantResolver(participants, deps.Tables, rankedSlugCap)
	creator := &participantCreator{
		store:    deps.Participants,
		resolver: resolver,
		tables:   deps.Tables,
		year:     opts.Year,
		dryRun:   opts.DryRun,
	}

	resolved := make([]deferredRanking, 0, len(rows))
	imdbIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		imdbID, ok := extractRowID(row.Link, row.Title)
		if !ok {
			report.Record(RowIssue{
				Line: row.Line, Kind: IssueNoExternalID,
				Participant: row.Name, Movie: row.Title,
				Reason: "no imdb id in link or title",
			})
			continue
		}
		category, ok := parseRankingCategory(row.Category)
		if !ok {
			report.Record(RowIssue{
				Line: row.Line, Kind: IssueBadCategory,
				Participant: row.Name, Movie: row.Title,
				Reason: fmt.Sprintf("unrecognized category %q", row.Category),
			})
			continue
		}
		participantID, err := creator.resolveOrCreate(ctx, row.Name)
		if err != nil {
			report.Record(participantIssue(row.Line, row.Name, row.Title, err))
			continue
		}
		if err := creator.backfillAccount(ctx, participantID, row.Name); err != nil {
			logger.Warn("account backfill failed", "participant", row.Name, "error", err)
		}
		resolved = append(resolved, deferredRanking{
			row: row, participantID: participantID, imdbID: imdbID, category: category,
		})
		imdbIDs = append(imdbIDs, imdbID)
	}

	movies := NewMovieResolver(deps.Movies, deps.Provider, deps.Tables, deps.Pacer, logger, opts.DryRun)
	if err := movies.Preload(ctx, imdbIDs); err != nil {
		return nil, err
	}

	existing, err := rankedKeySet(ctx, deps.Picks, opts.Year)
	if err != nil {
		return nil, err
	}

	var queue []store.NewPick
	var deferred []deferredRanking
	for _, item := range resolved {
		movieID, ok := movies.Lookup(item.imdbID)
		if !ok {
			deferred = append(deferred, item)
			continue
		}
		report.MoviesResolved++
		queue = append(queue, rankedPick(item, movieID, opts.Year))
	}
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
					Participant: item.row.Name, Movie: item.imdbID,
					Reason: err.Error(),
				})
				continue
			}
			report.MoviesCreated++
		}
		queue = append(queue, rankedPick(item, movieID, opts.Year))
	}

	for _, pick := range queue {
		key := rankedKey(pick.ParticipantID, pick.MovieID, pick.Category)
		exists := existing[key]
		existing[key] = true
		if !opts.DryRun {
			if _, err := deps.Picks.UpsertRankedPick(ctx, pick); err != nil {
				report.Record(RowIssue{Kind: IssueStoreFailure, Reason: err.Error()})
				continue
			}
		}
		if exists {
			report.PicksUpdated++
		} else {
			report.PicksCreated++
		}
	}

	logger.Info("ranking import finished",
		"run_id", report.RunID,
		"picks_created", report.PicksCreated,
		"picks_updated", report.PicksUpdated,
		"issues", len(report.Issues))
	return report, nil
}

// participantCreator resolves names against the year pool and creates the
// ones no tier can match. Created participants are indexed immediately so a
// second row with the same name reuses them, and phantom negative IDs stand
// in during dry runs.
type participantCreator struct {
	store         ParticipantStore
	resolver      *ParticipantResolver
	tables        interface{ Account(string) (string, bool) }
	year          int
	dryRun        bool
	nextPhantomID int64
}

func (c *participantCreator) resolveOrCreate(ctx context.Context, rawName string) (int64, error) {
	id, err := c.resolver.Resolve(rawName)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrUnknownParticipant) {
		return 0, err
	}

	displayName := strings.TrimSpace(textnorm.StripHandleMarker(rawName))
	slug := c.resolver.Slug(rawName)
	if displayName == "" || slug == "" {
		return 0, err
	}
	accountID, _ := c.tables.Account(rawName)

	if c.dryRun {
		c.nextPhantomID--
		participant := store.Participant{
			ID: c.nextPhantomID, Year: c.year, Slug: slug,
			DisplayName: displayName, AccountID: accountID,
		}
		c.resolver.Add(participant)
		return participant.ID, nil
	}

	created, err := c.store.CreateParticipant(ctx, c.year, displayName, slug, accountID)
	if err != nil {
		return 0, fmt.Errorf("create participant %q: %w", displayName, err)
	}
	c.resolver.Add(*created)
	return created.ID, nil
}

// backfillAccount links a curated account ID to a participant that has none.
// Account linkage is the only field the ranking import ever updates on an
// existing participant.
func (c *participantCreator) backfillAccount(ctx context.Context, id int64, rawName string) error {
	account, ok := c.tables.Account(rawName)
	if !ok {
		account, ok = c.tables.Account(textnorm.StripHandleMarker(rawName))
	}
	if !ok {
		return nil
	}
	participant, found := c.resolver.Participant(id)
	if !found || participant.AccountID != "" {
		return nil
	}
	if c.dryRun {
		participant.AccountID = account
		c.resolver.Add(participant)
		return nil
	}
	updated, err := c.store.SetParticipantAccount(ctx, id, account)
	if err != nil {
		return err
	}
	c.resolver.Add(*updated)
	return nil
}

// parseRankingCategory maps the free-text category cell onto a ranked
// category. An empty cell means the main top-ten list.
func parseRankingCategory(raw string) (store.Category, bool) {
	key := textnorm.CompactKey(raw)
	switch {
	case key == "":
		return store.CategoryTopTen, true
	case strings.Contains(key, "top"):
		return store.CategoryTopTen, true
	case strings.Contains(key, "mejor"), strings.Contains(key, "best"):
		return store.CategoryBestOfYear, true
	case strings.Contains(key, "peor"), strings.Contains(key, "worst"):
		return store.CategoryWorstOfYear, true
	default:
		return "", false
	}
}

func rankedPick(item deferredRanking, movieID int64, year int) store.NewPick {
	score := scoreTopTen
	switch item.category {
	case store.CategoryBestOfYear:
		score = scoreBestOfYear
	case store.CategoryWorstOfYear:
		score = scoreWorstOf
	}
	return store.NewPick{
		ParticipantID: item.participantID,
		MovieID:       movieID,
		Year:          year,
		Category:      item.category,
		Score:         score,
		Review:        item.row.Review,
		IsTop:         item.row.Position == 1,
	}
}

func rankedKey(participantID, movieID int64, category store.Category) string {
	return fmt.Sprintf("%d:%d:%s", participantID, movieID, category)
}

func rankedKeySet(ctx context.Context, picks PickStore, year int) (map[string]bool, error) {
	existing, err := picks.FindPicks(ctx, store.PickFilter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("load existing picks: %w", err)
	}
	keys := make(map[string]bool, len(existing))
	for _, pick := range existing {
		keys[rankedKey(pick.ParticipantID, pick.MovieID, pick.Category)] = true
	}
	return keys, nil
}
