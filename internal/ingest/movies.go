package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"marquee/internal/overrides"
	"marquee/internal/pacer"
	"marquee/internal/store"
	"marquee/internal/tmdb"
)

// MovieStore is the slice of the store movie resolution uses.
type MovieStore interface {
	FindMoviesByIMDbIDs(ctx context.Context, imdbIDs []string) ([]store.Movie, error)
	CreateMovie(ctx context.Context, movie store.NewMovie) (*store.Movie, error)
}

// MovieResolver maps IMDb IDs to catalog movie IDs, creating missing movies
// from provider metadata. Movies are create-only: an existing record is never
// modified by a run. Every newly created movie is cached immediately so a
// batch referencing the same title many times costs one provider call.
type MovieResolver struct {
	store    MovieStore
	provider tmdb.Finder
	tables   *overrides.Tables
	pacer    *pacer.Pacer
	logger   *slog.Logger
	dryRun   bool

	byIMDb map[string]int64
	// nextPhantomID hands out negative IDs for movies a dry run would have
	// created, so deferred rows still reconcile without a store write.
	nextPhantomID int64
}

// NewMovieResolver builds a resolver. The pacer throttles every provider
// call; dry-run mode swaps store writes for phantom IDs.
func NewMovieResolver(movies MovieStore, provider tmdb.Finder, tables *overrides.Tables, p *pacer.Pacer, logger *slog.Logger, dryRun bool) *MovieResolver {
	return &MovieResolver{
		store:         movies,
		provider:      provider,
		tables:        tables,
		pacer:         p,
		logger:        logger,
		dryRun:        dryRun,
		byIMDb:        make(map[string]int64),
		nextPhantomID: -1,
	}
}

// Preload bulk-fetches the already-cataloged movies for a batch of IMDb IDs
// in one query and primes the cache with them.
func (m *MovieResolver) Preload(ctx context.Context, imdbIDs []string) error {
	unique := make([]string, 0, len(imdbIDs))
	seen := make(map[string]bool, len(imdbIDs))
	for _, id := range imdbIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	movies, err := m.store.FindMoviesByIMDbIDs(ctx, unique)
	if err != nil {
		return err
	}
	for _, movie := range movies {
		m.byIMDb[movie.IMDbID] = movie.ID
	}
	return nil
}

// Lookup returns the cached catalog ID for an IMDb ID.
func (m *MovieResolver) Lookup(imdbID string) (int64, bool) {
	id, ok := m.byIMDb[imdbID]
	return id, ok
}

// ResolveOrCreate returns the catalog ID for an IMDb ID, creating the movie
// from provider metadata when it is not cataloged yet. sourceURL is stored on
// newly created movies as provenance.
func (m *MovieResolver) ResolveOrCreate(ctx context.Context, imdbID, sourceURL string) (int64, error) {
	if id, ok := m.byIMDb[imdbID]; ok {
		return id, nil
	}

	metadata, err := m.fetch(ctx, imdbID)
	if err != nil {
		return 0, err
	}
	if metadata == nil {
		return 0, fmt.Errorf("provider has no match for %s", imdbID)
	}

	record := newMovieRecord(imdbID, sourceURL, metadata)
	if m.dryRun {
		id := m.nextPhantomID
		m.nextPhantomID--
		m.byIMDb[imdbID] = id
		m.logger.Info("would create movie", "imdb_id", imdbID, "title", record.Title)
		return id, nil
	}

	created, err := m.store.CreateMovie(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("create movie %s: %w", imdbID, err)
	}
	m.byIMDb[imdbID] = created.ID
	m.logger.Info("created movie", "imdb_id", imdbID, "title", created.Title, "movie_id", created.ID)
	return created.ID, nil
}

// fetch pulls metadata from the provider, honoring the pacer and preferring
// a curated TMDB ID over the find endpoint when one exists.
func (m *MovieResolver) fetch(ctx context.Context, imdbID string) (*tmdb.Movie, error) {
	if err := m.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	if tmdbID, ok := m.tables.TMDBID(imdbID); ok {
		m.logger.Debug("using curated tmdb id", "imdb_id", imdbID, "tmdb_id", tmdbID)
		return m.provider.MovieDetails(ctx, tmdbID)
	}
	return m.provider.FindByIMDbID(ctx, imdbID)
}

func newMovieRecord(imdbID, sourceURL string, metadata *tmdb.Movie) store.NewMovie {
	title := metadata.Title
	if title == "" {
		title = metadata.OriginalTitle
	}
	releaseDate := metadata.ReleaseDate
	if releaseDate == "" {
		releaseDate = store.SentinelReleaseDate
	}
	if sourceURL == "" {
		sourceURL = "https://www.imdb.com/title/" + imdbID + "/"
	}
	return store.NewMovie{
		IMDbID:           imdbID,
		Title:            title,
		OriginalTitle:    metadata.OriginalTitle,
		OriginalLanguage: metadata.OriginalLanguage,
		ReleaseDate:      releaseDate,
		PosterPath:       metadata.PosterPath,
		SourceURL:        sourceURL,
	}
}
