package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const movieColumns = "id, imdb_id, title, original_title, original_language, release_date, poster_path, source_url, created_at"

// FindMovieByIMDbID returns the movie keyed by the IMDb ID, or nil when absent.
func (s *Store) FindMovieByIMDbID(ctx context.Context, imdbID string) (*Movie, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE imdb_id = ?", imdbID)
	movie, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindMoviesByIMDbIDs bulk-loads every movie matching the supplied IMDb IDs
// in a single query, so batch runs avoid per-row lookups.
func (s *Store) FindMoviesByIMDbIDs(ctx context.Context, imdbIDs []string) ([]Movie, error) {
	if len(imdbIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(imdbIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(imdbIDs))
	for i, id := range imdbIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE imdb_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("bulk find movies: %w", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// CreateMovie inserts a canonical movie record. Creation is the only write
// the catalog supports; an existing imdb_id makes the insert fail on the
// unique constraint.
func (s *Store) CreateMovie(ctx context.Context, movie NewMovie) (*Movie, error) {
	movie.IMDbID = strings.TrimSpace(movie.IMDbID)
	movie.Title = strings.TrimSpace(movie.Title)
	if movie.IMDbID == "" {
		return nil, errors.New("movie requires an imdb id")
	}
	if movie.Title == "" {
		return nil, errors.New("movie requires a title")
	}
	if strings.TrimSpace(movie.ReleaseDate) == "" {
		movie.ReleaseDate = SentinelReleaseDate
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO movies (
            imdb_id, title, original_title, original_language,
            release_date, poster_path, source_url, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		movie.IMDbID,
		movie.Title,
		movie.OriginalTitle,
		movie.OriginalLanguage,
		movie.ReleaseDate,
		movie.PosterPath,
		movie.SourceURL,
		timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert movie %s: %w", movie.IMDbID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	created, err := scanMovie(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CountMovies reports the catalog size.
func (s *Store) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

func scanMovie(scanner rowScanner) (Movie, error) {
	var m Movie
	var createdAt string
	if err := scanner.Scan(
		&m.ID, &m.IMDbID, &m.Title, &m.OriginalTitle, &m.OriginalLanguage,
		&m.ReleaseDate, &m.PosterPath, &m.SourceURL, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Movie{}, err
		}
		return Movie{}, fmt.Errorf("scan movie: %w", err)
	}
	m.CreatedAt = parseTimestamp(createdAt)
	return m, nil
}
