package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const pickColumns = "id, participant_id, movie_id, year, category, score, review, is_top, created_at"

// PickFilter narrows FindPicks. Zero-valued fields are ignored except Year,
// which is always applied (0 selects the unscoped pool).
type PickFilter struct {
	ParticipantIDs []int64
	MovieIDs       []int64
	Category       Category
	Year           int
}

// FindPicks returns picks matching the filter.
func (s *Store) FindPicks(ctx context.Context, filter PickFilter) ([]Pick, error) {
	query := "SELECT " + pickColumns + " FROM picks WHERE year = ?"
	args := []any{filter.Year}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if len(filter.ParticipantIDs) > 0 {
		query += " AND participant_id IN (" + idPlaceholders(len(filter.ParticipantIDs)) + ")"
		for _, id := range filter.ParticipantIDs {
			args = append(args, id)
		}
	}
	if len(filter.MovieIDs) > 0 {
		query += " AND movie_id IN (" + idPlaceholders(len(filter.MovieIDs)) + ")"
		for _, id := range filter.MovieIDs {
			args = append(args, id)
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find picks: %w", err)
	}
	defer rows.Close()

	var picks []Pick
	for rows.Next() {
		pick, err := scanPick(rows)
		if err != nil {
			return nil, err
		}
		picks = append(picks, pick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate picks: %w", err)
	}
	return picks, nil
}

// CreatePick inserts a pick. The per-category uniqueness constraint makes a
// duplicate insert fail rather than silently double a participant's vote.
func (s *Store) CreatePick(ctx context.Context, pick NewPick) (*Pick, error) {
	if pick.Category == "" {
		return nil, errors.New("pick requires a category")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO picks (
            participant_id, movie_id, year, category, score, review, is_top, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pick.ParticipantID,
		pick.MovieID,
		pick.Year,
		string(pick.Category),
		pick.Score,
		pick.Review,
		boolToInt(pick.IsTop),
		timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert pick (participant=%d movie=%d category=%s): %w",
			pick.ParticipantID, pick.MovieID, pick.Category, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getPick(ctx, id)
}

// UpsertRankedPick creates the pick or, when the (participant, movie, year,
// category) key already exists, updates only the top-position flag. Score and
// review of an existing row are deliberately left untouched so re-running a
// corrected ranking never clobbers curated data.
func (s *Store) UpsertRankedPick(ctx context.Context, pick NewPick) (*Pick, error) {
	if pick.Category == "" {
		return nil, errors.New("pick requires a category")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO picks (
            participant_id, movie_id, year, category, score, review, is_top, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (participant_id, movie_id, category, year)
        DO UPDATE SET is_top = excluded.is_top`,
		pick.ParticipantID,
		pick.MovieID,
		pick.Year,
		string(pick.Category),
		pick.Score,
		pick.Review,
		boolToInt(pick.IsTop),
		timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert pick (participant=%d movie=%d category=%s year=%d): %w",
			pick.ParticipantID, pick.MovieID, pick.Category, pick.Year, err)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+pickColumns+" FROM picks WHERE participant_id = ? AND movie_id = ? AND category = ? AND year = ?",
		pick.ParticipantID, pick.MovieID, string(pick.Category), pick.Year)
	stored, err := scanPick(row)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// CountPicks reports the number of picks matching the filter.
func (s *Store) CountPicks(ctx context.Context, filter PickFilter) (int64, error) {
	picks, err := s.FindPicks(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(picks)), nil
}

func (s *Store) getPick(ctx context.Context, id int64) (*Pick, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+pickColumns+" FROM picks WHERE id = ?", id)
	pick, err := scanPick(row)
	if err != nil {
		return nil, err
	}
	return &pick, nil
}

func scanPick(scanner rowScanner) (Pick, error) {
	var p Pick
	var category, createdAt string
	var isTop int
	if err := scanner.Scan(
		&p.ID, &p.ParticipantID, &p.MovieID, &p.Year, &category,
		&p.Score, &p.Review, &isTop, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pick{}, err
		}
		return Pick{}, fmt.Errorf("scan pick: %w", err)
	}
	p.Category = Category(category)
	p.IsTop = isTop != 0
	p.CreatedAt = parseTimestamp(createdAt)
	return p, nil
}

func idPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
