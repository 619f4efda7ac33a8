package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const participantColumns = "id, year, slug, display_name, account_id, created_at"

// ListParticipants returns every participant in the given pool. Year 0 is
// the global pool.
func (s *Store) ListParticipants(ctx context.Context, year int) ([]Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE year = ? ORDER BY id", year)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}

// FindParticipantBySlug returns the participant with the given slug in the
// given pool, or nil when absent.
func (s *Store) FindParticipantBySlug(ctx context.Context, slug string, year int) (*Participant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE slug = ? AND year = ?", slug, year)
	participant, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// CreateParticipant inserts a participant into a pool.
func (s *Store) CreateParticipant(ctx context.Context, year int, displayName, slug, accountID string) (*Participant, error) {
	displayName = strings.TrimSpace(displayName)
	slug = strings.TrimSpace(slug)
	if displayName == "" || slug == "" {
		return nil, errors.New("participant requires display name and slug")
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (year, slug, display_name, account_id, created_at) VALUES (?, ?, ?, ?, ?)",
		year, slug, displayName, strings.TrimSpace(accountID), timestamp())
	if err != nil {
		return nil, fmt.Errorf("insert participant %q: %w", slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getParticipant(ctx, id)
}

// SetParticipantAccount backfills the linked account on an existing
// participant. It is the only mutation the ingestion engine performs on
// participant rows.
func (s *Store) SetParticipantAccount(ctx context.Context, id int64, accountID string) (*Participant, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, errors.New("account id must not be empty")
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE participants SET account_id = ? WHERE id = ?", accountID, id); err != nil {
		return nil, fmt.Errorf("update participant %d account: %w", id, err)
	}
	return s.getParticipant(ctx, id)
}

func (s *Store) getParticipant(ctx context.Context, id int64) (*Participant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?", id)
	participant, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(scanner rowScanner) (Participant, error) {
	var p Participant
	var createdAt string
	if err := scanner.Scan(&p.ID, &p.Year, &p.Slug, &p.DisplayName, &p.AccountID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Participant{}, err
		}
		return Participant{}, fmt.Errorf("scan participant: %w", err)
	}
	p.CreatedAt = parseTimestamp(createdAt)
	return p, nil
}
