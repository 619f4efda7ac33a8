package ingest

import (
	"context"
	"errors"
	"fmt"

	"marquee/internal/overrides"
	"marquee/internal/store"
	"marquee/internal/textnorm"
)

// Resolution failures surfaced per row. Ambiguity is reported separately so
// admins know a compact-key collision needs a curated alias, not a new
// participant.
var (
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrAmbiguousParticipant = errors.New("ambiguous participant name")
)

// ParticipantStore is the slice of the store participant resolution uses.
type ParticipantStore interface {
	ListParticipants(ctx context.Context, year int) ([]store.Participant, error)
	CreateParticipant(ctx context.Context, year int, displayName, slug, accountID string) (*store.Participant, error)
	SetParticipantAccount(ctx context.Context, id int64, accountID string) (*store.Participant, error)
}

// participantIndex holds the derived lookup keys for one participant pool.
// Compact-key ambiguity is detected up front, in a dedicated pass over the
// whole pool, so resolution order within a batch can never mask a collision.
type participantIndex struct {
	bySlug           map[string]int64
	byCompact        map[string]int64
	ambiguousCompact map[string]bool
	byID             map[int64]store.Participant
}

func newParticipantIndex(participants []store.Participant) *participantIndex {
	index := &participantIndex{
		bySlug:           make(map[string]int64, len(participants)),
		byCompact:        make(map[string]int64, len(participants)),
		ambiguousCompact: make(map[string]bool),
		byID:             make(map[int64]store.Participant, len(participants)),
	}
	for _, p := range participants {
		index.add(p)
	}
	return index
}

func (idx *participantIndex) add(p store.Participant) {
	idx.byID[p.ID] = p
	idx.bySlug[p.Slug] = p.ID

	compact := textnorm.CompactKey(p.DisplayName)
	if compact == "" {
		return
	}
	if owner, exists := idx.byCompact[compact]; exists && owner != p.ID {
		idx.ambiguousCompact[compact] = true
		return
	}
	idx.byCompact[compact] = p.ID
}

// ParticipantResolver maps raw names from export rows to participant IDs in
// one pool. The tiers run from most to least exact; a later tier never
// overrides an earlier match.
type ParticipantResolver struct {
	index   *participantIndex
	tables  *overrides.Tables
	slugCap int
}

// NewParticipantResolver builds a resolver over a participant pool. slugCap
// bounds derived slugs the same way the pool's slugs were bounded at
// creation; zero means unbounded.
func NewParticipantResolver(participants []store.Participant, tables *overrides.Tables, slugCap int) *ParticipantResolver {
	return &ParticipantResolver{
		index:   newParticipantIndex(participants),
		tables:  tables,
		slugCap: slugCap,
	}
}

// Resolve maps a raw name to a participant ID. Tiers, in order: slug of the
// raw name, slug of the name with handle markers stripped, curated alias,
// compact key, curated ID pin. A compact key shared by several participants
// is refused rather than guessed at; if no later tier rescues the row the
// error is ErrAmbiguousParticipant.
func (r *ParticipantResolver) Resolve(raw string) (int64, error) {
	stripped := textnorm.StripHandleMarker(raw)

	if id, ok := r.index.bySlug[r.slug(raw)]; ok {
		return id, nil
	}
	if id, ok := r.index.bySlug[r.slug(stripped)]; ok {
		return id, nil
	}

	if canonical, ok := r.lookupAlias(raw, stripped); ok {
		if id, ok := r.index.bySlug[r.slug(canonical)]; ok {
			return id, nil
		}
	}

	ambiguous := false
	if compact := textnorm.CompactKey(stripped); compact != "" {
		if r.index.ambiguousCompact[compact] {
			ambiguous = true
		} else if id, ok := r.index.byCompact[compact]; ok {
			return id, nil
		}
	}

	if id, ok := r.lookupPinnedID(raw, stripped); ok {
		if _, exists := r.index.byID[id]; exists {
			return id, nil
		}
		return 0, fmt.Errorf("%w: pinned id %d not in pool", ErrUnknownParticipant, id)
	}

	if ambiguous {
		return 0, fmt.Errorf("%w: %q matches several participants", ErrAmbiguousParticipant, stripped)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParticipant, stripped)
}

// Participant returns the indexed participant record for an ID.
func (r *ParticipantResolver) Participant(id int64) (store.Participant, bool) {
	p, ok := r.index.byID[id]
	return p, ok
}

// Add indexes a participant created mid-run so later rows with the same name
// resolve to it instead of creating another.
func (r *ParticipantResolver) Add(p store.Participant) {
	r.index.add(p)
}

// Slug derives the pool-bounded slug for a raw name, after handle stripping.
func (r *ParticipantResolver) Slug(raw string) string {
	return r.slug(textnorm.StripHandleMarker(raw))
}

func (r *ParticipantResolver) slug(name string) string {
	if r.slugCap > 0 {
		return textnorm.SlugifyMax(name, r.slugCap)
	}
	return textnorm.Slugify(name)
}

func (r *ParticipantResolver) lookupAlias(raw, stripped string) (string, bool) {
	if canonical, ok := r.tables.Alias(raw); ok {
		return canonical, true
	}
	return r.tables.Alias(stripped)
}

func (r *ParticipantResolver) lookupPinnedID(raw, stripped string) (int64, bool) {
	if id, ok := r.tables.ParticipantID(raw); ok {
		return id, true
	}
	return r.tables.ParticipantID(stripped)
}
