package ingest

import (
	"context"
	"fmt"

	"marquee/internal/store"
)

// PickStore is the slice of the store pick reconciliation uses.
type PickStore interface {
	FindPicks(ctx context.Context, filter store.PickFilter) ([]store.Pick, error)
	CreatePick(ctx context.Context, pick store.NewPick) (*store.Pick, error)
	UpsertRankedPick(ctx context.Context, pick store.NewPick) (*store.Pick, error)
}

// Decision is the outcome of reconciling one special-mention row against the
// existing pick state.
type Decision int

const (
	// DecisionCreate queues a new special-mention pick.
	DecisionCreate Decision = iota
	// DecisionConflict skips the row because a regular pick already links the
	// pair; a special mention must never shadow a curated regular pick.
	DecisionConflict
	// DecisionDuplicate skips the row because the special mention already
	// exists, in the store or earlier in this batch.
	DecisionDuplicate
)

type pickKey struct {
	participantID int64
	movieID       int64
}

// MentionReconciler applies the special-mention decision table. It is seeded
// from the stored global-pool picks and additionally tracks keys queued
// during the current batch, so a row repeated within one file is a duplicate
// even before anything is committed.
type MentionReconciler struct {
	regular map[pickKey]bool
	special map[pickKey]bool
	queued  map[pickKey]bool
}

// NewMentionReconciler loads the global-pool pick state.
func NewMentionReconciler(ctx context.Context, picks PickStore) (*MentionReconciler, error) {
	r := &MentionReconciler{
		regular: make(map[pickKey]bool),
		special: make(map[pickKey]bool),
		queued:  make(map[pickKey]bool),
	}
	existing, err := picks.FindPicks(ctx, store.PickFilter{Year: 0})
	if err != nil {
		return nil, fmt.Errorf("load existing picks: %w", err)
	}
	for _, pick := range existing {
		key := pickKey{pick.ParticipantID, pick.MovieID}
		switch pick.Category {
		case store.CategoryRegular:
			r.regular[key] = true
		case store.CategorySpecialMention:
			r.special[key] = true
		}
	}
	return r, nil
}

// Decide reconciles one (participant, movie) pair. A create decision marks
// the key queued, so the caller must commit or drop every queued pick.
func (r *MentionReconciler) Decide(participantID, movieID int64) Decision {
	key := pickKey{participantID, movieID}
	if r.regular[key] {
		return DecisionConflict
	}
	if r.special[key] || r.queued[key] {
		return DecisionDuplicate
	}
	r.queued[key] = true
	return DecisionCreate
}
