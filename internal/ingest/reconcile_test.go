package ingest

import (
	"context"
	"testing"

	"marquee/internal/store"
)

type fakePickStore struct {
	picks []store.Pick
}

func (f *fakePickStore) FindPicks(ctx context.Context, filter store.PickFilter) ([]store.Pick, error) {
	return f.picks, nil
}

func (f *fakePickStore) CreatePick(ctx context.Context, pick store.NewPick) (*store.Pick, error) {
	return &store.Pick{}, nil
}

func (f *fakePickStore) UpsertRankedPick(ctx context.Context, pick store.NewPick) (*store.Pick, error) {
	return &store.Pick{}, nil
}

func TestMentionDecisionTable(t *testing.T) {
	picks := &fakePickStore{picks: []store.Pick{
		{ParticipantID: 1, MovieID: 10, Category: store.CategoryRegular},
		{ParticipantID: 1, MovieID: 20, Category: store.CategorySpecialMention},
	}}
	reconciler, err := NewMentionReconciler(context.Background(), picks)
	if err != nil {
		t.Fatalf("NewMentionReconciler failed: %v", err)
	}

	cases := []struct {
		name          string
		participantID int64
		movieID       int64
		want          Decision
	}{
		{"regular pick wins", 1, 10, DecisionConflict},
		{"stored mention is duplicate", 1, 20, DecisionDuplicate},
		{"fresh pair creates", 1, 30, DecisionCreate},
		{"repeat within batch is duplicate", 1, 30, DecisionDuplicate},
		{"other participant same movie creates", 2, 10, DecisionCreate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reconciler.Decide(tc.participantID, tc.movieID); got != tc.want {
				t.Fatalf("Decide(%d, %d) = %v, want %v", tc.participantID, tc.movieID, got, tc.want)
			}
		})
	}
}

func TestParseRankingCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want store.Category
		ok   bool
	}{
		{"", store.CategoryTopTen, true},
		{"Top 10", store.CategoryTopTen, true},
		{"Mejor del año", store.CategoryBestOfYear, true},
		{"best of the year", store.CategoryBestOfYear, true},
		{"Peor del año", store.CategoryWorstOfYear, true},
		{"worst", store.CategoryWorstOfYear, true},
		{"documentales", "", false},
	}
	for _, tc := range cases {
		got, ok := parseRankingCategory(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseRankingCategory(%q) = %q %v, want %q %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
