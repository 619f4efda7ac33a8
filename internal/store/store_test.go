package store_test

import (
	"context"
	"strings"
	"testing"

	"marquee/internal/store"
	"marquee/internal/testsupport"
)

func TestOpenCreatesSchemaAndRoundTripsParticipants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	created, err := st.CreateParticipant(ctx, 0, "Juan Pérez", "juan-perez", "")
	if err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected participant ID to be assigned")
	}

	found, err := st.FindParticipantBySlug(ctx, "juan-perez", 0)
	if err != nil {
		t.Fatalf("FindParticipantBySlug failed: %v", err)
	}
	if found == nil || found.DisplayName != "Juan Pérez" {
		t.Fatalf("unexpected participant: %#v", found)
	}

	missing, err := st.FindParticipantBySlug(ctx, "nobody", 0)
	if err != nil {
		t.Fatalf("FindParticipantBySlug failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for absent slug, got %#v", missing)
	}
}

func TestParticipantPoolsAreYearScoped(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := st.CreateParticipant(ctx, 2023, "Ana", "ana", ""); err != nil {
		t.Fatalf("create 2023 participant: %v", err)
	}
	if _, err := st.CreateParticipant(ctx, 2024, "Ana", "ana", ""); err != nil {
		t.Fatalf("same slug in another pool must be allowed: %v", err)
	}
	if _, err := st.CreateParticipant(ctx, 2023, "Ana Again", "ana", ""); err == nil {
		t.Fatal("expected unique violation for duplicate slug in same pool")
	}

	participants, err := st.ListParticipants(ctx, 2023)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(participants) != 1 || participants[0].Slug != "ana" {
		t.Fatalf("unexpected 2023 pool: %#v", participants)
	}
}

func TestSetParticipantAccount(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	created, err := st.CreateParticipant(ctx, 2024, "Luis", "luis", "")
	if err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	updated, err := st.SetParticipantAccount(ctx, created.ID, "acct-42")
	if err != nil {
		t.Fatalf("SetParticipantAccount failed: %v", err)
	}
	if updated.AccountID != "acct-42" {
		t.Fatalf("account not backfilled: %#v", updated)
	}
}

func TestCreateMovieEnforcesUniqueIMDbID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	movie, err := st.CreateMovie(ctx, store.NewMovie{IMDbID: "tt0111161", Title: "Sueño de fuga"})
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	if movie.ReleaseDate != store.SentinelReleaseDate {
		t.Fatalf("expected sentinel release date, got %q", movie.ReleaseDate)
	}

	if _, err := st.CreateMovie(ctx, store.NewMovie{IMDbID: "tt0111161", Title: "Duplicate"}); err == nil {
		t.Fatal("expected unique violation for duplicate imdb_id")
	} else if !strings.Contains(err.Error(), "tt0111161") {
		t.Fatalf("error should carry the imdb id: %v", err)
	}
}

func TestFindMoviesByIMDbIDsBulkLoads(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	ids := []string{"tt0000001", "tt0000002", "tt0000003"}
	for _, id := range ids {
		if _, err := st.CreateMovie(ctx, store.NewMovie{IMDbID: id, Title: "Movie " + id}); err != nil {
			t.Fatalf("CreateMovie %s failed: %v", id, err)
		}
	}

	movies, err := st.FindMoviesByIMDbIDs(ctx, append(ids, "tt9999999"))
	if err != nil {
		t.Fatalf("FindMoviesByIMDbIDs failed: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(movies))
	}

	none, err := st.FindMoviesByIMDbIDs(ctx, nil)
	if err != nil || none != nil {
		t.Fatalf("empty input should short-circuit, got %v %v", none, err)
	}
}

func TestPickUniquenessPerCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	participant, err := st.CreateParticipant(ctx, 0, "Juan", "juan", "")
	if err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	movie, err := st.CreateMovie(ctx, store.NewMovie{IMDbID: "tt1234567", Title: "Movie X"})
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	regular := store.NewPick{ParticipantID: participant.ID, MovieID: movie.ID, Category: store.CategoryRegular, Score: 5}
	if _, err := st.CreatePick(ctx, regular); err != nil {
		t.Fatalf("CreatePick regular failed: %v", err)
	}
	// Same pair in a different category is allowed.
	special := store.NewPick{ParticipantID: participant.ID, MovieID: movie.ID, Category: store.CategorySpecialMention}
	if _, err := st.CreatePick(ctx, special); err != nil {
		t.Fatalf("CreatePick special failed: %v", err)
	}
	// Same pair in the same category is not.
	if _, err := st.CreatePick(ctx, regular); err == nil {
		t.Fatal("expected unique violation for duplicate regular pick")
	}
}

func TestUpsertRankedPickRevisesOnlyTopFlag(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	participant, err := st.CreateParticipant(ctx, 2024, "Ana", "ana", "")
	if err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	movie, err := st.CreateMovie(ctx, store.NewMovie{IMDbID: "tt7654321", Title: "Movie Y"})
	if err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	first := store.NewPick{
		ParticipantID: participant.ID,
		MovieID:       movie.ID,
		Year:          2024,
		Category:      store.CategoryTopTen,
		Score:         1,
		Review:        "original review",
	}
	created, err := st.UpsertRankedPick(ctx, first)
	if err != nil {
		t.Fatalf("UpsertRankedPick failed: %v", err)
	}
	if created.IsTop {
		t.Fatal("first insert should not be top")
	}

	second := first
	second.Score = 99
	second.Review = "should not overwrite"
	second.IsTop = true
	updated, err := st.UpsertRankedPick(ctx, second)
	if err != nil {
		t.Fatalf("UpsertRankedPick update failed: %v", err)
	}
	if !updated.IsTop {
		t.Fatal("expected top flag to be revised")
	}
	if updated.Score != 1 || updated.Review != "original review" {
		t.Fatalf("upsert must not rewrite score or review: %#v", updated)
	}

	picks, err := st.FindPicks(ctx, store.PickFilter{Year: 2024, Category: store.CategoryTopTen})
	if err != nil {
		t.Fatalf("FindPicks failed: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("upsert must never duplicate rows, got %d", len(picks))
	}
}

func TestFindPicksFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	juan, _ := st.CreateParticipant(ctx, 0, "Juan", "juan", "")
	ana, _ := st.CreateParticipant(ctx, 0, "Ana", "ana", "")
	movie, _ := st.CreateMovie(ctx, store.NewMovie{IMDbID: "tt0000010", Title: "Z"})

	for _, p := range []*store.Participant{juan, ana} {
		if _, err := st.CreatePick(ctx, store.NewPick{
			ParticipantID: p.ID, MovieID: movie.ID, Category: store.CategoryRegular, Score: 1,
		}); err != nil {
			t.Fatalf("CreatePick failed: %v", err)
		}
	}

	picks, err := st.FindPicks(ctx, store.PickFilter{ParticipantIDs: []int64{juan.ID}, Category: store.CategoryRegular})
	if err != nil {
		t.Fatalf("FindPicks failed: %v", err)
	}
	if len(picks) != 1 || picks[0].ParticipantID != juan.ID {
		t.Fatalf("unexpected filtered picks: %#v", picks)
	}
}
