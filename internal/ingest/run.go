package ingest

import (
	"fmt"
	"log/slog"
	"os"

	"marquee/internal/overrides"
	"marquee/internal/pacer"
	"marquee/internal/tmdb"
)

// Deps wires a run to the store, provider, and curated tables. The store
// interfaces are satisfied by *store.Store; tests substitute fakes for the
// provider and narrow store slices.
type Deps struct {
	Participants ParticipantStore
	Movies       MovieStore
	Picks        PickStore
	Provider     tmdb.Finder
	Tables       *overrides.Tables
	Pacer        *pacer.Pacer
	Logger       *slog.Logger
}

func (d Deps) validate() error {
	if d.Participants == nil || d.Movies == nil || d.Picks == nil {
		return fmt.Errorf("ingest: store dependencies not wired")
	}
	if d.Provider == nil {
		return fmt.Errorf("ingest: metadata provider not wired")
	}
	return nil
}

func (d *Deps) fillDefaults() {
	if d.Tables == nil {
		d.Tables = &overrides.Tables{}
	}
	if d.Pacer == nil {
		d.Pacer = pacer.New(pacer.DefaultDelay, pacer.DefaultCooldown, pacer.DefaultBurst)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
}

// Options selects the input and run mode.
type Options struct {
	CSVPath string
	// Year scopes the ranking import's participant pool and picks. Ignored
	// by the mention import, which always targets the global pool.
	Year int
	// DryRun executes the full pipeline, provider calls included, without
	// writing to the store.
	DryRun bool
}

func openInput(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return file, nil
}
