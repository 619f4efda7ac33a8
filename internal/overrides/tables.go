// Package overrides loads the curated mapping tables club admins maintain
// by hand: display-name aliases, last-resort participant ID pins, TMDB IDs
// for IMDb IDs the provider's find endpoint cannot resolve, and raw-name to
// account-ID bindings.
//
// The tables ship as a JSON file referenced from configuration so they can
// be edited without redeploying the tool. A missing file yields empty
// tables, not an error. Lookups are keyed case-insensitively on the trimmed
// raw name.
package overrides

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Tables holds the curated lookups. All maps may be nil.
type Tables struct {
	// Aliases maps a raw name as it appears in exports to the canonical
	// display name of an existing participant.
	Aliases map[string]string `json:"aliases"`
	// ParticipantIDs pins a raw name directly to a participant ID. Used only
	// after every name-based tier has failed, and only when the target
	// participant still exists.
	ParticipantIDs map[string]int64 `json:"participant_ids"`
	// TMDBIDs maps an IMDb ID to the provider's own movie ID for titles the
	// find endpoint returns empty for.
	TMDBIDs map[string]int64 `json:"tmdb_ids"`
	// Accounts maps a raw name to a linked account ID for backfill.
	Accounts map[string]string `json:"accounts"`
}

// Load reads the tables from a JSON file. A missing file produces empty
// tables; a malformed file is an error.
func Load(path string) (*Tables, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &Tables{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Tables{}, nil
		}
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var tables Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	tables.normalizeKeys()
	return &tables, nil
}

// MergeMapping overlays account bindings from a separate mapping file (the
// --mapping CLI flag). Entries win over the base table.
func (t *Tables) MergeMapping(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}
	var accounts map[string]string
	if err := json.Unmarshal(data, &accounts); err != nil {
		return fmt.Errorf("parse mapping %s: %w", path, err)
	}
	if t.Accounts == nil {
		t.Accounts = make(map[string]string, len(accounts))
	}
	for raw, account := range accounts {
		t.Accounts[lookupKey(raw)] = strings.TrimSpace(account)
	}
	return nil
}

// Alias returns the canonical display name for a raw name.
func (t *Tables) Alias(raw string) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.Aliases[lookupKey(raw)]
	return name, ok
}

// ParticipantID returns the pinned participant ID for a raw name.
func (t *Tables) ParticipantID(raw string) (int64, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.ParticipantIDs[lookupKey(raw)]
	return id, ok
}

// TMDBID returns the provider movie ID curated for an IMDb ID.
func (t *Tables) TMDBID(imdbID string) (int64, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.TMDBIDs[lookupKey(imdbID)]
	return id, ok
}

// Account returns the linked account ID curated for a raw name.
func (t *Tables) Account(raw string) (string, bool) {
	if t == nil {
		return "", false
	}
	account, ok := t.Accounts[lookupKey(raw)]
	return account, ok && account != ""
}

func (t *Tables) normalizeKeys() {
	t.Aliases = normalizeStringMap(t.Aliases)
	t.Accounts = normalizeStringMap(t.Accounts)
	if len(t.ParticipantIDs) > 0 {
		normalized := make(map[string]int64, len(t.ParticipantIDs))
		for raw, id := range t.ParticipantIDs {
			normalized[lookupKey(raw)] = id
		}
		t.ParticipantIDs = normalized
	}
	if len(t.TMDBIDs) > 0 {
		normalized := make(map[string]int64, len(t.TMDBIDs))
		for raw, id := range t.TMDBIDs {
			normalized[lookupKey(raw)] = id
		}
		t.TMDBIDs = normalized
	}
}

func normalizeStringMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return m
	}
	normalized := make(map[string]string, len(m))
	for raw, value := range m {
		normalized[lookupKey(raw)] = strings.TrimSpace(value)
	}
	return normalized
}

func lookupKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
