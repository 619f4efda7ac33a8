// Package tmdb provides the minimal TMDB API client used during pick
// ingestion.
//
// It exposes exactly two lookups: resolving an IMDb title ID through the
// find endpoint, and fetching movie details by TMDB ID for curated override
// entries the find endpoint cannot resolve. A non-2xx response and an empty
// result set are reported identically as "not found" so callers treat
// provider misses as row-level data issues, never as run-aborting errors.
// Options allow tests to supply custom HTTP clients without modifying
// production code.
package tmdb
