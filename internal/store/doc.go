// Package store persists the club's canonical records in SQLite: the
// participant pools, the movie catalog keyed by IMDb ID, and the picks that
// join them.
//
// Participants and movies are append-mostly reference data. Movies are
// create-only: once a row exists for an IMDb ID its metadata is never
// rewritten. Picks carry the per-category uniqueness constraint the
// reconciliation engine relies on, so a duplicate insert surfaces as a
// constraint violation rather than silent data corruption.
//
// Schema changes bump the version in schema.go; the database refuses to open
// at a mismatched version so a stale file is never migrated implicitly.
package store
