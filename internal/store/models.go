package store

import "time"

// Category discriminates pick kinds. Regular and special-mention picks live
// in the club-wide pool (year 0); the ranked categories are year-scoped.
type Category string

const (
	CategoryRegular        Category = "regular"
	CategorySpecialMention Category = "special_mention"
	CategoryTopTen         Category = "top10"
	CategoryBestOfYear     Category = "best_of_year"
	CategoryWorstOfYear    Category = "worst_of_year"
)

// SentinelReleaseDate is stored when the provider reports no release date.
const SentinelReleaseDate = "1900-01-01"

// Participant is a club member eligible to make picks. Year 0 marks the
// global pool; year-scoped pools exist per annual ranking. Slug is derived
// deterministically from DisplayName and unique within its pool.
type Participant struct {
	ID          int64
	Year        int
	Slug        string
	DisplayName string
	AccountID   string
	CreatedAt   time.Time
}

// Movie is a canonical film record keyed by its IMDb ID.
type Movie struct {
	ID               int64
	IMDbID           string
	Title            string
	OriginalTitle    string
	OriginalLanguage string
	ReleaseDate      string
	PosterPath       string
	SourceURL        string
	CreatedAt        time.Time
}

// Pick associates one participant with one movie in a category, optionally
// scoped to a year. IsTop marks the single most-extreme entry in a ranked
// category.
type Pick struct {
	ID            int64
	ParticipantID int64
	MovieID       int64
	Year          int
	Category      Category
	Score         int
	Review        string
	IsTop         bool
	CreatedAt     time.Time
}

// NewMovie carries the fields for movie creation.
type NewMovie struct {
	IMDbID           string
	Title            string
	OriginalTitle    string
	OriginalLanguage string
	ReleaseDate      string
	PosterPath       string
	SourceURL        string
}

// NewPick carries the fields for pick creation and upsert.
type NewPick struct {
	ParticipantID int64
	MovieID       int64
	Year          int
	Category      Category
	Score         int
	Review        string
	IsTop         bool
}
