package models

import "time"

// ScoreUnavailable is the sentinel used when a director or rating could
// not be determined from the upstream providers.
const ScoreUnavailable = "N/A"

// MovieDetails is the normalized metadata record for one TMDB ID,
// aggregated from TMDB (details, credits, external IDs) and OMDb
// (ratings). Records are treated as immutable once cached: a given ID's
// metadata is never re-fetched.
type MovieDetails struct {
	TMDBID int64 `boltholdKey:"TMDBID" json:"id"`

	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"` // 4 digits, or "N/A"
	PosterPath  string `json:"poster_path,omitempty"`
	Director    string `json:"director"`
	Overview    string `json:"overview"`

	// Scores are kept as upstream-formatted strings ("94%", "8.7"),
	// or "N/A" when the ratings lookup was skipped or empty.
	RottenTomatoesScore string `json:"rotten_tomatoes_score"`
	IMDBScore           string `json:"imdb_score"`

	FetchedAt time.Time `json:"fetched_at"`
}
