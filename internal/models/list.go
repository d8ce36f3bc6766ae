package models

import "time"

// MovieEntry is a single movie inside a list: the TMDB ID plus the
// user's watched flag. Entry order inside a list is insertion order and
// is what the UI numbers 1..N.
type MovieEntry struct {
	TMDBID  int64 `json:"id"`
	Watched bool  `json:"watched"`
}

// MovieList is a named, year-tagged ordered collection of movie entries.
// TMDB IDs are unique within a list; add/import operations enforce this.
type MovieList struct {
	ID    string `boltholdKey:"ID" json:"id"`
	Year  string `json:"year"` // 4-digit string
	Title string `json:"title"`

	Entries []MovieEntry `json:"movies"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEntry reports whether the list already contains tmdbID.
func (l *MovieList) HasEntry(tmdbID int64) bool {
	for _, e := range l.Entries {
		if e.TMDBID == tmdbID {
			return true
		}
	}
	return false
}

// WatchedCount returns how many entries are marked watched.
func (l *MovieList) WatchedCount() int {
	count := 0
	for _, e := range l.Entries {
		if e.Watched {
			count++
		}
	}
	return count
}

// ListSummary is one row of the list index used to populate selection UI.
type ListSummary struct {
	ID    string `json:"id"`
	Year  string `json:"year"`
	Title string `json:"title"`
}
