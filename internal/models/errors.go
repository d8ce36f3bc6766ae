package models

import "fmt"

// NotFoundError signals a missing list or entry. Recovered locally by
// callers and surfaced as a user message, never fatal.
type NotFoundError struct {
	Resource string // "list", "entry", "movie"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError signals malformed user input, rejected before any
// mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProviderError signals an upstream metadata fetch failure. The affected
// TMDB ID is skipped during resolution; no partial record is produced.
type ProviderError struct {
	Provider string // "tmdb" or "omdb"
	Op       string
	TMDBID   int64
	Err      error
}

func (e *ProviderError) Error() string {
	if e.TMDBID == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed for movie %d: %v", e.Provider, e.Op, e.TMDBID, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StorageError signals a persistence write failure. The operation's
// in-memory effect still stands for the current session; the caller is
// warned the change may not survive a restart.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
