package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store holding movie lists, cached movie
// details and scalar settings.
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// List operations

// InsertList persists a new movie list.
func (db *Database) InsertList(list *MovieList) error {
	list.CreatedAt = time.Now()
	list.UpdatedAt = time.Now()
	return db.store.Insert(list.ID, list)
}

// SaveList fully overwrites the persisted representation of a list.
func (db *Database) SaveList(list *MovieList) error {
	list.UpdatedAt = time.Now()
	return db.store.Upsert(list.ID, list)
}

// GetListByID retrieves a movie list by its ID.
func (db *Database) GetListByID(id string) (*MovieList, error) {
	var list MovieList
	err := db.store.Get(id, &list)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, &NotFoundError{Resource: "list", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAllLists retrieves every movie list, in no particular order.
func (db *Database) GetAllLists() ([]*MovieList, error) {
	var lists []*MovieList
	err := db.store.Find(&lists, nil)
	return lists, err
}

// DeleteList deletes a movie list by ID. Deleting a list that does not
// exist is a no-op.
func (db *Database) DeleteList(id string) error {
	err := db.store.Delete(id, &MovieList{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}

// Movie details cache operations

// GetMovieDetails retrieves cached details for a TMDB ID.
func (db *Database) GetMovieDetails(tmdbID int64) (*MovieDetails, error) {
	var details MovieDetails
	err := db.store.Get(tmdbID, &details)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, &NotFoundError{Resource: "movie", ID: strconv.FormatInt(tmdbID, 10)}
	}
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// PutMovieDetails stores details for a TMDB ID. Last write wins.
func (db *Database) PutMovieDetails(details *MovieDetails) error {
	return db.store.Upsert(details.TMDBID, details)
}

// Settings operations

// GetSetting retrieves a scalar setting value. Returns an empty string
// when the setting has never been written.
func (db *Database) GetSetting(key string) (string, error) {
	var setting Setting
	err := db.store.Get(key, &setting)
	if errors.Is(err, bolthold.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// PutSetting stores a scalar setting value, overwriting any previous one.
func (db *Database) PutSetting(key, value string) error {
	return db.store.Upsert(key, &Setting{Key: key, Value: value})
}
