package controllers

import (
	"strconv"
	"time"

	"github.com/amaumene/moviarr/internal/metrics"
	"github.com/amaumene/moviarr/internal/models"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// MetadataCache stores normalized movie details keyed by TMDB ID. It is
// two layers deep: a process-lifetime in-memory map in front of the
// durable bolthold store, so a record fetched once is never requested
// upstream again, even across restarts. There is no TTL or eviction;
// movie metadata is treated as immutable.
type MetadataCache struct {
	db     *models.Database
	memory *gocache.Cache
	logger *logrus.Logger
}

// NewMetadataCache creates a new metadata cache backed by db.
func NewMetadataCache(db *models.Database, logger *logrus.Logger) *MetadataCache {
	return &MetadataCache{
		db:     db,
		memory: gocache.New(gocache.NoExpiration, 0),
		logger: logger,
	}
}

func memoryKey(tmdbID int64) string {
	return strconv.FormatInt(tmdbID, 10)
}

// Get returns the cached details for a TMDB ID, or false when the ID has
// never been resolved. A durable-layer hit backfills the memory layer.
func (c *MetadataCache) Get(tmdbID int64) (*models.MovieDetails, bool) {
	if cached, found := c.memory.Get(memoryKey(tmdbID)); found {
		metrics.CacheHits.Inc()
		return cached.(*models.MovieDetails), true
	}

	details, err := c.db.GetMovieDetails(tmdbID)
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	c.memory.Set(memoryKey(tmdbID), details, gocache.NoExpiration)
	metrics.CacheHits.Inc()
	return details, true
}

// Put stores details for a TMDB ID. Last write wins. A failed durable
// write is downgraded to a warning: the memory layer still holds the
// record, so the current session keeps working and only persistence
// across restarts is lost. Put never fails metadata resolution.
func (c *MetadataCache) Put(details *models.MovieDetails) {
	c.memory.Set(memoryKey(details.TMDBID), details, gocache.NoExpiration)

	if details.FetchedAt.IsZero() {
		details.FetchedAt = time.Now()
	}
	if err := c.db.PutMovieDetails(details); err != nil {
		storageErr := &models.StorageError{Op: "put movie details", Err: err}
		c.logger.WithError(storageErr).WithField("tmdb_id", details.TMDBID).
			Warn("Failed to persist movie details, record kept in memory only")
	}
}
