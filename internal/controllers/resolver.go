package controllers

import (
	"context"

	"github.com/amaumene/moviarr/internal/metrics"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/sirupsen/logrus"
)

// Fetcher fetches the normalized details record for one TMDB ID.
// Implemented by MetadataProvider.
type Fetcher interface {
	Fetch(ctx context.Context, tmdbID int64) (*models.MovieDetails, error)
}

// ResolvedMovie is one render-ready record of a resolved list: the
// cached or freshly fetched details plus the entry's watched flag and
// its 1-based position in the source list.
type ResolvedMovie struct {
	Position int                  `json:"position"`
	Watched  bool                 `json:"watched"`
	Details  *models.MovieDetails `json:"details"`
}

// Diagnostic records a movie that was skipped during resolution because
// its metadata fetch failed.
type Diagnostic struct {
	Position int    `json:"position"`
	TMDBID   int64  `json:"id"`
	Error    string `json:"error"`
}

// ResolverController turns list entries into enriched movie records,
// cache-first. IDs are processed strictly one at a time to bound load on
// the upstream providers and keep cache writes serialized; neither
// upstream documents a concurrency limit, so none is assumed.
type ResolverController struct {
	cache    *MetadataCache
	provider Fetcher
	logger   *logrus.Logger
}

// NewResolverController creates a new resolver controller.
func NewResolverController(cache *MetadataCache, provider Fetcher, logger *logrus.Logger) *ResolverController {
	return &ResolverController{
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

// Resolve resolves every entry of a list, preserving input order. An
// entry whose fetch fails is omitted from the result and recorded as a
// diagnostic; resolution continues with the remaining entries instead of
// aborting. At most one upstream fetch is performed per ID, ever: a
// successful fetch is cached before the record is yielded.
func (c *ResolverController) Resolve(ctx context.Context, entries []models.MovieEntry) ([]ResolvedMovie, []Diagnostic) {
	resolved := make([]ResolvedMovie, 0, len(entries))
	var diagnostics []Diagnostic

	for i, entry := range entries {
		details, err := c.resolveDetails(ctx, entry.TMDBID)
		if err != nil {
			metrics.ResolveSkipped.Inc()
			c.logger.WithError(err).WithField("tmdb_id", entry.TMDBID).
				Warn("Skipping movie, metadata fetch failed")
			diagnostics = append(diagnostics, Diagnostic{
				Position: i + 1,
				TMDBID:   entry.TMDBID,
				Error:    err.Error(),
			})
			continue
		}

		resolved = append(resolved, ResolvedMovie{
			Position: i + 1,
			Watched:  entry.Watched,
			Details:  details,
		})
	}

	return resolved, diagnostics
}

// ResolveOne resolves a single TMDB ID with the same cache-first
// semantics as Resolve. Used for the detail view of one entry.
func (c *ResolverController) ResolveOne(ctx context.Context, tmdbID int64) (*models.MovieDetails, error) {
	return c.resolveDetails(ctx, tmdbID)
}

func (c *ResolverController) resolveDetails(ctx context.Context, tmdbID int64) (*models.MovieDetails, error) {
	if details, found := c.cache.Get(tmdbID); found {
		return details, nil
	}

	details, err := c.provider.Fetch(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	c.cache.Put(details)
	return details, nil
}
