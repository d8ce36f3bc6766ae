package controllers

import (
	"context"
	"time"

	"github.com/amaumene/moviarr/internal/metrics"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/amaumene/moviarr/internal/services/omdb"
	"github.com/amaumene/moviarr/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

const defaultOverview = "No description available."

// MetadataProvider aggregates one movie's metadata from the two
// upstreams: details, credits and external IDs from TMDB, then ratings
// from OMDb keyed by the IMDb cross-reference ID. A nil omdbClient
// disables the ratings lookup entirely.
type MetadataProvider struct {
	tmdbClient *tmdb.Client
	omdbClient *omdb.Client
	logger     *logrus.Logger
}

// NewMetadataProvider creates a new metadata provider. omdbClient may be
// nil when no OMDb credential is configured.
func NewMetadataProvider(tmdbClient *tmdb.Client, omdbClient *omdb.Client, logger *logrus.Logger) *MetadataProvider {
	return &MetadataProvider{
		tmdbClient: tmdbClient,
		omdbClient: omdbClient,
		logger:     logger,
	}
}

// Fetch builds the normalized details record for one TMDB ID. The TMDB
// lookups (details, credits, external IDs) must all succeed or the whole
// fetch fails with a ProviderError and nothing is cached. The OMDb step
// degrades to "N/A" scores instead: on a missing IMDb ID, a missing
// credential, or a ratings lookup failure. No retries are performed.
func (p *MetadataProvider) Fetch(ctx context.Context, tmdbID int64) (*models.MovieDetails, error) {
	movie, err := p.tmdbClient.GetMovie(ctx, tmdbID)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("tmdb", "error").Inc()
		return nil, &models.ProviderError{Provider: "tmdb", Op: "get movie", TMDBID: tmdbID, Err: err}
	}

	credits, err := p.tmdbClient.GetCredits(ctx, tmdbID)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("tmdb", "error").Inc()
		return nil, &models.ProviderError{Provider: "tmdb", Op: "get credits", TMDBID: tmdbID, Err: err}
	}

	externalIDs, err := p.tmdbClient.GetExternalIDs(ctx, tmdbID)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("tmdb", "error").Inc()
		return nil, &models.ProviderError{Provider: "tmdb", Op: "get external ids", TMDBID: tmdbID, Err: err}
	}
	metrics.ProviderFetches.WithLabelValues("tmdb", "success").Inc()

	details := &models.MovieDetails{
		TMDBID:              movie.ID,
		Title:               movie.Title,
		ReleaseYear:         releaseYear(movie.ReleaseDate),
		PosterPath:          movie.PosterPath,
		Director:            director(credits),
		Overview:            movie.Overview,
		RottenTomatoesScore: models.ScoreUnavailable,
		IMDBScore:           models.ScoreUnavailable,
		FetchedAt:           time.Now(),
	}
	if details.Overview == "" {
		details.Overview = defaultOverview
	}

	p.fetchScores(ctx, externalIDs.IMDBID, details)

	return details, nil
}

// fetchScores fills in the Rotten Tomatoes and IMDb scores when an IMDb
// ID and an OMDb client are available. Failures leave both at "N/A".
func (p *MetadataProvider) fetchScores(ctx context.Context, imdbID string, details *models.MovieDetails) {
	if imdbID == "" {
		p.logger.WithField("tmdb_id", details.TMDBID).Debug("No IMDb ID, skipping ratings lookup")
		return
	}
	if p.omdbClient == nil {
		p.logger.Debug("OMDb API key is missing, skipping ratings lookup")
		return
	}

	ratings, err := p.omdbClient.GetByID(ctx, imdbID)
	if err != nil {
		metrics.ProviderFetches.WithLabelValues("omdb", "error").Inc()
		p.logger.WithError(err).WithFields(logrus.Fields{
			"tmdb_id": details.TMDBID,
			"imdb_id": imdbID,
		}).Warn("Ratings lookup failed, scores unavailable")
		return
	}
	metrics.ProviderFetches.WithLabelValues("omdb", "success").Inc()

	if rt := ratings.RottenTomatoes(); rt != "" {
		details.RottenTomatoesScore = rt
	}
	if ratings.IMDBRating != "" {
		details.IMDBScore = ratings.IMDBRating
	}
}

// releaseYear extracts the 4-digit year from a TMDB release date.
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return models.ScoreUnavailable
	}
	return releaseDate[:4]
}

// director returns the name of the first crew member whose job is
// "Director", or "N/A" when the credits list none.
func director(credits *tmdb.Credits) string {
	for _, member := range credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return models.ScoreUnavailable
}
