package handlers

import (
	"net/http"
	"strconv"

	"github.com/amaumene/moviarr/internal/controllers"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/amaumene/moviarr/internal/services/tmdb"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// maxSearchResults caps how many search results are returned.
const maxSearchResults = 25

// MoviesHandler handles movie detail and search requests
type MoviesHandler struct {
	resolver   *controllers.ResolverController
	tmdbClient *tmdb.Client
	logger     *logrus.Logger
}

// NewMoviesHandler creates a new movies handler
func NewMoviesHandler(resolver *controllers.ResolverController, tmdbClient *tmdb.Client, logger *logrus.Logger) *MoviesHandler {
	return &MoviesHandler{
		resolver:   resolver,
		tmdbClient: tmdbClient,
		logger:     logger,
	}
}

// Get handles GET /api/movies/{tmdbId} — the detail view for one entry,
// with the same cache-first semantics as a full list resolution.
func (h *MoviesHandler) Get(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(mux.Vars(r)["tmdbId"], 10, 64)
	if err != nil || tmdbID <= 0 {
		writeError(w, h.logger, &models.ValidationError{Field: "id", Reason: "must be a positive TMDB ID"})
		return
	}

	details, err := h.resolver.ResolveOne(r.Context(), tmdbID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// searchResult is one row of the search response.
type searchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"`
	PosterPath  string `json:"poster_path,omitempty"`
}

// Search handles GET /api/search?query=
func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, h.logger, &models.ValidationError{Field: "query", Reason: "must not be empty"})
		return
	}

	movies, err := h.tmdbClient.SearchMovies(r.Context(), query)
	if err != nil {
		writeError(w, h.logger, &models.ProviderError{Provider: "tmdb", Op: "search", Err: err})
		return
	}

	if len(movies) > maxSearchResults {
		movies = movies[:maxSearchResults]
	}

	results := make([]searchResult, 0, len(movies))
	for _, movie := range movies {
		year := models.ScoreUnavailable
		if len(movie.ReleaseDate) >= 4 {
			year = movie.ReleaseDate[:4]
		}
		results = append(results, searchResult{
			ID:          movie.ID,
			Title:       movie.Title,
			ReleaseYear: year,
			PosterPath:  movie.PosterPath,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
