package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amaumene/moviarr/internal/config"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/amaumene/moviarr/internal/services/omdb"
	"github.com/amaumene/moviarr/internal/services/tmdb"
)

// newFakeTMDB serves the three movie endpoints the provider composes.
// Empty imdbID omits the cross-reference ID; failPath makes one endpoint
// return a 500.
func newFakeTMDB(t *testing.T, imdbID, failPath string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == failPath {
			http.Error(w, "upstream broken", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/550":
			fmt.Fprint(w, `{
				"id": 550,
				"title": "Fight Club",
				"release_date": "1999-10-15",
				"poster_path": "/poster.jpg",
				"overview": "An insomniac office worker..."
			}`)
		case "/movie/550/credits":
			fmt.Fprint(w, `{"crew": [
				{"job": "Producer", "name": "Art Linson"},
				{"job": "Director", "name": "David Fincher"},
				{"job": "Director", "name": "Not The Real One"}
			]}`)
		case "/movie/550/external_ids":
			fmt.Fprintf(w, `{"imdb_id": %q}`, imdbID)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newFakeOMDB(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") == "" || r.URL.Query().Get("apikey") == "" {
			t.Errorf("OMDb request missing parameters: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func newTestProvider(t *testing.T, tmdbURL, omdbURL string) *MetadataProvider {
	t.Helper()
	cfg := &config.Config{
		TMDBAPIKey:  "test-key",
		TMDBBaseURL: tmdbURL,
		OMDBAPIKey:  "test-key",
		OMDBBaseURL: omdbURL,
	}
	logger := newTestLogger()

	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create TMDB client: %v", err)
	}

	var omdbClient *omdb.Client
	if omdbURL != "" {
		omdbClient, err = omdb.NewClient(cfg, logger)
		if err != nil {
			t.Fatalf("Failed to create OMDb client: %v", err)
		}
	}

	return NewMetadataProvider(tmdbClient, omdbClient, logger)
}

func TestFetchComposesFullRecord(t *testing.T) {
	tmdbServer := newFakeTMDB(t, "tt0137523", "")
	defer tmdbServer.Close()
	omdbServer := newFakeOMDB(t, `{
		"Response": "True",
		"Ratings": [
			{"Source": "Internet Movie Database", "Value": "8.8/10"},
			{"Source": "Rotten Tomatoes", "Value": "79%"}
		],
		"imdbRating": "8.8"
	}`)
	defer omdbServer.Close()

	provider := newTestProvider(t, tmdbServer.URL, omdbServer.URL)

	details, err := provider.Fetch(context.Background(), 550)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if details.Title != "Fight Club" {
		t.Errorf("Title mismatch: %q", details.Title)
	}
	if details.ReleaseYear != "1999" {
		t.Errorf("Expected release year 1999, got %q", details.ReleaseYear)
	}
	if details.Director != "David Fincher" {
		t.Errorf("Expected first director, got %q", details.Director)
	}
	if details.RottenTomatoesScore != "79%" {
		t.Errorf("Expected Rotten Tomatoes 79%%, got %q", details.RottenTomatoesScore)
	}
	if details.IMDBScore != "8.8" {
		t.Errorf("Expected IMDb score 8.8, got %q", details.IMDBScore)
	}
}

func TestFetchWithoutIMDBIDSkipsRatings(t *testing.T) {
	tmdbServer := newFakeTMDB(t, "", "")
	defer tmdbServer.Close()
	omdbServer := newFakeOMDB(t, `{"Response": "True"}`)
	defer omdbServer.Close()

	provider := newTestProvider(t, tmdbServer.URL, omdbServer.URL)

	details, err := provider.Fetch(context.Background(), 550)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if details.RottenTomatoesScore != models.ScoreUnavailable {
		t.Errorf("Expected N/A critic score, got %q", details.RottenTomatoesScore)
	}
	if details.IMDBScore != models.ScoreUnavailable {
		t.Errorf("Expected N/A audience score, got %q", details.IMDBScore)
	}
}

func TestFetchWithoutOMDBClientSkipsRatings(t *testing.T) {
	tmdbServer := newFakeTMDB(t, "tt0137523", "")
	defer tmdbServer.Close()

	provider := newTestProvider(t, tmdbServer.URL, "")

	details, err := provider.Fetch(context.Background(), 550)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if details.RottenTomatoesScore != models.ScoreUnavailable || details.IMDBScore != models.ScoreUnavailable {
		t.Errorf("Expected N/A scores without OMDb client, got %q / %q",
			details.RottenTomatoesScore, details.IMDBScore)
	}
}

func TestFetchRatingsFailureIsNonFatal(t *testing.T) {
	tmdbServer := newFakeTMDB(t, "tt0137523", "")
	defer tmdbServer.Close()
	omdbServer := newFakeOMDB(t, `{"Response": "False", "Error": "Invalid API key!"}`)
	defer omdbServer.Close()

	provider := newTestProvider(t, tmdbServer.URL, omdbServer.URL)

	details, err := provider.Fetch(context.Background(), 550)
	if err != nil {
		t.Fatalf("Fetch should survive a ratings failure, got %v", err)
	}
	if details.RottenTomatoesScore != models.ScoreUnavailable {
		t.Errorf("Expected N/A critic score, got %q", details.RottenTomatoesScore)
	}
}

func TestFetchFailsOnTMDBError(t *testing.T) {
	for _, failPath := range []string{"/movie/550", "/movie/550/credits", "/movie/550/external_ids"} {
		tmdbServer := newFakeTMDB(t, "tt0137523", failPath)
		provider := newTestProvider(t, tmdbServer.URL, "")

		_, err := provider.Fetch(context.Background(), 550)
		tmdbServer.Close()

		var providerErr *models.ProviderError
		if !errors.As(err, &providerErr) {
			t.Errorf("Expected ProviderError when %s fails, got %v", failPath, err)
			continue
		}
		if providerErr.TMDBID != 550 {
			t.Errorf("ProviderError carries wrong ID: %d", providerErr.TMDBID)
		}
	}
}

func TestFetchDefaults(t *testing.T) {
	tmdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/42":
			fmt.Fprint(w, `{"id": 42, "title": "Obscure", "release_date": "", "overview": ""}`)
		case "/movie/42/credits":
			fmt.Fprint(w, `{"crew": [{"job": "Producer", "name": "Someone"}]}`)
		case "/movie/42/external_ids":
			fmt.Fprint(w, `{"imdb_id": ""}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer tmdbServer.Close()

	provider := newTestProvider(t, tmdbServer.URL, "")

	details, err := provider.Fetch(context.Background(), 42)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if details.ReleaseYear != models.ScoreUnavailable {
		t.Errorf("Expected N/A release year, got %q", details.ReleaseYear)
	}
	if details.Director != models.ScoreUnavailable {
		t.Errorf("Expected N/A director, got %q", details.Director)
	}
	if details.Overview != defaultOverview {
		t.Errorf("Expected default overview, got %q", details.Overview)
	}
}
