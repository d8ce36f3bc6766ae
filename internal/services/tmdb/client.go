package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/amaumene/moviarr/internal/config"
	"github.com/sirupsen/logrus"
)

// Movie represents the TMDB movie details response
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"` // "2006-10-06"
	PosterPath  string `json:"poster_path"`
	Overview    string `json:"overview"`
}

// CrewMember represents one crew entry in the credits response
type CrewMember struct {
	Job  string `json:"job"`
	Name string `json:"name"`
}

// Credits represents the TMDB credits response
type Credits struct {
	Crew []CrewMember `json:"crew"`
}

// ExternalIDs represents the TMDB external IDs response
type ExternalIDs struct {
	IMDBID string `json:"imdb_id"`
}

// SearchResponse represents the TMDB movie search response
type SearchResponse struct {
	Results []Movie `json:"results"`
}

// Client handles communication with the TMDB API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:    cfg.TMDBBaseURL,
		apiKey:     cfg.TMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// doRequest performs a GET request against the TMDB API and decodes the
// JSON response into result.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	fullURL := c.baseURL + path + "?" + params.Encode()
	c.logger.WithField("path", path).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetMovie fetches the main details for a movie.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	params := url.Values{}
	params.Set("language", "en-US")

	var movie Movie
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", tmdbID), params, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetCredits fetches the crew listing for a movie.
func (c *Client) GetCredits(ctx context.Context, tmdbID int64) (*Credits, error) {
	var credits Credits
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/credits", tmdbID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// GetExternalIDs fetches the cross-reference IDs for a movie. Only the
// IMDb ID is consumed, to key the OMDb ratings lookup.
func (c *Client) GetExternalIDs(ctx context.Context, tmdbID int64) (*ExternalIDs, error) {
	var ids ExternalIDs
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/external_ids", tmdbID), nil, &ids); err != nil {
		return nil, err
	}
	return &ids, nil
}

// SearchMovies searches TMDB for movies matching the query. Only the
// first page of results is requested.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")

	var response SearchResponse
	if err := c.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(response.Results)).Debug("TMDB search completed")
	return response.Results, nil
}
