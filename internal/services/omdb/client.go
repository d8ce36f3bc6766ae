package omdb

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

// Rating represents one entry of the OMDb ratings collection
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Response represents the OMDb lookup response
type Response struct {
	Response   string   `json:"Response"` // "True" or "False"
	Error      string   `json:"Error"`
	Title      string   `json:"Title"`
	Ratings    []Rating `json:"Ratings"`
	IMDBRating string   `json:"imdbRating"`
	IMDBID     string   `json:"imdbID"`
}

// RottenTomatoes returns the Rotten Tomatoes rating value, or "" when
// the ratings collection has no such entry.
func (r *Response) RottenTomatoes() string {
	for _, rating := range r.Ratings {
		if rating.Source == "Rotten Tomatoes" {
			return rating.Value
		}
	}
	return ""
}

// Client handles communication with the OMDb API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new OMDb API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.OMDBAPIKey == "" {
		return nil, fmt.Errorf("OMDb API key is required")
	}

	return &Client{
		baseURL:    cfg.OMDBBaseURL,
		apiKey:     cfg.OMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// GetByID looks up a title by IMDb ID.
func (c *Client) GetByID(ctx context.Context, imdbID string) (*Response, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("apikey", c.apiKey)

	fullURL := c.baseURL + "/?" + params.Encode()
	c.logger.WithField("imdb_id", imdbID).Debug("Making OMDb API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OMDb API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// OMDb signals lookup failures inside a 200 response
	if result.Response == "False" {
		return nil, fmt.Errorf("OMDb lookup failed: %s", result.Error)
	}

	return &result, nil
}
