// Package tmdb is a client for the TMDB movie metadata API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/posterwall/posterwall/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrInvalidAPIKey = errors.New("TMDB API key was rejected")
	ErrNotFound      = errors.New("movie not found")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrAPIError      = errors.New("TMDB API error")
)

// writingJobs are the crew job titles counted as writing credits.
var writingJobs = map[string]bool{
	"Screenplay": true,
	"Writer":     true,
	"Story":      true,
}

// alternativeTitleRegions are the regions kept when filtering alternative
// titles, all Chinese-speaking.
var alternativeTitleRegions = map[string]bool{
	"CN": true,
	"HK": true,
	"TW": true,
	"SG": true,
}

// castLimit bounds how many cast entries are kept, assuming TMDB returns
// them in importance order.
const castLimit = 4

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Validate verifies the configured credential by making a lightweight
// configuration request.
func (c *Client) Validate(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, url.Values{}, &result)
}

// SearchMovies searches for movies by query with an optional year filter.
// Results are returned in provider order; TMDB's own ranking carries a
// relevance signal the caller's scoring relies on.
func (c *Client) SearchMovies(ctx context.Context, query string, year int) ([]MovieResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/movie", c.config.BaseURL)
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", c.config.Language)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("year", fmt.Sprintf("%d", year))
	}

	var response SearchMoviesResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("year", year).
		Int("results", len(response.Results)).
		Msg("Movie search completed")

	return response.Results, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("language", c.config.Language)

	var details MovieDetails
	if err := c.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", details.Title).
		Msg("Got movie details")

	return &details, nil
}

// GetCredits fetches credits for a movie and normalizes them into
// directors, writers, and a truncated cast list.
func (c *Client) GetCredits(ctx context.Context, id int) (*NormalizedCredits, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/credits", c.config.BaseURL, id)
	params := url.Values{}
	params.Set("language", c.config.Language)

	var response CreditsResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	credits := &NormalizedCredits{
		Directors: make([]Credit, 0, 1),
		Writers:   make([]Credit, 0, 2),
		Cast:      make([]Credit, 0, castLimit),
	}

	for _, crew := range response.Crew {
		switch {
		case crew.Job == "Director":
			credits.Directors = append(credits.Directors, Credit{Name: crew.Name, Job: crew.Job})
		case writingJobs[crew.Job]:
			credits.Writers = append(credits.Writers, Credit{Name: crew.Name, Job: crew.Job})
		}
	}

	for _, cast := range response.Cast {
		if len(credits.Cast) >= castLimit {
			break
		}
		credits.Cast = append(credits.Cast, Credit{Name: cast.Name, Character: cast.Character})
	}

	c.logger.Debug().
		Int("id", id).
		Int("directors", len(credits.Directors)).
		Int("writers", len(credits.Writers)).
		Int("cast", len(credits.Cast)).
		Msg("Got movie credits")

	return credits, nil
}

// GetAlternativeTitles fetches alternative titles for a movie, filtered to
// Chinese-speaking regions.
func (c *Client) GetAlternativeTitles(ctx context.Context, id int) ([]AlternativeTitle, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/alternative_titles", c.config.BaseURL, id)

	var response AlternativeTitlesResponse
	if err := c.doRequest(ctx, endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	titles := make([]AlternativeTitle, 0, len(response.Titles))
	for _, t := range response.Titles {
		if alternativeTitleRegions[t.Iso31661] {
			titles = append(titles, t)
		}
	}

	c.logger.Debug().
		Int("id", id).
		Int("titles", len(titles)).
		Msg("Got alternative titles")

	return titles, nil
}

// GetImages fetches the poster set for a movie.
func (c *Client) GetImages(ctx context.Context, id int) ([]Poster, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/movie/%d/images", c.config.BaseURL, id)

	var response ImagesResponse
	if err := c.doRequest(ctx, endpoint, url.Values{}, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Int("posters", len(response.Posters)).
		Msg("Got movie images")

	return response.Posters, nil
}

// ImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) ImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancelled requests are expected under rapid input; the caller
		// recognizes context.Canceled and stays quiet about it.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return ErrInvalidAPIKey
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
