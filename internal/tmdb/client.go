package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"

// Cache TTLs. Fetched records change rarely; listings churn daily.
const (
	recordCacheTTL  = 7 * 24 * time.Hour
	listingCacheTTL = 24 * time.Hour
)

// ErrNotFound is returned when a title doesn't exist in TMDB.
var ErrNotFound = errors.New("title not found")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache attaches a persistent response cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches one API path into out, going through the cache when attached.
func (c *Client) get(ctx context.Context, path string, params url.Values, ttl time.Duration, out any) error {
	cacheKey := path
	if len(params) > 0 {
		cacheKey += "?" + params.Encode()
	}

	if c.cache != nil {
		if data, ok := c.cache.Get(ctx, cacheKey); ok {
			return json.Unmarshal(data, out)
		}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if c.cache != nil {
		// A cache write failure must not fail the fetch itself.
		_ = c.cache.Set(ctx, cacheKey, raw, ttl)
	}
	return nil
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), nil, recordCacheTTL, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetSeries fetches TV show metadata by TMDB ID.
func (c *Client) GetSeries(ctx context.Context, tmdbID int64) (*Series, error) {
	var series Series
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d", tmdbID), nil, recordCacheTTL, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// GetSeason fetches the episode listing of one season.
func (c *Client) GetSeason(ctx context.Context, tmdbID int64, season int) (*SeasonDetails, error) {
	var details SeasonDetails
	path := fmt.Sprintf("/3/tv/%d/season/%d", tmdbID, season)
	if err := c.get(ctx, path, nil, recordCacheTTL, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SearchMovies runs a text search for movies.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]*Movie, error) {
	params := url.Values{"query": {query}}
	var list movieList
	if err := c.get(ctx, "/3/search/movie", params, listingCacheTTL, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// SearchSeries runs a text search for TV shows.
func (c *Client) SearchSeries(ctx context.Context, query string) ([]*Series, error) {
	params := url.Values{"query": {query}}
	var list seriesList
	if err := c.get(ctx, "/3/search/tv", params, listingCacheTTL, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// PopularMovies returns one page of the popular movie listing.
func (c *Client) PopularMovies(ctx context.Context, page int) ([]*Movie, error) {
	params := url.Values{"page": {fmt.Sprint(page)}}
	var list movieList
	if err := c.get(ctx, "/3/movie/popular", params, listingCacheTTL, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// PopularSeries returns one page of the popular TV listing.
func (c *Client) PopularSeries(ctx context.Context, page int) ([]*Series, error) {
	params := url.Values{"page": {fmt.Sprint(page)}}
	var list seriesList
	if err := c.get(ctx, "/3/tv/popular", params, listingCacheTTL, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// MovieTranslation returns the localized title and overview for a language
// code, e.g. "cs". Lookup failures yield absence, not an error, because
// localized fields are always optional.
func (c *Client) MovieTranslation(ctx context.Context, tmdbID int64, lang string) Translation {
	var resp translationsResponse
	path := fmt.Sprintf("/3/movie/%d/translations", tmdbID)
	if err := c.get(ctx, path, nil, recordCacheTTL, &resp); err != nil {
		return Translation{}
	}
	return pickTranslation(resp, lang)
}

// SeriesTranslation returns the localized name and overview for a language.
func (c *Client) SeriesTranslation(ctx context.Context, tmdbID int64, lang string) Translation {
	var resp translationsResponse
	path := fmt.Sprintf("/3/tv/%d/translations", tmdbID)
	if err := c.get(ctx, path, nil, recordCacheTTL, &resp); err != nil {
		return Translation{}
	}
	return pickTranslation(resp, lang)
}

func pickTranslation(resp translationsResponse, lang string) Translation {
	for _, t := range resp.Translations {
		if t.ISO639 != lang {
			continue
		}
		title := t.Data.Title
		if title == "" {
			title = t.Data.Name
		}
		return Translation{Title: title, Overview: t.Data.Overview}
	}
	return Translation{}
}
