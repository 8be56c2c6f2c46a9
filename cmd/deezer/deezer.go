// Package deezer is a small client for the public Deezer search API.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.deezer.com"

// Search orders accepted by the API.
const (
	OrderRanking = "RANKING"
	OrderRating  = "RATING_DESC"
)

type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverMedium string `json:"cover_medium"`
}

// Track is one search hit. Preview is a 30 second clip URL, possibly empty.
type Track struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Rank     int    `json:"rank"`
	Preview  string `json:"preview"`
	Artist   Artist `json:"artist"`
	Album    Album  `json:"album"`
}

// APIError is the error object Deezer returns with a 200 status.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deezer %s (code %d): %s", e.Type, e.Code, e.Message)
}

type searchResponse struct {
	Data  []Track   `json:"data"`
	Total int       `json:"total"`
	Next  string    `json:"next"`
	Error *APIError `json:"error"`
}

// Client queries the Deezer API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search fetches up to pages pages of pageSize tracks for query. Paging stops
// early once the API reports no further results.
func (c *Client) Search(ctx context.Context, query string, pages, pageSize int, order string) ([]Track, error) {
	var tracks []Track
	for page := range max(pages, 1) {
		resp, err := c.searchPage(ctx, query, page*pageSize, pageSize, order)
		if err != nil {
			return nil, fmt.Errorf("search %q page %d: %w", query, page, err)
		}
		tracks = append(tracks, resp.Data...)
		if len(resp.Data) == 0 || resp.Next == "" {
			break
		}
	}
	slog.Debug("deezer search done", "query", query, "tracks", len(tracks))
	return tracks, nil
}

func (c *Client) searchPage(ctx context.Context, query string, index, limit int, order string) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("index", strconv.Itoa(index))
	params.Set("limit", strconv.Itoa(limit))
	if order != "" {
		params.Set("order", order)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &result, nil
}
