// Package search finds live job postings through the Tavily search
// API and renders them for the model.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the Tavily search endpoint.
	DefaultAPIURL = "https://api.tavily.com/search"

	defaultMaxResults = 5
	contentType       = "application/json"
)

// NoResultsMessage is returned when a query matches nothing, so the
// model gets a definite answer instead of an empty string.
const NoResultsMessage = "No job postings found for this query."

// Client queries the search API.
type Client struct {
	APIURL     string
	HTTPClient *http.Client

	apiKey     string
	maxResults int
	logger     *zap.Logger
}

// New returns a search client. maxResults values below one fall back
// to the default.
func New(apiKey string, maxResults int, logger *zap.Logger) *Client {
	if maxResults < 1 {
		maxResults = defaultMaxResults
	}
	return &Client{
		APIURL:     DefaultAPIURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		maxResults: maxResults,
		logger:     logger,
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchJobs runs the query and formats the hits as a readable list.
func (c *Client) SearchJobs(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("search query must not be empty")
	}

	payload, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return "", fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("searching job postings", zap.String("query", query), zap.Int("max_results", c.maxResults))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	var response searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	c.logger.Debug("search finished", zap.String("query", query), zap.Int("results", len(response.Results)))

	return formatResults(response.Results), nil
}

func formatResults(results []searchResult) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	var builder strings.Builder
	for _, r := range results {
		fmt.Fprintf(&builder, "- Title: %s\n", r.Title)
		fmt.Fprintf(&builder, "  Link: %s\n", r.URL)
		fmt.Fprintf(&builder, "  Summary: %s\n\n", r.Content)
	}
	return strings.TrimSpace(builder.String())
}
