package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/ysam020/assessment/pkg/errors"
	"github.com/ysam020/assessment/pkg/httpclient"
	"github.com/ysam020/assessment/services/recommendation/internal/domain"
)

// CircuitOpenFallback replaces the raw circuit-open error with a structured
// error carrying a retry hint. The service layer treats it like any other
// catalog failure and serves the static fallback table.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("catalog service is temporarily unavailable, please retry after 30 seconds")
}

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client queries the catalog service's search API.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a catalog search client against the given base URL.
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// searchEnvelope mirrors the catalog service's search response body.
type searchEnvelope struct {
	Data struct {
		Courses    []domain.Course `json:"courses"`
		TotalCount int             `json:"total_count"`
	} `json:"data"`
}

// Search runs a catalog full-text search for the given topic, optionally
// restricted to a skill level.
func (c *Client) Search(ctx context.Context, topic, skillLevel string, limit int) ([]domain.Course, error) {
	q := url.Values{}
	q.Set("query", topic)
	if skillLevel != "" {
		q.Set("skill_level", skillLevel)
	}
	q.Set("limit", strconv.Itoa(limit))

	searchURL := c.baseURL + "/api/v1/courses/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.logger.DebugContext(ctx, "catalog search completed",
		slog.String("topic", topic),
		slog.Int("results", len(envelope.Data.Courses)),
	)

	return envelope.Data.Courses, nil
}
