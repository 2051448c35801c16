package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/kabunga/internal/models"
)

// HTTPClient implements DataSource by calling the Kabunga REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// CompletedWorkouts fetches the user's completed sessions. The server
// resolves the user from the connection, so userID is not sent.
func (c *HTTPClient) CompletedWorkouts(ctx context.Context, _ string, limit int) ([]models.WorkoutSession, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) ListChallenges(ctx context.Context, _ string) ([]models.Challenge, error) {
	body, err := c.get(ctx, "/api/v1/challenges", nil)
	if err != nil {
		return nil, err
	}

	var challenges []models.Challenge
	if err := json.Unmarshal(body, &challenges); err != nil {
		return nil, fmt.Errorf("httpclient: decode challenges: %w", err)
	}
	return challenges, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context, _ string) ([]models.WorkoutTemplate, error) {
	body, err := c.get(ctx, "/api/v1/templates", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Custom []models.WorkoutTemplate `json:"custom"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("httpclient: decode templates: %w", err)
	}
	return out.Custom, nil
}

func (c *HTTPClient) GetMaxes(ctx context.Context, _ string) (*models.OneRepMaxes, error) {
	body, err := c.get(ctx, "/api/v1/maxes", nil)
	if err != nil {
		return nil, err
	}

	var maxes models.OneRepMaxes
	if err := json.Unmarshal(body, &maxes); err != nil {
		return nil, fmt.Errorf("httpclient: decode maxes: %w", err)
	}
	return &maxes, nil
}
