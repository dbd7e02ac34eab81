// Package client is a Go SDK for the catalog API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// Client is a Go SDK for the catalog API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sets the key sent on admin requests
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// NewClient creates a new catalog client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is an error reported by the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s - %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// PosterResolution is the poster chosen for a project
type PosterResolution struct {
	ProjectID string `json:"projectId"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Original  string `json:"original"`
}

// Search runs a catalog search
func (c *Client) Search(ctx context.Context, q models.Query) (*models.Result, error) {
	params := url.Values{}
	if q.Term != "" {
		params.Set("q", q.Term)
	}
	setFilter(params, "category", q.Category)
	setFilter(params, "kind", q.Kind)
	setFilter(params, "language", q.Language)
	setFilter(params, "genre", q.Genre)
	if q.Funding != (models.FundingRange{}) && !q.Funding.IsFull() {
		params.Set("min_funding", strconv.FormatFloat(q.Funding.Min, 'f', -1, 64))
		params.Set("max_funding", strconv.FormatFloat(q.Funding.Max, 'f', -1, 64))
	}
	if q.SortField != "" {
		params.Set("sort", string(q.SortField))
	}
	if q.SortOrder != "" {
		params.Set("order", string(q.SortOrder))
	}

	path := "/api/v1/projects"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var result models.Result
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func setFilter(params url.Values, key, value string) {
	if !models.IsWildcard(value) {
		params.Set(key, value)
	}
}

// GetProject retrieves a project by ID
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := c.call(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Poster resolves the displayable poster of a project
func (c *Client) Poster(ctx context.Context, id string) (*PosterResolution, error) {
	var res PosterResolution
	if err := c.call(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(id)+"/poster", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Facets retrieves the available filter values
func (c *Client) Facets(ctx context.Context) (*models.Facets, error) {
	var facets models.Facets
	if err := c.call(ctx, http.MethodGet, "/api/v1/facets", nil, &facets); err != nil {
		return nil, err
	}
	return &facets, nil
}

// Trending retrieves the most-funded projects
func (c *Client) Trending(ctx context.Context) ([]*models.Project, error) {
	var data struct {
		Projects []*models.Project `json:"projects"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/trending", nil, &data); err != nil {
		return nil, err
	}
	return data.Projects, nil
}

// RecentSearches retrieves recent search terms, newest first
func (c *Client) RecentSearches(ctx context.Context) ([]string, error) {
	var data struct {
		Searches []string `json:"searches"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/searches/recent", nil, &data); err != nil {
		return nil, err
	}
	return data.Searches, nil
}

// ClearRecentSearches forgets all recent search terms
func (c *Client) ClearRecentSearches(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/searches/recent", nil, nil)
}

// Reload asks the server to reload its catalog and returns the project count
func (c *Client) Reload(ctx context.Context) (int, error) {
	var data struct {
		Projects int `json:"projects"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/v1/admin/reload", nil, &data); err != nil {
		return 0, err
	}
	return data.Projects, nil
}

// UpsertProject creates or replaces a project
func (c *Client) UpsertProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var stored models.Project
	if err := c.call(ctx, http.MethodPut, "/api/v1/admin/projects/"+url.PathEscape(p.ID), bytes.NewReader(body), &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteProject removes a project
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/admin/projects/"+url.PathEscape(id), nil, nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call performs a request and decodes the response envelope into out
func (c *Client) call(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Code: "http_error", Message: string(respBody)}
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !envelope.Success || resp.StatusCode >= 400 {
		apiErr := envelope.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "unknown_error", Message: http.StatusText(resp.StatusCode)}
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
