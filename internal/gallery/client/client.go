// Package client is a typed HTTP client for the gallery API. It is the
// transport used by the session controller, and works against any server
// exposing the /api/projects surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AmlrSF/portfolio-client/internal/gallery/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListQuery mirrors the listing endpoint's query parameters. Zero values
// fall back to the server defaults.
type ListQuery struct {
	Status    string
	Category  string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListResult struct {
	Projects   []domain.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

// ListProjects fetches one page of the gallery listing.
func (c *Client) ListProjects(ctx context.Context, q ListQuery) (*ListResult, error) {
	vals := url.Values{}
	if q.Status != "" {
		vals.Set("status", q.Status)
	}
	if q.Category != "" {
		vals.Set("category", q.Category)
	}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		vals.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		vals.Set("sortOrder", q.SortOrder)
	}

	u := fmt.Sprintf("%s/api/projects", c.baseURL)
	if enc := vals.Encode(); enc != "" {
		u += "?" + enc
	}

	var result ListResult
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	u := fmt.Sprintf("%s/api/projects/%s", c.baseURL, url.PathEscape(id))

	var result struct {
		Project domain.Project `json:"project"`
	}
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, err
	}
	return &result.Project, nil
}

// CreateProject creates a new project and returns the stored record.
func (c *Client) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	u := fmt.Sprintf("%s/api/projects", c.baseURL)

	var result struct {
		Project domain.Project `json:"project"`
	}
	if err := c.doJSON(ctx, http.MethodPost, u, p, &result); err != nil {
		return nil, err
	}
	return &result.Project, nil
}

// RecordView records one view and returns the new view count.
func (c *Client) RecordView(ctx context.Context, id string) (int64, error) {
	u := fmt.Sprintf("%s/api/projects/%s/view", c.baseURL, url.PathEscape(id))

	var result struct {
		Views int64 `json:"views"`
	}
	if err := c.doJSON(ctx, http.MethodPost, u, struct{}{}, &result); err != nil {
		return 0, err
	}
	return result.Views, nil
}

// SetLike applies a like or unlike and returns the new like count.
func (c *Client) SetLike(ctx context.Context, id string, liked bool) (int64, error) {
	u := fmt.Sprintf("%s/api/projects/%s/like", c.baseURL, url.PathEscape(id))

	body := struct {
		Liked bool `json:"liked"`
	}{Liked: liked}

	var result struct {
		Likes int64 `json:"likes"`
	}
	if err := c.doJSON(ctx, http.MethodPost, u, body, &result); err != nil {
		return 0, err
	}
	return result.Likes, nil
}

func (c *Client) doJSON(ctx context.Context, method, u string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gallery api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProjectNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gallery api returned status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
