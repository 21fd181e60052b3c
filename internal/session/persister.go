package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fortuna/gridiron/internal/statlog"
)

// APIClient talks to the gridiron REST API. It implements
// statlog.Persister plus the hydrate and shortcut-config calls a
// session needs at startup.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient creates a client for a gridiron service base URL, e.g.
// "http://localhost:8080"
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateStat persists a draft and returns the canonical entry with the
// server-assigned id
func (c *APIClient) CreateStat(ctx context.Context, draft statlog.StatEntry) (statlog.StatEntry, error) {
	url := fmt.Sprintf("%s/api/v1/games/%d/stats", c.baseURL, draft.GameID)

	var canonical statlog.StatEntry
	if err := c.do(ctx, http.MethodPost, url, draft, &canonical); err != nil {
		return statlog.StatEntry{}, err
	}
	return canonical, nil
}

// UpdateStat persists field changes by persistent id
func (c *APIClient) UpdateStat(ctx context.Context, entry statlog.StatEntry) error {
	url := fmt.Sprintf("%s/api/v1/stats/%s", c.baseURL, entry.ID)
	return c.do(ctx, http.MethodPut, url, entry, nil)
}

// DeleteStat removes an entry by persistent id
func (c *APIClient) DeleteStat(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/api/v1/stats/%s", c.baseURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

// GameStats fetches a game's full entry set, newest first (hydrate)
func (c *APIClient) GameStats(ctx context.Context, gameID int) ([]statlog.StatEntry, error) {
	url := fmt.Sprintf("%s/api/v1/games/%d/stats", c.baseURL, gameID)

	var resp struct {
		Entries []statlog.StatEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Shortcuts fetches the user's single-key shortcut map
func (c *APIClient) Shortcuts(ctx context.Context, userID string) (map[string]statlog.StatType, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s/shortcuts", c.baseURL, userID)

	var resp struct {
		Keys map[string]statlog.StatType `json:"keys"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

// do issues one JSON request and decodes the response into out when
// out is non-nil
func (c *APIClient) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
