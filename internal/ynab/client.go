// Package ynab is a minimal client for the YNAB REST API v1, covering the
// two reads this service needs: the budget list (for the last-modified
// timestamp) and the category snapshot. Monetary figures come back in
// milliunits and are passed through untouched; all interpretation happens
// in the core package.
package ynab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"budgetwatch/internal/core"
)

const DefaultBaseURL = "https://api.ynab.com/v1"

// Client talks to the YNAB API with a bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient returns a client for the production API. The token is the
// personal access token from the YNAB developer settings.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("missing YNAB token")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      token,
	}, nil
}

// NewClientWithBaseURL returns a client pointed at a non-default API
// endpoint.
func NewClientWithBaseURL(token, baseURL string) (*Client, error) {
	c, err := NewClient(token)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c, nil
}

type budgetDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LastModifiedOn string `json:"last_modified_on"`
}

type categoryDTO struct {
	ID        string `json:"id"`
	GroupID   string `json:"category_group_id"`
	Name      string `json:"name"`
	Hidden    bool   `json:"hidden"`
	Deleted   bool   `json:"deleted"`
	Budgeted  int64  `json:"budgeted"`
	Activity  int64  `json:"activity"`
	Balance   int64  `json:"balance"`
}

type categoryGroupDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Hidden     bool          `json:"hidden"`
	Deleted    bool          `json:"deleted"`
	Categories []categoryDTO `json:"categories"`
}

type errorDTO struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorDTO
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Detail != "" {
			return fmt.Errorf("GET %s: %s: %s", path, resp.Status, apiErr.Error.Detail)
		}
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetBudgets lists all budgets on the account.
func (c *Client) GetBudgets(ctx context.Context) ([]core.Budget, error) {
	var envelope struct {
		Data struct {
			Budgets []budgetDTO `json:"budgets"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/budgets", &envelope); err != nil {
		return nil, err
	}

	budgets := make([]core.Budget, 0, len(envelope.Data.Budgets))
	for _, b := range envelope.Data.Budgets {
		budgets = append(budgets, core.Budget{
			ID:             b.ID,
			Name:           b.Name,
			LastModifiedOn: parseTimestamp(ctx, b.LastModifiedOn),
		})
	}
	return budgets, nil
}

// GetBudgetByName returns the budget with the exact given name.
func (c *Client) GetBudgetByName(ctx context.Context, name string) (core.Budget, error) {
	budgets, err := c.GetBudgets(ctx)
	if err != nil {
		return core.Budget{}, err
	}
	for _, b := range budgets {
		if b.Name == name {
			return b, nil
		}
	}
	return core.Budget{}, fmt.Errorf("budget not found by name: %q", name)
}

// GetCategories returns the flattened category snapshot for a budget.
// Hidden and deleted groups and categories are filtered out unless
// includeHidden is set; snapshot order follows the API's group order.
func (c *Client) GetCategories(ctx context.Context, budgetID string, includeHidden bool) ([]core.Category, error) {
	var envelope struct {
		Data struct {
			CategoryGroups []categoryGroupDTO `json:"category_groups"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/budgets/"+budgetID+"/categories", &envelope); err != nil {
		return nil, err
	}

	var categories []core.Category
	for _, grp := range envelope.Data.CategoryGroups {
		if !includeHidden && (grp.Hidden || grp.Deleted) {
			continue
		}
		for _, cat := range grp.Categories {
			if !includeHidden && (cat.Hidden || cat.Deleted) {
				continue
			}
			categories = append(categories, core.Category{
				ID:        cat.ID,
				Name:      cat.Name,
				GroupID:   grp.ID,
				GroupName: grp.Name,
				Hidden:    cat.Hidden,
				Deleted:   cat.Deleted,
				Budgeted:  core.Milliunits(cat.Budgeted),
				Activity:  core.Milliunits(cat.Activity),
				Available: core.Milliunits(cat.Balance),
			})
		}
	}
	return categories, nil
}

// parseTimestamp parses the API's RFC3339 last-modified values. A missing
// or malformed value degrades to the zero time; the run decision then
// treats the budget as changed.
func parseTimestamp(ctx context.Context, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.WarnContext(ctx, "Unparseable last-modified timestamp from API", "value", s)
		return time.Time{}
	}
	return t.UTC()
}
