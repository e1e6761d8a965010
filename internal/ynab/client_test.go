package ynab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const budgetsResponse = `{
	"data": {
		"budgets": [
			{"id": "b-1", "name": "Family", "last_modified_on": "2024-04-10T08:30:00+00:00"},
			{"id": "b-2", "name": "Side Project", "last_modified_on": "2024-04-01T00:00:00Z"}
		]
	}
}`

const categoriesResponse = `{
	"data": {
		"category_groups": [
			{
				"id": "g-1", "name": "Household", "hidden": false, "deleted": false,
				"categories": [
					{"id": "c-1", "category_group_id": "g-1", "name": "Rent", "hidden": false, "deleted": false, "budgeted": 1200000, "activity": -1200000, "balance": 0},
					{"id": "c-2", "category_group_id": "g-1", "name": "Food", "hidden": true, "deleted": false, "budgeted": 400000, "activity": -100000, "balance": 300000}
				]
			},
			{
				"id": "g-2", "name": "Old Stuff", "hidden": true, "deleted": false,
				"categories": [
					{"id": "c-3", "category_group_id": "g-2", "name": "Legacy", "hidden": false, "deleted": false, "budgeted": 0, "activity": 0, "balance": 0}
				]
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClientWithBaseURL("test-token", srv.URL)
	if err != nil {
		t.Fatalf("NewClientWithBaseURL() error = %v", err)
	}
	c.httpClient = srv.Client()
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("NewClient(\"\") should fail")
	}
}

func TestGetBudgets(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/budgets" {
			t.Errorf("path = %s, want /budgets", r.URL.Path)
		}
		w.Write([]byte(budgetsResponse))
	})

	budgets, err := c.GetBudgets(context.Background())
	if err != nil {
		t.Fatalf("GetBudgets() error = %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(budgets) != 2 {
		t.Fatalf("got %d budgets, want 2", len(budgets))
	}
	want := time.Date(2024, 4, 10, 8, 30, 0, 0, time.UTC)
	if !budgets[0].LastModifiedOn.Equal(want) {
		t.Errorf("last modified = %v, want %v", budgets[0].LastModifiedOn, want)
	}
}

func TestGetBudgetByName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(budgetsResponse))
	})

	b, err := c.GetBudgetByName(context.Background(), "Side Project")
	if err != nil {
		t.Fatalf("GetBudgetByName() error = %v", err)
	}
	if b.ID != "b-2" {
		t.Errorf("id = %s, want b-2", b.ID)
	}

	if _, err := c.GetBudgetByName(context.Background(), "Nope"); err == nil {
		t.Error("GetBudgetByName() with unknown name should fail")
	}
}

func TestGetCategoriesFiltersHidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/budgets/b-1/categories" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(categoriesResponse))
	})

	cats, err := c.GetCategories(context.Background(), "b-1", false)
	if err != nil {
		t.Fatalf("GetCategories() error = %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("got %d categories, want 1 (hidden category and hidden group filtered)", len(cats))
	}
	rent := cats[0]
	if rent.ID != "c-1" || rent.GroupName != "Household" {
		t.Errorf("category = %+v", rent)
	}
	if rent.Budgeted != 1200000 || rent.Activity != -1200000 || rent.Available != 0 {
		t.Errorf("milliunits passed through wrong: %+v", rent)
	}
}

func TestGetCategoriesIncludeHidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(categoriesResponse))
	})

	cats, err := c.GetCategories(context.Background(), "b-1", true)
	if err != nil {
		t.Fatalf("GetCategories() error = %v", err)
	}
	if len(cats) != 3 {
		t.Errorf("got %d categories, want all 3", len(cats))
	}
}

func TestGetSurfacesAPIErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"id": "401", "name": "unauthorized", "detail": "Unauthorized"}}`))
	})

	_, err := c.GetBudgets(context.Background())
	if err == nil {
		t.Fatal("GetBudgets() should fail on 401")
	}
}
