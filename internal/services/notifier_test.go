package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"budgetwatch/internal/core"
	"budgetwatch/internal/notify"
)

type fakeSource struct {
	budget     core.Budget
	categories []core.Category
	budgetErr  error
}

func (f *fakeSource) GetBudgetByName(_ context.Context, name string) (core.Budget, error) {
	if f.budgetErr != nil {
		return core.Budget{}, f.budgetErr
	}
	return f.budget, nil
}

func (f *fakeSource) GetCategories(_ context.Context, _ string, _ bool) ([]core.Category, error) {
	return f.categories, nil
}

type fakeState struct {
	lastModified time.Time
	seen         bool
	marked       []string
	markErr      error
}

func (f *fakeState) LastModified(_ context.Context, _ string) (time.Time, bool, error) {
	return f.lastModified, f.seen, nil
}

func (f *fakeState) MarkNotified(_ context.Context, budgetID, subject string, _, _ time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, subject)
	return nil
}

type fakeSender struct {
	sent    []notify.Notification
	sendErr error
}

func (f *fakeSender) Send(_ context.Context, n notify.Notification) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, n)
	return nil
}

func testBudget(modified time.Time) core.Budget {
	return core.Budget{ID: "b-1", Name: "Household", LastModifiedOn: modified}
}

func testCategories() []core.Category {
	return []core.Category{
		{ID: "c-1", Name: "Groceries", GroupID: "g-1", GroupName: "Essentials",
			Budgeted: 400000, Activity: -150000, Available: 250000},
		{ID: "c-2", Name: "Rent", GroupID: "g-1", GroupName: "Essentials",
			Budgeted: 1200000, Activity: -1200000, Available: 0},
	}
}

func wildcardWatchlist(group string) core.Watchlist {
	return core.Watchlist{{Group: group, Items: []core.SelectorItem{{Kind: core.SelectorWildcard, Monitor: true}}}}
}

func newTestNotifier(src *fakeSource, state *fakeState, sender *fakeSender, cfg NotifierConfig) *Notifier {
	if cfg.BudgetName == "" {
		cfg.BudgetName = "Household"
	}
	if cfg.Watchlist == nil {
		cfg.Watchlist = wildcardWatchlist("Essentials")
	}
	if cfg.Breakdown.SoftWarnThreshold.IsZero() {
		cfg.Breakdown = core.DefaultBreakdownOptions()
	}
	return NewNotifier(src, state, sender, cfg)
}

func TestRunOnceFirstRunSends(t *testing.T) {
	modified := time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{budget: testBudget(modified), categories: testCategories()}
	state := &fakeState{}
	sender := &fakeSender{}

	n := newTestNotifier(src, state, sender, NotifierConfig{})
	now := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)

	sent, err := n.RunOnce(context.Background(), now)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if !sent {
		t.Fatal("first run should send a notification")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.BudgetID != "b-1" {
		t.Errorf("budget id = %q", got.BudgetID)
	}
	if got.Subject != "Budget Status · 2024-04-15" {
		t.Errorf("subject = %q", got.Subject)
	}
	if !strings.Contains(got.Text, "Groceries") || !strings.Contains(got.Text, "Rent") {
		t.Errorf("text missing categories:\n%s", got.Text)
	}
	if len(state.marked) != 1 {
		t.Errorf("run state not recorded: %v", state.marked)
	}
}

func TestRunOnceUnchangedSkips(t *testing.T) {
	modified := time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{budget: testBudget(modified), categories: testCategories()}
	state := &fakeState{lastModified: modified, seen: true}
	sender := &fakeSender{}

	n := newTestNotifier(src, state, sender, NotifierConfig{})

	sent, err := n.RunOnce(context.Background(), modified.Add(time.Hour))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent {
		t.Error("unchanged budget should be skipped")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d notifications, want 0", len(sender.sent))
	}
}

func TestRunOnceChangedBudgetSends(t *testing.T) {
	seen := time.Date(2024, 4, 14, 8, 0, 0, 0, time.UTC)
	modified := seen.Add(24 * time.Hour)
	src := &fakeSource{budget: testBudget(modified), categories: testCategories()}
	state := &fakeState{lastModified: seen, seen: true}
	sender := &fakeSender{}

	n := newTestNotifier(src, state, sender, NotifierConfig{})

	sent, err := n.RunOnce(context.Background(), modified.Add(time.Hour))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if !sent {
		t.Error("changed budget should trigger a notification")
	}
}

func TestRunOnceForceSendsWhenUnchanged(t *testing.T) {
	modified := time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{budget: testBudget(modified), categories: testCategories()}
	state := &fakeState{lastModified: modified, seen: true}
	sender := &fakeSender{}

	n := newTestNotifier(src, state, sender, NotifierConfig{Force: true})

	sent, err := n.RunOnce(context.Background(), modified.Add(time.Hour))
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if !sent {
		t.Error("force should send even when unchanged")
	}
}

func TestRunOnceEmptySelectionSkips(t *testing.T) {
	modified := time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{budget: testBudget(modified), categories: testCategories()}
	state := &fakeState{}
	sender := &fakeSender{}

	n := newTestNotifier(src, state, sender, NotifierConfig{
		Watchlist: wildcardWatchlist("No Such Group"),
	})

	sent, err := n.RunOnce(context.Background(), modified)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent {
		t.Error("empty selection should not send")
	}
	if len(state.marked) != 0 {
		t.Error("skipped run should not record state")
	}
}

func TestRunOnceSenderErrorPropagates(t *testing.T) {
	modified := time.Date(2024, 4, 15, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{budget: testBudget(modified), categories: testCategories()}
	state := &fakeState{}
	sender := &fakeSender{sendErr: errors.New("smtp down")}

	n := newTestNotifier(src, state, sender, NotifierConfig{})

	sent, err := n.RunOnce(context.Background(), modified)
	if err == nil {
		t.Fatal("expected send error")
	}
	if sent {
		t.Error("failed send should report not sent")
	}
	if len(state.marked) != 0 {
		t.Error("failed send must not record state")
	}
}

func TestRunOnceBudgetLookupError(t *testing.T) {
	src := &fakeSource{budgetErr: errors.New("budget not found")}
	n := newTestNotifier(src, &fakeState{}, &fakeSender{}, NotifierConfig{})

	if _, err := n.RunOnce(context.Background(), time.Now()); err == nil {
		t.Fatal("expected lookup error")
	}
}
