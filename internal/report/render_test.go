package report

import (
	"strings"
	"testing"
	"time"

	"budgetwatch/internal/core"

	"github.com/shopspring/decimal"
)

func sampleBreakdown(t *testing.T) core.Breakdown {
	t.Helper()
	today := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	selected := []core.Category{
		{ID: "1", Name: "Rent", GroupName: "Household", Budgeted: 1200000, Activity: -1200000, Available: 300000},
		{ID: "2", Name: "Food", GroupName: "Household", Budgeted: 400000, Activity: -100000, Available: 300000},
		{ID: "3", Name: "Games", GroupName: "Fun", Budgeted: 50000, Activity: -75000, Available: -25000},
	}
	monitor := map[string]bool{"1": true, "2": false, "3": true}
	return core.BuildBreakdown(selected, monitor, today, core.DefaultBreakdownOptions())
}

func TestRenderText(t *testing.T) {
	b := sampleBreakdown(t)
	text, _, err := Render(b, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"Budget Status · 2024-04-15",
		"Days left: 16",
		"Weeks left: 2.29",
		"== Household ==",
		"== Fun ==",
		"Rent",
		"Weekly $131.25",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text body missing %q:\n%s", want, text)
		}
	}

	// Games is below zero: red footer, and no weekly figure for it.
	if !strings.Contains(text, "1 category(-ies) below $0") {
		t.Errorf("text body missing red footer:\n%s", text)
	}
	if strings.Contains(text, "Games — Budgeted $50.00 | Spent $-75.00 | Remaining $-25.00 | Weekly") {
		t.Errorf("negative balance row must not show a weekly figure:\n%s", text)
	}
}

func TestRenderBalanceOnlyForUnmonitoredRows(t *testing.T) {
	b := sampleBreakdown(t)
	text, html, err := Render(b, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Food has monitor=false: remaining balance only, no budgeted figure.
	if !strings.Contains(text, "Food — Remaining $300.00") {
		t.Errorf("unmonitored row should be balance-only:\n%s", text)
	}
	if strings.Contains(text, "Food — Budgeted") {
		t.Errorf("unmonitored row leaked budget detail:\n%s", text)
	}
	if strings.Contains(html, ">$400.00<") {
		t.Errorf("unmonitored row leaked budget detail into HTML:\n%s", html)
	}
}

func TestRenderHTML(t *testing.T) {
	b := sampleBreakdown(t)
	_, html, err := Render(b, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"<title>Budget Status · 2024-04-15</title>",
		"<th colspan=\"7\">Household</th>",
		"<th colspan=\"7\">Fun</th>",
		"$131.25",
		"below $0",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}

func TestRenderPaceColumn(t *testing.T) {
	b := sampleBreakdown(t)
	text, _, err := Render(b, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Rent spent 1200 against a 600 target: behind pace.
	if !strings.Contains(text, "behind") {
		t.Errorf("pace verdict missing from text body:\n%s", text)
	}
	if !strings.Contains(text, "target 600.00") {
		t.Errorf("pace target missing from text body:\n%s", text)
	}
}

func TestRenderEmptyBreakdown(t *testing.T) {
	b := core.Breakdown{DaysRemaining: 5, WeeksRemaining: decimal.RequireFromString("0.7143")}
	text, html, err := Render(b, time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(text, "==") {
		t.Errorf("empty breakdown should render no groups:\n%s", text)
	}
	if !strings.Contains(html, "Days left:") {
		t.Error("html header missing")
	}
}

func TestSubject(t *testing.T) {
	got := Subject(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	if got != "Budget Status · 2024-04-15" {
		t.Errorf("Subject() = %q", got)
	}
}
