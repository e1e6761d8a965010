// Package report renders a category breakdown into the text and HTML
// bodies of a notification. It is presentation only: every status, icon
// and amount arrives pre-computed on the rows and is formatted here, never
// re-derived.
package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"budgetwatch/internal/core"
)

// rowView is a fully formatted row ready for templating.
type rowView struct {
	Name     string
	Status   string
	Icon     string
	Budgeted string
	Activity string

	Available string
	// Weekly is empty when the weekly figure is suppressed (final week of
	// the month, negative balance, or an unmonitored row).
	Weekly string
	// Pace is empty for unmonitored rows and no-target pacing.
	Pace    string
	Monitor bool
}

type groupView struct {
	Name string
	Rows []rowView
}

type reportView struct {
	DateStr   string
	DaysLeft  int
	WeeksLeft string
	Groups    []groupView
	RedCount  int
}

// Render produces the text and HTML bodies for one breakdown. today is the
// localized date the breakdown was computed for.
func Render(b core.Breakdown, today time.Time) (text string, html string, err error) {
	view := buildView(b, today)

	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, view); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, view); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}

	return textBuf.String(), htmlBuf.String(), nil
}

// Subject returns the notification subject line for a run date.
func Subject(today time.Time) string {
	return "Budget Status · " + today.Format("2006-01-02")
}

func buildView(b core.Breakdown, today time.Time) reportView {
	view := reportView{
		DateStr:   today.Format("2006-01-02"),
		DaysLeft:  b.DaysRemaining,
		WeeksLeft: b.WeeksRemaining.StringFixed(2),
	}

	// Group rows by category group, preserving input order.
	index := make(map[string]int)
	for _, r := range b.Rows {
		if r.Status == core.StatusRed {
			view.RedCount++
		}

		rv := rowView{
			Name:      r.Name,
			Status:    string(r.Status),
			Icon:      r.StatusIcon,
			Available: r.Available.StringFixed(2),
			Monitor:   r.Monitor,
		}
		if r.Monitor {
			rv.Budgeted = r.Budgeted.StringFixed(2)
			rv.Activity = r.Activity.StringFixed(2)
			if b.DaysRemaining >= 7 && !r.Available.IsNegative() {
				rv.Weekly = r.Weekly.StringFixed(2)
			}
			if r.Pacing.Status != core.PacingNoTarget {
				rv.Pace = fmt.Sprintf("%s %s (target %s, Δ %s)",
					r.PacingIcon, r.Pacing.Status,
					r.Pacing.Target.StringFixed(2), r.Pacing.Delta.StringFixed(2))
			}
		}

		i, ok := index[r.Group]
		if !ok {
			i = len(view.Groups)
			index[r.Group] = i
			view.Groups = append(view.Groups, groupView{Name: r.Group})
		}
		view.Groups[i].Rows = append(view.Groups[i].Rows, rv)
	}

	return view
}

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`Budget Status · {{.DateStr}}
Days left: {{.DaysLeft}} | Weeks left: {{.WeeksLeft}}
Rationale: for each category, Weekly = Remaining ÷ weeks remaining (floored to cents).

{{range .Groups -}}
== {{.Name}} ==
{{range .Rows -}}
{{if .Monitor -}}
- {{.Icon}} {{.Name}} — Budgeted ${{.Budgeted}} | Spent ${{.Activity}} | Remaining ${{.Available}}{{if .Weekly}} | Weekly ${{.Weekly}}{{end}}{{if .Pace}} | Pace {{.Pace}}{{end}} [{{.Status}}]
{{else -}}
- {{.Icon}} {{.Name}} — Remaining ${{.Available}} [{{.Status}}]
{{end -}}
{{end}}
{{end -}}
{{if gt .RedCount 0}}Heads up: {{.RedCount}} category(-ies) below $0. Address these first.
{{end}}`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Budget Status · {{.DateStr}}</title>
    <style>
      body { font-family: -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Helvetica, Arial, sans-serif; line-height: 1.45; }
      .wrap { max-width: 960px; margin: 0 auto; padding: 16px; }
      .header { padding: 12px 16px; border-radius: 12px; background: #f5f7ff; margin-bottom: 16px; }
      .kpi { font-size: 16px; margin: 4px 0; }
      table { width: 100%; border-collapse: collapse; }
      th, td { padding: 8px 10px; border-bottom: 1px solid #eee; font-variant-numeric: tabular-nums; }
      th { text-align: left; font-size: 13px; color: #666; }
      .amt { text-align: right; }
      .red { color: #b00020; font-weight: 600; }
      .amber { color: #a36b00; font-weight: 600; }
      .green { color: #006400; font-weight: 600; }
      .tag { font-size: 12px; padding: 2px 8px; border-radius: 999px; border: 1px solid #ddd; }
      .tag.red { border-color: #b00020; }
      .tag.amber { border-color: #a36b00; }
      .tag.green { border-color: #006400; }
      .foot { color: #666; font-size: 12px; margin-top: 12px; }
      .group-row th { font-size: 16px; color: #2b59c3; font-weight: 700; }
      .group-row { background: #fafbff; }
      .group-spacer { height: 6px; }
      .pace { font-size: 12px; color: #666; }
    </style>
  </head>
  <body>
    <div class="wrap">
      <div class="header">
        <div class="kpi"><strong>Days left:</strong> {{.DaysLeft}} · <strong>Weeks left:</strong> {{.WeeksLeft}}</div>
        <div class="kpi"><em>Rationale:</em> for each category, Weekly = Remaining ÷ weeks remaining (floored to cents).</div>
      </div>

      <table>
        <thead>
          <tr>
            <th>Category</th>
            <th>Status</th>
            <th class="amt">Budgeted</th>
            <th class="amt">Spent</th>
            <th class="amt">Remaining</th>
            <th class="amt">Weekly</th>
            <th>Pace</th>
          </tr>
        </thead>
        <tbody>
          {{range .Groups}}
          <tr class="group-row">
            <th colspan="7">{{.Name}}</th>
          </tr>
          {{range .Rows}}
          <tr>
            <td><strong>{{.Name}}</strong></td>
            <td><span class="tag {{.Status}}">{{.Icon}} {{.Status}}</span></td>
            <td class="amt">{{if .Budgeted}}${{.Budgeted}}{{end}}</td>
            <td class="amt">{{if .Activity}}${{.Activity}}{{end}}</td>
            <td class="amt {{.Status}}">${{.Available}}</td>
            <td class="amt">{{if .Weekly}}${{.Weekly}}{{end}}</td>
            <td class="pace">{{.Pace}}</td>
          </tr>
          {{end}}
          <tr class="group-spacer"><td colspan="7"></td></tr>
          {{end}}
        </tbody>
      </table>

      {{if gt .RedCount 0}}
        <p class="foot">Heads up: you have {{.RedCount}} category(-ies) below $0. Address these first.</p>
      {{end}}
    </div>
  </body>
</html>`))
