package core

import (
	"log/slog"
)

// SelectionResult is the outcome of one watchlist pass: the selected
// categories in first-insertion order, plus a monitor flag per selected
// category id. A category matched by several watchlist entries appears
// once, keeping its first position, while its monitor flag takes the last
// value seen in watchlist order (last write wins). Every id in Monitor is
// also in Categories.
type SelectionResult struct {
	Categories []Category
	Monitor    map[string]bool
}

// Select runs the watchlist against the full category set in a single
// pass. Entries naming a group or category absent from the snapshot are
// skipped with a warning; that signals a stale or misspelled watchlist,
// not a defect. An empty watchlist selects nothing and warns about
// nothing.
func Select(all []Category, watchlist Watchlist) SelectionResult {
	result := SelectionResult{Monitor: make(map[string]bool)}
	if len(watchlist) == 0 {
		return result
	}

	// Stable bucketing by group name, preserving snapshot order.
	groups := make(map[string][]Category)
	for _, c := range all {
		groups[c.GroupName] = append(groups[c.GroupName], c)
	}

	seen := make(map[string]bool)
	add := func(c Category, monitor bool) {
		if !seen[c.ID] {
			seen[c.ID] = true
			result.Categories = append(result.Categories, c)
		}
		result.Monitor[c.ID] = monitor
	}

	for _, entry := range watchlist {
		groupCats, ok := groups[entry.Group]
		if !ok {
			slog.Warn("No matching category group", "group", entry.Group)
			continue
		}

		// An empty list or a single wildcard selects the whole group.
		if len(entry.Items) == 0 || (len(entry.Items) == 1 && entry.Items[0].Wildcard()) {
			monitor := true
			if len(entry.Items) == 1 {
				monitor = entry.Items[0].Monitor
			}
			for _, c := range groupCats {
				add(c, monitor)
			}
			continue
		}

		for _, item := range entry.Items {
			switch item.Kind {
			case SelectorWildcard:
				for _, c := range groupCats {
					add(c, item.Monitor)
				}
			case SelectorName, SelectorNameWithMonitor:
				matched := false
				for _, c := range groupCats {
					if c.Name == item.Name {
						add(c, item.Monitor)
						matched = true
					}
				}
				if !matched {
					slog.Warn("No matching category in group",
						"group", entry.Group,
						"category", item.Name)
				}
			default:
				slog.Warn("Skipping malformed watchlist item", "group", entry.Group)
			}
		}
	}

	return result
}

// SelectCategories returns the deduplicated categories the watchlist
// selects, in first-insertion order.
func SelectCategories(all []Category, watchlist Watchlist) []Category {
	return Select(all, watchlist).Categories
}

// BuildMonitorMap returns the monitor flag per selected category id.
// Wildcard and bare-name items imply monitor = true; explicit flags win,
// and for categories matched more than once the last watchlist entry wins.
func BuildMonitorMap(all []Category, watchlist Watchlist) map[string]bool {
	return Select(all, watchlist).Monitor
}
