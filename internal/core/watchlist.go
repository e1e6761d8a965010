package core

import (
	"encoding/json"
)

// WildcardName selects every category in a group.
const WildcardName = "*"

// SelectorKind discriminates the forms a watchlist item can take.
type SelectorKind int

const (
	// SelectorInvalid marks an item that failed to decode. It matches
	// nothing; a misconfigured watchlist degrades, it does not crash.
	SelectorInvalid SelectorKind = iota
	// SelectorName matches categories by exact name, monitor implied true.
	SelectorName
	// SelectorNameWithMonitor matches by exact name and carries an
	// explicit monitor flag.
	SelectorNameWithMonitor
	// SelectorWildcard matches every category in the group.
	SelectorWildcard
)

// SelectorItem is one entry in a watchlist group: a bare category name, a
// wildcard, or a name with an explicit monitor flag. The JSON forms are
// "Name", "*", and {"name": "Name", "monitor": false}. The variant is
// resolved once here at the boundary so the selector never branches on
// raw shapes.
type SelectorItem struct {
	Kind    SelectorKind
	Name    string
	Monitor bool
}

// GroupEntry is the watchlist entry for one category group. An empty item
// list selects the whole group.
type GroupEntry struct {
	Group string         `json:"group"`
	Items []SelectorItem `json:"categories"`
}

// Watchlist is the user-authored selection of categories to monitor. It is
// an ordered list rather than a map: entry order determines warning order
// and, for categories matched more than once, which monitor flag wins
// (the last entry seen).
type Watchlist []GroupEntry

// Wildcard reports whether the item selects the whole group.
func (it SelectorItem) Wildcard() bool {
	return it.Kind == SelectorWildcard
}

// UnmarshalJSON resolves the duck-typed watchlist item forms into the
// tagged variant. Unknown shapes decode to SelectorInvalid rather than
// returning an error.
func (it *SelectorItem) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == WildcardName {
			*it = SelectorItem{Kind: SelectorWildcard, Monitor: true}
		} else {
			*it = SelectorItem{Kind: SelectorName, Name: name, Monitor: true}
		}
		return nil
	}

	var obj struct {
		Name    string `json:"name"`
		Monitor *bool  `json:"monitor"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Name != "" {
		monitor := true
		if obj.Monitor != nil {
			monitor = *obj.Monitor
		}
		if obj.Name == WildcardName {
			*it = SelectorItem{Kind: SelectorWildcard, Monitor: monitor}
			return nil
		}
		*it = SelectorItem{Kind: SelectorNameWithMonitor, Name: obj.Name, Monitor: monitor}
		return nil
	}

	*it = SelectorItem{Kind: SelectorInvalid}
	return nil
}

// ParseWatchlist decodes a watchlist document. The expected form is an
// ordered array:
//
//	[
//	  {"group": "Household", "categories": ["Rent", "*"]},
//	  {"group": "Fun", "categories": [{"name": "Games", "monitor": false}]}
//	]
func ParseWatchlist(data []byte) (Watchlist, error) {
	var wl Watchlist
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, err
	}
	return wl, nil
}
