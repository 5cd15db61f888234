// Package views holds the presentation-side state that is not owned by the
// server: the tab/filter/search selection for event lists and the quantity
// math used when rendering items. Everything here is pure.
package views

import (
	"strings"

	"github.com/convive/convive/internal/model"
)

// Tab is one of the event-list tabs.
type Tab string

const (
	TabDiscover  Tab = "discover"
	TabAttending Tab = "attending"
	TabHosting   Tab = "hosting"
)

// Tabs lists all tabs in display order.
var Tabs = []Tab{TabDiscover, TabAttending, TabHosting}

// ListState is the filter selection for an event list.
type ListState struct {
	Tab    Tab
	Status model.EventStatus // empty means all statuses
	Search string
}

// NewListState returns the initial selection: discover tab, no filters.
func NewListState() ListState {
	return ListState{Tab: TabDiscover}
}

// SelectTab switches tabs. Changing tab resets the status filter; the
// search text survives the switch.
func (s ListState) SelectTab(t Tab) ListState {
	if t == s.Tab {
		return s
	}
	return ListState{Tab: t, Search: s.Search}
}

// SetStatus sets the status filter. Selecting the active filter again
// clears it (toggle).
func (s ListState) SetStatus(st model.EventStatus) ListState {
	if st == s.Status {
		s.Status = ""
		return s
	}
	s.Status = st
	return s
}

// SetSearch sets the free-text search.
func (s ListState) SetSearch(q string) ListState {
	s.Search = strings.TrimSpace(q)
	return s
}

// Apply filters events by the current status and search selection. Tab
// scoping (hosting vs attending) is a server-side query; Apply only
// narrows what the server returned.
func (s ListState) Apply(events []model.Event) []model.Event {
	needle := strings.ToLower(s.Search)
	var out []model.Event
	for _, ev := range events {
		if s.Status != "" && ev.Status != s.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(ev.Title), needle) &&
			!strings.Contains(strings.ToLower(ev.Location), needle) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Query translates the selection into a repository query.
func (s ListState) Query() (tab string, status model.EventStatus, search string) {
	return string(s.Tab), s.Status, s.Search
}
