package screens

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lockroom/lockdash/src/models"
	"github.com/lockroom/lockdash/src/services"
)

// ViewState is the state a table view carries between requests: the current
// page and the free-text name filter.
type ViewState struct {
	Page int
	Name string
}

// ParseViewState reads the state from request values. prevName is the filter
// the table was last rendered with; a different name means the filter changed
// and the page resets to 1.
func ParseViewState(page, name, prevName string) ViewState {
	p, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || p < 1 {
		p = 1
	}
	state := ViewState{Page: p, Name: strings.TrimSpace(prevName)}
	return state.WithFilter(strings.TrimSpace(name))
}

// WithFilter applies a filter value; changing the filter resets the page to 1
func (v ViewState) WithFilter(name string) ViewState {
	if name == v.Name {
		return v
	}
	return ViewState{Page: 1, Name: name}
}

// Prev steps one page back, never below 1
func (v ViewState) Prev() ViewState {
	if v.Page <= 1 {
		return ViewState{Page: 1, Name: v.Name}
	}
	return ViewState{Page: v.Page - 1, Name: v.Name}
}

// Next steps one page forward, never beyond totalPages
func (v ViewState) Next(totalPages int) ViewState {
	if v.Page >= totalPages {
		return v
	}
	return ViewState{Page: v.Page + 1, Name: v.Name}
}

// Query builds the cache key of the page this state shows
func (v ViewState) Query(entity models.Entity, pageSize int) services.QueryKey {
	return services.QueryKey{Entity: entity, Page: v.Page, PageSize: pageSize, Name: v.Name}
}

// Pager is the state of the Previous/Next controls
type Pager struct {
	Page         int
	TotalPages   int
	PrevPage     int
	NextPage     int
	PrevDisabled bool
	NextDisabled bool
}

// NewPager computes the controls for state given the fetch status. Previous
// is disabled on page 1; Next is disabled on the last reported page and
// whenever no data has loaded.
func NewPager(state ViewState, status services.FetchStatus, totalPages int) Pager {
	shown := totalPages
	if shown < 1 {
		shown = 1
	}
	return Pager{
		Page:         state.Page,
		TotalPages:   shown,
		PrevPage:     state.Prev().Page,
		NextPage:     state.Next(totalPages).Page,
		PrevDisabled: state.Page <= 1,
		NextDisabled: status != services.FetchReady || state.Page >= totalPages,
	}
}

// RowView is one rendered table row
type RowView struct {
	ID       int64
	Cells    []string
	SeedJSON string
}

// TableView is everything the rows template needs
type TableView struct {
	Entity  string
	Base    string
	Headers []string
	ColSpan int
	Status  string
	Reason  string
	Rows    []RowView
	Empty   bool
	State   ViewState
	Pager   Pager
}

// Loading reports whether the placeholder row is shown
func (t TableView) Loading() bool {
	return t.Status == services.FetchLoading.String()
}

// Failed reports whether the error row is shown
func (t TableView) Failed() bool {
	return t.Status == services.FetchFailed.String()
}

// PageURL returns the rows URL of page under the current filter
func (t TableView) PageURL(page int) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("name", t.State.Name)
	query.Set("prev_name", t.State.Name)
	return t.Base + "/rows?" + query.Encode()
}

// RefreshURL returns the rows URL of the current page that bypasses the page
// cache; the initial load of a screen uses it.
func (t TableView) RefreshURL() string {
	return t.PageURL(t.State.Page) + "&refresh=1"
}
