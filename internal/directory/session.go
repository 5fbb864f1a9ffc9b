package directory

import (
	"sync"
	"time"
)

// Session is the state of one interactive directory client: the loaded
// dataset, the applied query and the filtered, sorted results.
//
// Filter and sort changes recompute the results and reset the page to 1.
// LoadMore only grows the revealed window; it never recomputes results.
// Typed search input goes through a Debouncer (see TypeSearch).
//
// Session is safe for concurrent use; debounced searches apply on a timer
// goroutine.
type Session struct {
	pageSize  int
	debouncer *Debouncer

	mu      sync.Mutex
	dataset *Dataset
	query   Query
	results []Record
	pending *string
}

// NewSession creates an empty session. A pageSize below one falls back to
// DefaultPageSize.
func NewSession(pageSize int, debounce time.Duration) *Session {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Session{
		pageSize:  pageSize,
		debouncer: NewDebouncer(debounce),
		query:     DefaultQuery(),
		results:   []Record{},
	}
}

// Load replaces the dataset and resets the query to its defaults.
// Any debounced search still waiting is dropped.
func (s *Session) Load(ds *Dataset) View {
	s.debouncer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.pending = nil
	s.query = DefaultQuery()
	s.recompute()
	return s.viewLocked()
}

// Dataset returns the loaded dataset, or nil.
func (s *Session) Dataset() *Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset
}

// Query returns the applied query.
func (s *Session) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// PendingSearch returns the typed search term that has not been applied
// yet, and whether there is one.
func (s *Session) PendingSearch() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return "", false
	}
	return *s.pending, true
}

// View returns the currently revealed results.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// TypeSearch records a keystroke's search term. The search runs once input
// has been quiet for the debounce period; applied receives the resulting
// view. A later TypeSearch, SetSearch or Load cancels a pending run.
func (s *Session) TypeSearch(term string, applied func(View)) {
	s.mu.Lock()
	s.pending = &term
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		s.mu.Lock()
		if s.pending == nil {
			s.mu.Unlock()
			return
		}
		s.query.Search = *s.pending
		s.pending = nil
		s.recompute()
		v := s.viewLocked()
		s.mu.Unlock()

		if applied != nil {
			applied(v)
		}
	})
}

// SetSearch applies a search term immediately.
func (s *Session) SetSearch(term string) View {
	return s.update(func(q *Query) { q.Search = term })
}

// ClearSearch removes the search term.
func (s *Session) ClearSearch() View {
	return s.SetSearch("")
}

// SetCategory sets the exact-match category filter; "" clears it.
func (s *Session) SetCategory(v string) View {
	return s.update(func(q *Query) { q.Category = v })
}

// SetCountry sets the exact-match country filter; "" clears it.
func (s *Session) SetCountry(v string) View {
	return s.update(func(q *Query) { q.Country = v })
}

// SetCity sets the exact-match city filter; "" clears it.
func (s *Session) SetCity(v string) View {
	return s.update(func(q *Query) { q.City = v })
}

// ClearFilters clears category, country and city, keeping the search.
func (s *Session) ClearFilters() View {
	return s.update(func(q *Query) {
		q.Category, q.Country, q.City = "", "", ""
	})
}

// SetSort changes the ordering.
func (s *Session) SetSort(key SortKey) View {
	return s.update(func(q *Query) { q.Sort = key })
}

// LoadMore reveals one more page. It reports false, leaving the view
// unchanged, once every result is already revealed.
func (s *Session) LoadMore() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.query.Page*s.pageSize >= len(s.results) {
		return s.viewLocked(), false
	}
	s.query.Page++
	return s.viewLocked(), true
}

// Close stops the debouncer.
func (s *Session) Close() {
	s.debouncer.Stop()
}

// update applies fn to the query, cancels a pending typed search, and
// recomputes results from page 1.
func (s *Session) update(fn func(q *Query)) View {
	s.debouncer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.query.Search = *s.pending
		s.pending = nil
	}
	fn(&s.query)
	s.recompute()
	return s.viewLocked()
}

// recompute filters and sorts the dataset for the query and resets the
// page. Callers hold s.mu.
func (s *Session) recompute() {
	s.query.Page = 1
	if s.dataset == nil {
		s.results = []Record{}
		return
	}
	s.results = Results(s.dataset.Records, s.query)
}

func (s *Session) viewLocked() View {
	return NewView(s.results, s.query.Page, s.pageSize)
}
