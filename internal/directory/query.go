package directory

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is the number of cards revealed per page.
const DefaultPageSize = 12

// SortKey selects the ordering of the filtered records.
type SortKey string

const (
	SortNone     SortKey = ""
	SortName     SortKey = "name"
	SortNameDesc SortKey = "name-desc"
	SortCategory SortKey = "category"
	SortCountry  SortKey = "country"
	SortCity     SortKey = "city"
)

// SortKeys lists the recognised keys in menu order.
var SortKeys = []SortKey{SortName, SortNameDesc, SortCategory, SortCountry, SortCity}

// ParseSortKey returns the SortKey for s, or SortNone when s is not recognised.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys {
		if k == known {
			return k
		}
	}
	return SortNone
}

// Label is the human-readable name of the key.
func (k SortKey) Label() string {
	switch k {
	case SortName:
		return "Name (A-Z)"
	case SortNameDesc:
		return "Name (Z-A)"
	case SortCategory:
		return "Category"
	case SortCountry:
		return "Country"
	case SortCity:
		return "City"
	}
	return "Sheet order"
}

// Query is the search, filter, sort and page state of a directory view.
type Query struct {
	Search   string  `json:"search"`
	Category string  `json:"category"`
	Country  string  `json:"country"`
	City     string  `json:"city"`
	Sort     SortKey `json:"sort"`
	Page     int     `json:"page"`
}

// DefaultQuery is the state a freshly loaded dataset starts in: no search,
// no filters, sorted by name, first page.
func DefaultQuery() Query {
	return Query{Sort: SortName, Page: 1}
}

// Matches reports whether r satisfies the search term and every filter.
// The search term matches case-insensitively against name, category,
// country, city and description; filters match exactly.
func (q Query) Matches(r Record) bool {
	return q.matches(r, strings.ToLower(q.Search))
}

// matches is Matches with the search term already lower-cased.
func (q Query) matches(r Record, term string) bool {
	return matchSearch(r, term) &&
		(q.Category == "" || r.Category == q.Category) &&
		(q.Country == "" || r.Country == q.Country) &&
		(q.City == "" || r.City == q.City)
}

func matchSearch(r Record, term string) bool {
	if term == "" {
		return true
	}
	for _, v := range [...]string{r.Name, r.Category, r.Country, r.City, r.Description} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// FilterKey identifies the filter and sort part of q, ignoring the page.
// Two queries with the same key produce the same ordered result.
func (q Query) FilterKey() string {
	return fmt.Sprintf("%q|%q|%q|%q|%s", strings.ToLower(q.Search), q.Category, q.Country, q.City, q.Sort)
}

// Filter returns the records matching q in their original order.
func Filter(records []Record, q Query) []Record {
	out := make([]Record, 0, len(records))
	term := strings.ToLower(q.Search)
	for _, r := range records {
		if q.matches(r, term) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy of records ordered by key. Comparison is
// case-insensitive and locale-aware; ties keep their input order.
// SortNone returns the records in their input order.
func Sort(records []Record, key SortKey) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	field, desc := sortField(key)
	if field == nil {
		return out
	}

	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := field(out[i]), field(out[j])
		if desc {
			a, b = b, a
		}
		return c.CompareString(a, b) < 0
	})
	return out
}

func sortField(key SortKey) (func(Record) string, bool) {
	switch key {
	case SortName:
		return func(r Record) string { return r.Name }, false
	case SortNameDesc:
		return func(r Record) string { return r.Name }, true
	case SortCategory:
		return func(r Record) string { return r.Category }, false
	case SortCountry:
		return func(r Record) string { return r.Country }, false
	case SortCity:
		return func(r Record) string { return r.City }, false
	}
	return nil, false
}

// newCollator returns a case-insensitive root-locale collator.
// Collators keep internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// Slice returns page (1-based) of records: [(page-1)*size, page*size).
// Pages outside the records yield an empty slice.
func Slice(records []Record, page, size int) []Record {
	if page < 1 || size < 1 {
		return []Record{}
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []Record{}
	}
	end := min(start+size, len(records))
	return records[start:end:end]
}

// Reveal returns the cumulative window [0, page*size) of records, clipped to
// the records. Each page adds to what earlier pages revealed.
func Reveal(records []Record, page, size int) []Record {
	if page < 1 || size < 1 {
		return []Record{}
	}
	end := min(page*size, len(records))
	if end == 0 {
		return []Record{}
	}
	return records[:end:end]
}

// PageCount returns the number of pages needed to reveal total records,
// never less than one.
func PageCount(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// View is the visible part of a filtered, sorted result.
type View struct {
	Items    []Record `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	HasMore  bool     `json:"has_more"`
}

// NewView reveals the first page pages of results. The page is clamped to
// [1, PageCount] so the revealed window never grows past the results.
func NewView(results []Record, page, size int) View {
	if size < 1 {
		size = DefaultPageSize
	}
	page = max(1, min(page, PageCount(len(results), size)))
	items := Reveal(results, page, size)
	return View{
		Items:    items,
		Total:    len(results),
		Page:     page,
		PageSize: size,
		HasMore:  len(items) < len(results),
	}
}

// Shown is the number of revealed items.
func (v View) Shown() int {
	return len(v.Items)
}

// Summary is the results line shown above the cards.
func (v View) Summary() string {
	switch v.Total {
	case 0:
		return "No initiatives found"
	case 1:
		return fmt.Sprintf("Showing %d of 1 initiative", v.Shown())
	}
	return fmt.Sprintf("Showing %d of %d initiatives", v.Shown(), v.Total)
}

// Results filters and sorts records for q.
func Results(records []Record, q Query) []Record {
	return Sort(Filter(records, q), q.Sort)
}

// Run evaluates q against ds and returns the revealed view.
func Run(ds *Dataset, q Query, size int) View {
	if ds == nil {
		return NewView(nil, q.Page, size)
	}
	return NewView(Results(ds.Records, q), q.Page, size)
}
