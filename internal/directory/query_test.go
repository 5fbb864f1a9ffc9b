package directory

import (
	"fmt"
	"testing"
)

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func equalNames(got []Record, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i, r := range got {
		if r.Name != want[i] {
			return false
		}
	}
	return true
}

var sample = []Record{
	{Name: "Health Hub", Category: "Health", Country: "Kenya", City: "Nairobi"},
	{Name: "Food Bank", Category: "Food", Country: "Chile", City: "Santiago", Description: "Community health meals"},
	{Name: "Tool Library", Category: "Tools", Country: "Kenya", City: "Mombasa"},
	{Name: "Seed Swap", Category: "Food", Country: "Peru", City: "Lima"},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "empty query keeps all in order",
			query: Query{},
			want:  []string{"Health Hub", "Food Bank", "Tool Library", "Seed Swap"},
		},
		{
			name:  "search matches name and description",
			query: Query{Search: "health"},
			want:  []string{"Health Hub", "Food Bank"},
		},
		{
			name:  "search is case-insensitive",
			query: Query{Search: "HEALTH"},
			want:  []string{"Health Hub", "Food Bank"},
		},
		{
			name:  "search matches city",
			query: Query{Search: "lima"},
			want:  []string{"Seed Swap"},
		},
		{
			name:  "category exact match",
			query: Query{Category: "Food"},
			want:  []string{"Food Bank", "Seed Swap"},
		},
		{
			name:  "category is not a substring match",
			query: Query{Category: "Foo"},
			want:  []string{},
		},
		{
			name:  "filters combine",
			query: Query{Search: "o", Country: "Kenya", City: "Mombasa"},
			want:  []string{"Tool Library"},
		},
		{
			name:  "no match",
			query: Query{Search: "zzz"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sample, tt.query)
			if !equalNames(got, tt.want...) {
				t.Errorf("Filter = %q, want %q", names(got), tt.want)
			}
		})
	}
}

func TestSort(t *testing.T) {
	records := []Record{
		{Name: "Beta", Category: "b", Country: "Peru", City: "Lima"},
		{Name: "alpha", Category: "a", Country: "chile", City: "Arica"},
		{Name: "Gamma", Category: "a", Country: "Brazil", City: "Rio"},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortName, []string{"alpha", "Beta", "Gamma"}},
		{SortNameDesc, []string{"Gamma", "Beta", "alpha"}},
		{SortCategory, []string{"alpha", "Gamma", "Beta"}},
		{SortCountry, []string{"Gamma", "alpha", "Beta"}},
		{SortCity, []string{"alpha", "Beta", "Gamma"}},
		{SortNone, []string{"Beta", "alpha", "Gamma"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := Sort(records, tt.key)
			if !equalNames(got, tt.want...) {
				t.Errorf("Sort(%q) = %q, want %q", tt.key, names(got), tt.want)
			}
		})
	}

	if records[0].Name != "Beta" {
		t.Error("Sort modified its input")
	}
}

func TestSort_StableForTies(t *testing.T) {
	records := []Record{
		{Name: "One", Country: "Kenya"},
		{Name: "Two", Country: "kenya"},
		{Name: "Three", Country: "Kenya"},
	}
	got := Sort(records, SortCountry)
	if !equalNames(got, "One", "Two", "Three") {
		t.Errorf("Sort = %q, want input order for ties", names(got))
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"name", SortName},
		{" Name-Desc ", SortNameDesc},
		{"city", SortCity},
		{"", SortNone},
		{"rating", SortNone},
	}
	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func numbered(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{Name: fmt.Sprintf("Item %02d", i+1)}
	}
	return out
}

func TestSlice(t *testing.T) {
	records := numbered(30)

	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst string
	}{
		{"first page", 1, 12, "Item 01"},
		{"second page", 2, 12, "Item 13"},
		{"last partial page", 3, 6, "Item 25"},
		{"past the end", 4, 0, ""},
		{"page zero", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slice(records, tt.page, 12)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got == nil {
				t.Error("Slice returned nil, want empty slice")
			}
			if tt.wantLen > 0 && got[0].Name != tt.wantFirst {
				t.Errorf("first = %q, want %q", got[0].Name, tt.wantFirst)
			}
		})
	}
}

func TestReveal(t *testing.T) {
	records := numbered(30)

	for page, want := range map[int]int{1: 12, 2: 24, 3: 30, 4: 30} {
		if got := len(Reveal(records, page, 12)); got != want {
			t.Errorf("Reveal(page %d) len = %d, want %d", page, got, want)
		}
	}
	if got := Reveal(nil, 1, 12); got == nil || len(got) != 0 {
		t.Errorf("Reveal(nil) = %v, want empty slice", got)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 12, 1},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{30, 12, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestNewView(t *testing.T) {
	records := numbered(30)

	v := NewView(records, 1, 12)
	if v.Shown() != 12 || v.Total != 30 || !v.HasMore {
		t.Errorf("page 1: shown=%d total=%d hasMore=%v", v.Shown(), v.Total, v.HasMore)
	}

	v = NewView(records, 3, 12)
	if v.Shown() != 30 || v.HasMore {
		t.Errorf("page 3: shown=%d hasMore=%v", v.Shown(), v.HasMore)
	}

	v = NewView(records, 9, 12)
	if v.Page != 3 {
		t.Errorf("page clamped to %d, want 3", v.Page)
	}

	v = NewView(nil, 1, 12)
	if v.Items == nil || v.Total != 0 || v.HasMore {
		t.Errorf("empty view = %+v", v)
	}
}

func TestView_Summary(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		page    int
		want    string
	}{
		{"none", nil, 1, "No initiatives found"},
		{"one", numbered(1), 1, "Showing 1 of 1 initiative"},
		{"partial", numbered(30), 1, "Showing 12 of 30 initiatives"},
		{"all", numbered(30), 3, "Showing 30 of 30 initiatives"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewView(tt.records, tt.page, 12).Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuery_FilterKey(t *testing.T) {
	a := Query{Search: "Health", Category: "Food", Sort: SortName, Page: 1}
	b := Query{Search: "health", Category: "Food", Sort: SortName, Page: 4}
	if a.FilterKey() != b.FilterKey() {
		t.Errorf("keys differ for page and search case: %q vs %q", a.FilterKey(), b.FilterKey())
	}

	c := Query{Search: "health", Category: "Food", Sort: SortCity}
	if a.FilterKey() == c.FilterKey() {
		t.Error("keys equal for different sort")
	}
}

func TestRun(t *testing.T) {
	ds := NewDataset(nil, sample)
	v := Run(ds, Query{Category: "Food", Sort: SortName, Page: 1}, 12)
	if !equalNames(v.Items, "Food Bank", "Seed Swap") {
		t.Errorf("Run = %q", names(v.Items))
	}

	v = Run(nil, DefaultQuery(), 12)
	if v.Total != 0 {
		t.Errorf("Run(nil) total = %d, want 0", v.Total)
	}
}
