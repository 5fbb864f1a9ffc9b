package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/service"
)

type fakeService struct {
	ds      *directory.Dataset
	err     error
	cleared bool
}

func (f *fakeService) Load(context.Context) (*directory.Dataset, error)   { return f.ds, f.err }
func (f *fakeService) Reload(context.Context) (*directory.Dataset, error) { return f.ds, f.err }
func (f *fakeService) ClearCache(context.Context)                         { f.cleared = true }
func (f *fakeService) Status() service.Status {
	if f.ds == nil {
		return service.Status{}
	}
	return service.Status{Loaded: true, Records: f.ds.Len()}
}

func dataset(t *testing.T) *directory.Dataset {
	t.Helper()
	var b strings.Builder
	b.WriteString("Initiative Name,Category,Country,City,Description\n")
	for i := 1; i <= 15; i++ {
		cat, country := "Food", "Peru"
		if i%3 == 0 {
			cat, country = "Health", "Chile"
		}
		fmt.Fprintf(&b, "Item %02d,%s,%s,Lima,Description %d\n", i, cat, country, i)
	}
	ds, err := directory.ParseCSV(b.String(), directory.DefaultColumns)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	return ds
}

func newLoaded(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(svc, directory.NewPresenter(nil), 6, 10*time.Millisecond)
	t.Cleanup(m.session.Close)
	return update(m, loadedMsg{ds: svc.ds})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Loaded(t *testing.T) {
	m := newLoaded(t, &fakeService{ds: dataset(t)})

	if m.loading {
		t.Error("still loading after loadedMsg")
	}
	if m.view.Total != 15 || m.view.Shown() != 6 {
		t.Errorf("view = %d of %d, want 6 of 15", m.view.Shown(), m.view.Total)
	}
	if got := strings.Join(m.facets.Categories, ","); got != "Food,Health" {
		t.Errorf("categories = %q", got)
	}
	if !strings.Contains(m.View(), "Showing 6 of 15 initiatives") {
		t.Error("view missing summary")
	}
}

func TestModel_LoadMore(t *testing.T) {
	m := newLoaded(t, &fakeService{ds: dataset(t)})

	m = update(m, key("m"))
	if m.view.Shown() != 12 {
		t.Errorf("after one load more shown = %d, want 12", m.view.Shown())
	}
	m = update(m, key("m"))
	m = update(m, key("m"))
	if m.view.Shown() != 15 || m.status != "All initiatives shown" {
		t.Errorf("shown = %d, status = %q", m.view.Shown(), m.status)
	}
}

func TestModel_FiltersAndSort(t *testing.T) {
	m := newLoaded(t, &fakeService{ds: dataset(t)})

	m = update(m, key("m"))
	m = update(m, key("c"))
	if q := m.session.Query(); q.Category != "Food" || q.Page != 1 {
		t.Errorf("query = %+v, want Food on page 1", q)
	}
	if m.view.Total != 10 {
		t.Errorf("Food total = %d, want 10", m.view.Total)
	}

	m = update(m, key("c"))
	m = update(m, key("c"))
	if q := m.session.Query(); q.Category != "" {
		t.Errorf("category = %q, want cleared after cycling", q.Category)
	}

	m = update(m, key("n"))
	m = update(m, key("x"))
	if q := m.session.Query(); q.Country != "" {
		t.Errorf("country = %q after clear filters", q.Country)
	}

	m = update(m, key("s"))
	if q := m.session.Query(); q.Sort != directory.SortNameDesc {
		t.Errorf("sort = %q, want name-desc", q.Sort)
	}
	if m.view.Items[0].Name != "Item 15" {
		t.Errorf("first = %q, want Item 15", m.view.Items[0].Name)
	}
}

func TestModel_SearchSubmitAndClear(t *testing.T) {
	m := newLoaded(t, &fakeService{ds: dataset(t)})

	m = update(m, key("/"))
	if m.mode != modeSearch {
		t.Fatal("slash did not focus search")
	}
	m = update(m, key("item 1"))
	m = update(m, key("enter"))
	if m.mode != modeBrowse {
		t.Error("enter did not leave search mode")
	}
	if m.session.Query().Search != "item 1" || m.view.Total != 6 {
		t.Errorf("search = %q, total = %d, want item 1 / 6", m.session.Query().Search, m.view.Total)
	}

	m = update(m, key("esc"))
	if m.session.Query().Search != "" || m.view.Total != 15 {
		t.Errorf("esc did not clear search: %+v", m.session.Query())
	}
}

func TestModel_DebouncedSearch(t *testing.T) {
	m := newLoaded(t, &fakeService{ds: dataset(t)})

	m = update(m, key("/"))
	m = update(m, key("Health"))

	msg := waitForSearch(m.searches)()
	if _, ok := msg.(searchAppliedMsg); !ok {
		t.Fatalf("msg = %T, want searchAppliedMsg", msg)
	}
	m = update(m, msg)
	if m.view.Total != 5 {
		t.Errorf("total = %d, want 5 Health items", m.view.Total)
	}
}

func TestModel_Errors(t *testing.T) {
	m := newLoaded(t, &fakeService{ds: dataset(t)})

	m = update(m, ErrMsg{Err: service.ErrSuperseded})
	if m.err != nil {
		t.Error("superseded load reported as an error")
	}

	m = update(m, ErrMsg{Err: &directory.HTTPError{Status: 500}})
	if m.err == nil {
		t.Fatal("error not recorded")
	}
	if !strings.Contains(m.View(), "FETCH001") {
		t.Error("view missing error code")
	}

	m = update(m, DoneMsg("Cache cleared"))
	if m.err != nil || m.status != "Cache cleared" {
		t.Errorf("err = %v, status = %q", m.err, m.status)
	}
}

func TestModel_Menu(t *testing.T) {
	svc := &fakeService{ds: dataset(t)}
	m := newLoaded(t, svc)

	m = update(m, key("a"))
	if m.mode != modeMenu {
		t.Fatal("a did not open the menu")
	}

	// Clear cache is the second item.
	m = update(m, key("down"))
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if m.mode != modeBrowse || cmd == nil {
		t.Fatal("selecting an action did not close the menu with a command")
	}
	if msg := cmd(); msg != DoneMsg("Cache cleared") || !svc.cleared {
		t.Errorf("msg = %v, cleared = %v", msg, svc.cleared)
	}

	// Sort submenu, then its second entry (name-desc).
	m = update(m, key("a"))
	for range 3 {
		m = update(m, key("down"))
	}
	m = update(m, key("enter"))
	if m.menu.Title != "Sort by" {
		t.Fatalf("menu = %q, want Sort by", m.menu.Title)
	}
	m = update(m, key("down"))
	_, cmd = m.Update(key("enter"))
	m = update(m, cmd())
	if q := m.session.Query(); q.Sort != directory.SortNameDesc {
		t.Errorf("sort = %q, want name-desc", q.Sort)
	}

	// Back and escape walk up and out.
	m = update(m, key("a"))
	for range 3 {
		m = update(m, key("down"))
	}
	m = update(m, key("enter"))
	m = update(m, key("esc"))
	if m.menu != m.root {
		t.Error("esc did not return to the root menu")
	}
	m = update(m, key("esc"))
	if m.mode != modeBrowse {
		t.Error("esc at root did not close the menu")
	}
}

func TestActions(t *testing.T) {
	ds := dataset(t)

	msg := Actions{svc: &fakeService{ds: ds}}.Load()()
	if got, ok := msg.(loadedMsg); !ok || got.ds != ds {
		t.Errorf("Load msg = %#v", msg)
	}

	boom := errors.New("boom")
	msg = Actions{svc: &fakeService{ds: ds, err: boom}}.Reload()()
	if got, ok := msg.(ErrMsg); !ok || !errors.Is(got.Err, boom) {
		t.Errorf("Reload msg = %#v", msg)
	}

	msg = Actions{svc: &fakeService{ds: ds, err: context.DeadlineExceeded}}.Load()()
	if got, ok := msg.(ErrMsg); !ok || !strings.Contains(got.Err.Error(), "timed out") {
		t.Errorf("timeout msg = %#v", msg)
	}
}

func TestNextValue(t *testing.T) {
	values := []string{"a", "b"}
	tests := []struct {
		current string
		want    string
	}{
		{"", "a"},
		{"a", "b"},
		{"b", ""},
		{"gone", ""},
	}
	for _, tt := range tests {
		if got := nextValue(values, tt.current); got != tt.want {
			t.Errorf("nextValue(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
	if got := nextValue(nil, ""); got != "" {
		t.Errorf("nextValue(nil) = %q", got)
	}
}

func TestNextSort(t *testing.T) {
	if got := nextSort(directory.SortCity); got != directory.SortName {
		t.Errorf("nextSort(city) = %q, want wrap to name", got)
	}
	if got := nextSort(directory.SortNone); got != directory.SortName {
		t.Errorf("nextSort(none) = %q, want name", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate = %q, want abcd…", got)
	}
}
