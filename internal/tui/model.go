// Package tui is a terminal browser for the directory.
//
// The model keeps a directory.Session: typed search goes through the
// session's debouncer, and a background command waits on a channel for
// the debounced search to land before the view is refreshed.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/service"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeMenu
)

// linesPerCard is the height budget of one card in the list.
const linesPerCard = 4

// Model is the bubbletea model of the browser.
type Model struct {
	actions   Actions
	session   *directory.Session
	presenter *directory.Presenter
	input     textinput.Model
	searches  chan struct{}

	root       *Menu
	menu       *Menu
	menuCursor int

	mode    mode
	view    directory.View
	facets  directory.Facets
	cursor  int
	offset  int
	loading bool
	status  string
	err     error

	width  int
	height int
}

// New creates the browser model.
func New(svc Service, presenter *directory.Presenter, pageSize int, debounce time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "Search initiatives..."
	ti.Prompt = "/ "
	ti.CharLimit = 200

	a := Actions{svc: svc}
	root := buildMenuTree(a)

	return Model{
		actions:   a,
		session:   directory.NewSession(pageSize, debounce),
		presenter: presenter,
		input:     ti,
		searches:  make(chan struct{}, 1),
		root:      root,
		menu:      root,
		loading:   true,
	}
}

// Init starts the first load and the debounced-search listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.actions.Load(), waitForSearch(m.searches))
}

// notifySearch wakes the listener. A signal already queued covers this one.
func (m Model) notifySearch(directory.View) {
	select {
	case m.searches <- struct{}{}:
	default:
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = nil
		m.view = m.session.Load(msg.ds)
		m.facets = directory.BuildFacets(msg.ds.Records)
		m.input.SetValue("")
		m.resetCursor()
		m.status = fmt.Sprintf("Loaded %d initiatives", msg.ds.Len())
		return m, nil

	case ErrMsg:
		m.loading = false
		if errors.Is(msg.Err, service.ErrSuperseded) {
			return m, nil
		}
		m.err = msg.Err
		return m, nil

	case DoneMsg:
		m.err = nil
		m.status = string(msg)
		return m, nil

	case statusMsg:
		m.status = formatStatus(service.Status(msg))
		return m, nil

	case searchAppliedMsg:
		m.view = m.session.View()
		m.resetCursor()
		return m, waitForSearch(m.searches)

	case sortSelectedMsg:
		m.view = m.session.SetSort(directory.SortKey(msg))
		m.resetCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeMenu:
			return m.updateMenu(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Close()
		return m, tea.Quit

	case "/":
		m.mode = modeSearch
		cmd := m.input.Focus()
		return m, cmd

	case "esc":
		m.input.SetValue("")
		m.view = m.session.ClearSearch()
		m.resetCursor()

	case "m", " ":
		if v, ok := m.session.LoadMore(); ok {
			m.view = v
		} else {
			m.status = "All initiatives shown"
		}

	case "s":
		m.view = m.session.SetSort(nextSort(m.session.Query().Sort))
		m.resetCursor()

	case "c":
		m.view = m.session.SetCategory(nextValue(m.facets.Categories, m.session.Query().Category))
		m.resetCursor()

	case "n":
		m.view = m.session.SetCountry(nextValue(m.facets.Countries, m.session.Query().Country))
		m.resetCursor()

	case "t":
		m.view = m.session.SetCity(nextValue(m.facets.Cities, m.session.Query().City))
		m.resetCursor()

	case "x":
		m.view = m.session.ClearFilters()
		m.resetCursor()

	case "r":
		m.loading = true
		m.status = "Reloading..."
		return m, m.actions.Reload()

	case "a":
		m.mode = modeMenu
		m.menu = m.root
		m.menuCursor = 0

	case "up", "k":
		m.moveCursor(-1)

	case "down", "j":
		m.moveCursor(1)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeBrowse
		m.view = m.session.ClearSearch()
		m.resetCursor()
		return m, nil

	case "enter":
		m.input.Blur()
		m.mode = modeBrowse
		m.view = m.session.SetSearch(m.input.Value())
		m.resetCursor()
		return m, nil

	case "ctrl+c":
		m.session.Close()
		return m, tea.Quit
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.session.TypeSearch(v, m.notifySearch)
	}
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}

	case "down", "j":
		if m.menuCursor < len(m.menu.Items)-1 {
			m.menuCursor++
		}

	case "esc":
		if m.menu.Parent != nil {
			m.menu = m.menu.Parent
			m.menuCursor = 0
		} else {
			m.mode = modeBrowse
		}

	case "enter":
		item := m.menu.Items[m.menuCursor]
		switch {
		case item.Action != nil:
			m.mode = modeBrowse
			m.menu = m.root
			m.menuCursor = 0
			return m, item.Action()
		case item.Submenu != nil:
			m.menu = item.Submenu
			m.menuCursor = 0
		default:
			m.mode = modeBrowse
			m.menu = m.root
			m.menuCursor = 0
		}
	}

	return m, nil
}

func (m *Model) resetCursor() {
	m.cursor, m.offset = 0, 0
}

// moveCursor moves the selection and scrolls the list to keep it visible.
func (m *Model) moveCursor(delta int) {
	n := len(m.view.Items)
	if n == 0 {
		return
	}
	m.cursor = max(0, min(n-1, m.cursor+delta))

	visible := m.visibleCards()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// visibleCards is how many cards fit between the header and the help line.
func (m Model) visibleCards() int {
	if m.height <= 0 {
		return max(1, len(m.view.Items))
	}
	return max(1, (m.height-8)/linesPerCard)
}

// nextSort returns the sort key after k in menu order, wrapping around.
func nextSort(k directory.SortKey) directory.SortKey {
	for i, s := range directory.SortKeys {
		if s == k {
			return directory.SortKeys[(i+1)%len(directory.SortKeys)]
		}
	}
	return directory.SortKeys[0]
}

// nextValue cycles "" -> values[0] -> ... -> values[n-1] -> "".
func nextValue(values []string, current string) string {
	if current == "" {
		if len(values) > 0 {
			return values[0]
		}
		return ""
	}
	for i, v := range values {
		if v == current && i+1 < len(values) {
			return values[i+1]
		}
	}
	return ""
}

func formatStatus(st service.Status) string {
	if !st.Loaded {
		if st.LastError != "" {
			return "Not loaded: " + st.LastError
		}
		return "Not loaded"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d initiatives, loaded %s", st.Records, st.LoadedAt.Local().Format(time.DateTime))
	if st.LastError != "" {
		b.WriteString(" (last refresh failed: " + st.LastError + ")")
	}
	return b.String()
}
