package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/directory/internal/directory"
)

const appTitle = "Initiative Directory"

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(appTitle))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.filtersLine())
	b.WriteString("\n\n")

	switch {
	case m.mode == modeMenu:
		b.WriteString(m.menuView())
	case m.err != nil:
		b.WriteString(errorStyle.Render(directory.FormatUserError(m.err)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Press r to retry."))
	case m.loading && m.session.Dataset() == nil:
		b.WriteString(mutedStyle.Render("Loading initiatives..."))
	default:
		b.WriteString(m.resultsView())
	}

	if m.status != "" && m.err == nil {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) filtersLine() string {
	q := m.session.Query()
	part := func(label, value string) string {
		if value == "" {
			return filterStyle.Render(label + ": All")
		}
		return activeStyle.Render(label + ": " + value)
	}
	return strings.Join([]string{
		part("Category", q.Category),
		part("Country", q.Country),
		part("City", q.City),
		filterStyle.Render("Sort: " + q.Sort.Label()),
	}, filterStyle.Render("  ·  "))
}

func (m Model) resultsView() string {
	var b strings.Builder
	b.WriteString(summaryStyle.Render(m.view.Summary()))
	b.WriteString("\n")

	if m.view.Total == 0 {
		b.WriteString(mutedStyle.Render("No initiatives found. Please try adjusting your search criteria."))
		return b.String()
	}

	end := min(len(m.view.Items), m.offset+m.visibleCards())
	for i := m.offset; i < end; i++ {
		card := m.renderCard(m.presenter.Card(m.view.Items[i]))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(card))
		} else {
			b.WriteString(cardStyle.Render(card))
		}
		b.WriteString("\n")
	}
	if m.view.HasMore {
		b.WriteString(mutedStyle.Render("m: load more"))
	}
	return b.String()
}

func (m Model) renderCard(c directory.Card) string {
	var lines []string

	title := activeStyle.Render(c.Title)
	if c.Category != "" {
		title += " " + categoryStyle.Render("["+c.Category+"]")
	}
	lines = append(lines, title)

	if c.Location != "" {
		lines = append(lines, mutedStyle.Render(c.Location))
	}
	if c.Description != "" {
		lines = append(lines, truncate(c.Description, m.lineWidth()))
	}

	var links []string
	for _, ct := range c.Contacts {
		switch ct.Kind {
		case directory.ContactWebsite:
			links = append(links, ct.Href)
		default:
			links = append(links, ct.Label)
		}
	}
	for _, l := range c.Social {
		links = append(links, l.Label+": "+l.Href)
	}
	if len(links) > 0 {
		lines = append(lines, mutedStyle.Render(truncate(strings.Join(links, " · "), m.lineWidth())))
	}

	return strings.Join(lines, "\n")
}

func (m Model) menuView() string {
	var b strings.Builder
	b.WriteString(activeStyle.Render(m.menu.Title))
	b.WriteString("\n")
	for i, item := range m.menu.Items {
		if i == m.menuCursor {
			b.WriteString(categoryStyle.Render("> " + item.Label))
		} else {
			b.WriteString("  " + item.Label)
		}
		b.WriteString("\n")
	}
	return menuStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) help() string {
	switch m.mode {
	case modeSearch:
		return "enter: apply · esc: clear search"
	case modeMenu:
		return "↑/↓: move · enter: select · esc: back"
	}
	return "/: search · c/n/t: category/country/city · s: sort · x: clear filters · m: more · r: reload · a: actions · q: quit"
}

func (m Model) lineWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(20, m.width-4)
}

// truncate shortens s to at most width cells, ending in "…".
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
