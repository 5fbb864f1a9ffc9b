package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/directory/internal/directory"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

// linkParents wires every submenu to its parent and points "Back" items at
// the menu above.
func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func buildMenuTree(a Actions) *Menu {
	root := &Menu{
		Title: "Actions",
		Items: []MenuItem{
			{Label: "Reload from sheet", Action: a.Reload},
			{Label: "Clear cache", Action: a.ClearCache},
			{Label: "Show status", Action: a.Status},
			{Label: "Sort ->", Submenu: loadSortMenu()},
			{Label: "Close"},
		},
	}

	linkParents(root, nil)

	return root
}

func loadSortMenu() *Menu {
	items := make([]MenuItem, 0, len(directory.SortKeys)+1)
	for _, k := range directory.SortKeys {
		items = append(items, MenuItem{
			Label: k.Label(),
			Action: func() tea.Cmd {
				return func() tea.Msg { return sortSelectedMsg(k) }
			},
		})
	}
	items = append(items, MenuItem{Label: "Back"})

	return &Menu{Title: "Sort by", Items: items}
}
