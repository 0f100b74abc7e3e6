package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Search    key.Binding
	Filter    key.Binding
	LoadMore  key.Binding
	Dashboard key.Binding
	Catalog   key.Binding
	Add       key.Binding
	Back      key.Binding
	Logout    key.Binding
	Quit      key.Binding
	Escape    key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
	LoadMore:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
	Dashboard: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dashboard")),
	Catalog:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "catalog")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to bucket")),
	Back:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
