package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Navigation
	Catalog  key.Binding
	Invoice  key.Binding
	Manual   key.Binding
	Settings key.Binding

	// Actions
	Select key.Binding
	Delete key.Binding
	Search key.Binding
	Export key.Binding
	Clear  key.Binding

	// Quantity
	Increase key.Binding
	Decrease key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Catalog:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "catalog")),
	Invoice:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoice")),
	Manual:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "manual")),
	Settings: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
	Clear:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "clear all")),
	Increase: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
	Decrease: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
