package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding

	// Grid navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Queue tabs
	QueueNext key.Binding
	QueuePrev key.Binding

	// Modals
	Detail    key.Binding
	Logs      key.Binding
	Terminate key.Binding

	// Log viewer
	ToggleOrder key.Binding
	PageDown    key.Binding

	// Terminate dialog
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("Q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),

		// Grid navigation
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),

		// Queue tabs
		QueueNext: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "next queue"),
		),
		QueuePrev: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("< >", "queues"),
		),

		// Modals
		Detail: key.NewBinding(
			key.WithKeys("d", "D"),
			key.WithHelp("D", "details"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "L"),
			key.WithHelp("L", "logs"),
		),
		Terminate: key.NewBinding(
			key.WithKeys("t", "T"),
			key.WithHelp("T", "terminate"),
		),

		// Log viewer
		ToggleOrder: key.NewBinding(
			key.WithKeys("o", "O"),
			key.WithHelp("O", "reverse order"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("space", "page down"),
		),

		// Terminate dialog
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("Y", "confirm"),
		),
	}
}

// ShortHelp returns key bindings for the footer legend.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.QueuePrev, k.Detail, k.Logs, k.Terminate, k.Quit}
}

// FullHelp returns key bindings grouped by where they apply.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.QueuePrev, k.QueueNext},
		{k.Detail, k.Logs, k.Terminate},
		{k.ToggleOrder, k.PageDown, k.Escape},
		{k.Quit},
	}
}
