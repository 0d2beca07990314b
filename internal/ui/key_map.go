package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	enter  key.Binding
	back   key.Binding
	upload key.Binding
	export key.Binding
	copy   key.Binding
	toggle key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		upload: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
		toggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.upload, k.export},
		{k.copy, k.toggle, k.quit},
	}
}
