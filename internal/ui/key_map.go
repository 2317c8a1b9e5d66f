package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	next     key.Binding
	prev     key.Binding
	search   key.Binding
	clear    key.Binding
	submit   key.Binding
	play     key.Binding
	favorite key.Binding
	reload   key.Binding
	status   key.Binding
	role     key.Binding
	publish  key.Binding
	remove   key.Binding
	yes      key.Binding
	no       key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search now")),
		play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload/retry")),
		status:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "enable/disable")),
		role:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle admin")),
		publish:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "publish/unpublish")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.next, k.reload, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.prev},
		{k.search, k.clear, k.reload},
		{k.play, k.favorite},
		{k.status, k.role, k.publish, k.remove},
		{k.help, k.quit},
	}
}
