package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PrevItem key.Binding
	NextItem key.Binding
	Open     key.Binding
	Switch   key.Binding
	Add      key.Binding
	Delete   key.Binding
	Export   key.Binding
	OpenLink key.Binding
	CopyLink key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Add, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PrevItem, k.NextItem, k.Open, k.Switch},
		{k.Add, k.Delete, k.Refresh, k.Export},
		{k.OpenLink, k.CopyLink, k.Dismiss, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PrevItem: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev item")),
		NextItem: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next item")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open feed")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add feed")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete feed")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export rss")),
		OpenLink: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open item")),
		CopyLink: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh list")),
		Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss notice")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
