package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Save    key.Binding
	SaveAs  key.Binding
	Open    key.Binding
	New     key.Binding
	Close   key.Binding
	Reload  key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs:  key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "save as")),
		Open:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		New:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		Close:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close")),
		Reload:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		NextTab: key.NewBinding(key.WithKeys("ctrl+pgdown", "alt+]"), key.WithHelp("alt+]", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("ctrl+pgup", "alt+["), key.WithHelp("alt+[", "prev tab")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Save, k.SaveAs, k.Open, k.New, k.Close, k.NextTab, k.Reload, k.Quit}
}
