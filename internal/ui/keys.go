package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next       key.Binding
	Previous   key.Binding
	Profile    key.Binding
	Source     key.Binding
	Tap        key.Binding
	Follow     key.Binding
	Save       key.Binding
	Refresh    key.Binding
	Categories key.Binding
	Search     key.Binding
	ForYou     key.Binding
	Following  key.Binding
	Saved      key.Binding
	Notices    key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Next:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next")),
	Previous:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "prev")),
	Profile:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "profile")),
	Source:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "source")),
	Tap:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "navbar")),
	Follow:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
	Save:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Categories: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "categories")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	ForYou:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "for you")),
	Following:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "following")),
	Saved:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "saved")),
	Notices:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notices")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Profile, k.Source, k.Follow, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Profile, k.Source, k.Tap},
		{k.Follow, k.Save, k.Refresh, k.Categories, k.Search},
		{k.ForYou, k.Following, k.Saved, k.Notices, k.Back, k.Quit},
	}
}
