package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the bindings of the main screen.
type KeyMap struct {
	Open         key.Binding
	Convert      key.Binding
	Clear        key.Binding
	NextTemplate key.Binding
	PrevTemplate key.Binding
	Back         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Convert:      key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c/enter", "convert")),
		Clear:        key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove file")),
		NextTemplate: key.NewBinding(key.WithKeys("t", "tab"), key.WithHelp("t", "next template")),
		PrevTemplate: key.NewBinding(key.WithKeys("T", "shift+tab"), key.WithHelp("T", "prev template")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close picker")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Convert, k.NextTemplate, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Clear, k.Back},
		{k.NextTemplate, k.PrevTemplate, k.Convert},
		{k.Help, k.Quit},
	}
}
