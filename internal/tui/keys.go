package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Search  key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Kind    key.Binding
	History key.Binding
	Export  key.Binding
	Resend  key.Binding
	Back    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Search:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
	NextTab: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
	Kind:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "switch entity")),
	History: key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "history")),
	Export:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export json")),
	Resend:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "resend webhook")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}
