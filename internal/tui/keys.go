package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	send     key.Binding
	copy     key.Binding
	scrollUp key.Binding
	scrollDn key.Binding
	info     key.Binding
	esc      key.Binding
	quit     key.Binding
}

var keys = keyMap{
	send:     key.NewBinding(key.WithKeys("enter")),
	copy:     key.NewBinding(key.WithKeys("ctrl+y")),
	scrollUp: key.NewBinding(key.WithKeys("pgup")),
	scrollDn: key.NewBinding(key.WithKeys("pgdown")),
	info:     key.NewBinding(key.WithKeys("f1")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	quit:     key.NewBinding(key.WithKeys("ctrl+c")),
}
