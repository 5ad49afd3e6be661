package inspect

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the inspector key bindings. Printable runes not bound here
// are typed into the document.
type KeyMap struct {
	Left, Right        key.Binding
	PrevNode, NextNode key.Binding

	Backspace key.Binding
	Paste     key.Binding
	Split     key.Binding

	ToggleDisabled key.Binding
	TogglePolling  key.Binding
	Poll           key.Binding
	DumpMarkdown   key.Binding

	ScrollUp, ScrollDown key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "caret left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "caret right")),
		PrevNode: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous text")),
		NextNode: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next text")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste html")),
		Split:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "split text")),

		ToggleDisabled: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "enable/disable")),
		TogglePolling:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "start/stop")),
		Poll:           key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "poll once")),
		DumpMarkdown:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log node")),

		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "log up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "log down")),
	}
}
