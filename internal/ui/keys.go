package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pipepeek/internal/session"
)

type keyMap struct {
	Confirm   key.Binding
	Delete    key.Binding
	Interrupt key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
}

var keys = keyMap{
	Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "emit command")),
	Delete:    key.NewBinding(key.WithKeys("backspace", "delete", "ctrl+h"), key.WithHelp("⌫", "delete last char")),
	Interrupt: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit without emitting")),
	Up:        key.NewBinding(key.WithKeys("up")),
	Down:      key.NewBinding(key.WithKeys("down")),
	Left:      key.NewBinding(key.WithKeys("left")),
	Right:     key.NewBinding(key.WithKeys("right")),
}

// translate maps a Bubble Tea key message to session keys. A paste or a
// burst of typed runes arrives as one message and yields one key per rune.
func translate(msg tea.KeyMsg) []session.Key {
	switch {
	case key.Matches(msg, keys.Confirm):
		return []session.Key{session.EnterKey()}
	case key.Matches(msg, keys.Interrupt):
		return []session.Key{session.InterruptKey()}
	case key.Matches(msg, keys.Delete):
		return []session.Key{session.BackspaceKey()}
	case key.Matches(msg, keys.Up):
		return []session.Key{session.ArrowKey(session.Up)}
	case key.Matches(msg, keys.Down):
		return []session.Key{session.ArrowKey(session.Down)}
	case key.Matches(msg, keys.Left):
		return []session.Key{session.ArrowKey(session.Left)}
	case key.Matches(msg, keys.Right):
		return []session.Key{session.ArrowKey(session.Right)}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []session.Key{session.RuneKey(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return []session.Key{session.IgnoredKey()}
		}
		out := make([]session.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, session.RuneKey(r))
		}
		return out
	}
	return []session.Key{session.IgnoredKey()}
}
