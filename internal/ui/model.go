// Package ui hosts the session loop in a Bubble Tea program.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pipepeek/internal/session"
)

// model adapts a session to Bubble Tea. Key messages are handled in Update
// and evaluated synchronously, so evaluations stay sequential and in key
// order; the next message is not processed until the current run returns.
type model struct {
	ctx    context.Context
	sess   *session.Session
	screen *canvas
	err    error
}

// New returns the Bubble Tea model driving sess.
func New(ctx context.Context, sess *session.Session) tea.Model {
	return newModel(ctx, sess, defaultStyles())
}

func newModel(ctx context.Context, sess *session.Session, st styles) model {
	return model{
		ctx:    ctx,
		sess:   sess,
		screen: newCanvas(sess.Prompt(), st),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.sess.Invalidate()
		return m.paint()
	case tea.KeyMsg:
		for _, k := range translate(msg) {
			if m.sess.Handle(m.ctx, k) != session.Editing {
				return m, tea.Quit
			}
		}
		return m.paint()
	}
	return m, nil
}

// paint redraws the canvas only when the session says something changed.
func (m model) paint() (tea.Model, tea.Cmd) {
	m.screen.SetMuted(m.sess.ShowsPlaceholder())
	if _, err := m.sess.Paint(m.screen); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.sess.State() != session.Editing {
		return ""
	}
	return m.screen.Frame()
}

// Err reports a paint failure that ended the program.
func Err(final tea.Model) error {
	if m, ok := final.(model); ok {
		return m.err
	}
	return nil
}
