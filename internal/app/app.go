// Package app runs a session on the selected terminal host.
package app

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pipepeek/internal/config"
	"pipepeek/internal/session"
	"pipepeek/internal/system"
	"pipepeek/internal/term"
	"pipepeek/internal/ui"
)

// Start runs sess until the user confirms or cancels and returns the
// confirmed command. Cancellation yields session.ErrCancelled.
func Start(ctx context.Context, host config.Host, sess *session.Session) (string, error) {
	switch host {
	case config.HostRaw:
		return startRaw(ctx, sess)
	default:
		return startTea(ctx, sess)
	}
}

func startTea(ctx context.Context, sess *session.Session) (string, error) {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if !system.IsTerminal(os.Stdin) {
		opts = append(opts, tea.WithInputTTY())
	}
	if !system.IsTerminal(os.Stdout) {
		tty, err := system.OpenTTY()
		if err != nil {
			return "", err
		}
		defer tty.Close()
		opts = append(opts, tea.WithOutput(tty))
	}
	final, err := tea.NewProgram(ui.New(ctx, sess), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("run ui: %w", err)
	}
	if err := ui.Err(final); err != nil {
		return "", err
	}
	return outcome(sess)
}

func startRaw(ctx context.Context, sess *session.Session) (string, error) {
	f, err := system.OpenTTY()
	if err != nil {
		return "", err
	}
	defer f.Close()
	t, err := term.Open(f)
	if err != nil {
		return "", err
	}
	result, runErr := sess.Run(ctx, t)
	if err := t.Close(); err != nil && runErr == nil {
		return "", err
	}
	return result, runErr
}

// outcome maps the final session state to a result. A program that stopped
// before a decision, e.g. because the context ended, counts as cancelled.
func outcome(sess *session.Session) (string, error) {
	if sess.State() == session.Confirmed {
		return sess.Result(), nil
	}
	return "", session.ErrCancelled
}
