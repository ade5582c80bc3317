// Package session implements the live re-evaluation loop: an edit buffer that
// is re-run against a captured input after every edit, with the last good
// output kept on screen whenever a run fails.
package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
	"unicode"

	clog "github.com/charmbracelet/log"
)

// State of the interaction loop.
type State int

const (
	Editing State = iota
	Confirmed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// DefaultPlaceholder is displayed before any evaluation when no input was captured.
const DefaultPlaceholder = "(No input from stdin)"

// DefaultPrompt is the marker drawn in front of the edit buffer.
const DefaultPrompt = "> "

// ErrCancelled is returned by Run when the user interrupts the session.
var ErrCancelled = errors.New("session cancelled")

// Evaluator runs a command with input as its stdin and returns its output.
// Any error is treated as a failed run.
type Evaluator interface {
	Evaluate(ctx context.Context, command string, input []byte) (string, error)
}

// Config holds the collaborators and presentation settings of a Session.
type Config struct {
	Evaluator   Evaluator
	Input       []byte
	Prompt      string
	Placeholder string
	Logger      *clog.Logger
}

// Session owns the mutable UI state: edit buffer, displayed output,
// last-good output and the redraw memo.
type Session struct {
	eval   Evaluator
	input  []byte
	prompt string
	logger *clog.Logger

	state       State
	buffer      []rune
	display     string
	lastGood    string
	// set while the display is the placeholder text
	placeholder bool

	memo   memo
	evals  int
	paints int
}

// memo is the (buffer, display) pair last painted.
type memo struct {
	valid   bool
	buffer  string
	display string
}

// New creates a session in the editing state. The display starts as the
// captured input, or the placeholder when the input is empty.
func New(cfg Config) *Session {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	logger := cfg.Logger
	if logger == nil {
		logger = clog.New(io.Discard)
	}
	initial := placeholder
	if len(cfg.Input) > 0 {
		initial = string(cfg.Input)
	}
	return &Session{
		eval:        cfg.Evaluator,
		input:       cfg.Input,
		prompt:      prompt,
		logger:      logger,
		state:       Editing,
		display:     initial,
		lastGood:    initial,
		placeholder: len(cfg.Input) == 0,
	}
}

func (s *Session) State() State { return s.state }
func (s *Session) Buffer() string { return string(s.buffer) }
func (s *Session) Display() string { return s.display }
func (s *Session) LastGood() string { return s.lastGood }
func (s *Session) Prompt() string { return s.prompt }
func (s *Session) Evaluations() int { return s.evals }
func (s *Session) Paints() int { return s.paints }

// ShowsPlaceholder reports whether the display is still the placeholder, i.e.
// there was no input and no evaluation has succeeded yet.
func (s *Session) ShowsPlaceholder() bool { return s.placeholder }

// Result is the command text to emit once the session is confirmed.
func (s *Session) Result() string { return string(s.buffer) }

// Handle applies one key event and returns the resulting state. Keys
// received after a terminal state are ignored.
func (s *Session) Handle(ctx context.Context, k Key) State {
	if s.state != Editing {
		return s.state
	}
	switch k.Kind {
	case KeyEnter:
		s.state = Confirmed
		s.logger.Info("confirmed", "command", string(s.buffer))
	case KeyInterrupt:
		s.state = Cancelled
		s.logger.Info("cancelled")
	case KeyBackspace:
		if len(s.buffer) > 0 {
			s.buffer = s.buffer[:len(s.buffer)-1]
		}
		s.reevaluate(ctx)
	case KeyRune:
		if !unicode.IsPrint(k.Rune) {
			return s.state
		}
		s.buffer = append(s.buffer, k.Rune)
		s.reevaluate(ctx)
	}
	return s.state
}

// reevaluate runs the buffer when it has non-blank content. A failed run
// puts the last good output back on display.
func (s *Session) reevaluate(ctx context.Context) {
	command := string(s.buffer)
	if strings.TrimSpace(command) == "" {
		return
	}
	s.evals++
	start := time.Now()
	out, err := s.eval.Evaluate(ctx, command, s.input)
	if err != nil {
		s.logger.Debug("evaluation failed", "command", command, "err", err, "took", time.Since(start))
		s.display = s.lastGood
		return
	}
	s.logger.Debug("evaluation ok", "command", command, "bytes", len(out), "took", time.Since(start))
	s.display = out
	s.lastGood = out
	s.placeholder = false
}

// Dirty reports whether the buffer or display differ from what was last painted.
func (s *Session) Dirty() bool {
	return !s.memo.valid || s.memo.buffer != string(s.buffer) || s.memo.display != s.display
}

// Invalidate forces the next Paint to redraw, e.g. after a resize.
func (s *Session) Invalidate() { s.memo.valid = false }

// Paint redraws scr when the session is dirty and reports whether it did.
func (s *Session) Paint(scr Screen) (bool, error) {
	if !s.Dirty() {
		return false, nil
	}
	buffer := string(s.buffer)
	if err := Render(scr, s.prompt, buffer, s.display); err != nil {
		return false, err
	}
	s.memo = memo{valid: true, buffer: buffer, display: s.display}
	s.paints++
	return true, nil
}
