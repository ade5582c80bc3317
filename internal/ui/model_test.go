package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pipepeek/internal/session"
)

type tableEval map[string]string

func (t tableEval) Evaluate(_ context.Context, command string, _ []byte) (string, error) {
	if out, ok := t[command]; ok {
		return out, nil
	}
	return "", errors.New("exit status 1")
}

func newTestModel(input string, ev tableEval) (model, *session.Session) {
	sess := session.New(session.Config{Evaluator: ev, Input: []byte(input)})
	return newModel(context.Background(), sess, plainStyles()), sess
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

func typeRunes(t *testing.T, m model, text string) model {
	t.Helper()
	for _, r := range text {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func frameLines(m model) []string {
	return strings.Split(m.View(), "\n")
}

func TestModel_PaintsOnResize(t *testing.T) {
	m, sess := newTestModel("a\nb\nc\n", nil)
	if m.View() != "" {
		t.Fatalf("expected empty view before the first size, got %q", m.View())
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 10, Height: 3})
	lines := frameLines(m)
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d: %q", len(lines), lines)
	}
	if lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("unexpected output rows %q", lines[:2])
	}
	// prompt followed by the cursor cell
	if lines[2] != ">  " {
		t.Fatalf("unexpected input row %q", lines[2])
	}
	if sess.Paints() != 1 {
		t.Fatalf("expected one paint, got %d", sess.Paints())
	}
	// same size again still repaints: the terminal may have been cleared
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 10, Height: 3})
	if sess.Paints() != 2 {
		t.Fatalf("resize must force a repaint, got %d", sess.Paints())
	}
}

func TestModel_TypingEvaluatesAndRepaints(t *testing.T) {
	m, sess := newTestModel("a\nb\nc\n", tableEval{"grep b": "b\n", "grep b ": "b\n"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 4})
	m = typeRunes(t, m, "grep b")
	lines := frameLines(m)
	if lines[0] != "b" {
		t.Fatalf("expected grep output, got %q", lines)
	}
	if lines[3] != "> grep b " {
		t.Fatalf("unexpected input row %q", lines[3])
	}
	paints := sess.Paints()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if sess.Buffer() != "grep b " || sess.Paints() != paints+1 {
		t.Fatalf("space must edit and repaint: %q paints=%d", sess.Buffer(), sess.Paints())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if sess.Paints() != paints+1 {
		t.Fatalf("arrows must not repaint, got %d", sess.Paints())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if sess.Buffer() != "grep b" {
		t.Fatalf("backspace did not delete: %q", sess.Buffer())
	}
	_ = m
}

func TestModel_FailureKeepsLastGood(t *testing.T) {
	m, sess := newTestModel("x\n", tableEval{"rev": "x\n"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 4})
	m = typeRunes(t, m, "rev")
	m = typeRunes(t, m, "!")
	if sess.Display() != "x\n" {
		t.Fatalf("failure replaced display: %q", sess.Display())
	}
	if frameLines(m)[0] != "x" {
		t.Fatalf("screen lost last good output: %q", frameLines(m))
	}
}

func TestModel_EnterQuits(t *testing.T) {
	m, sess := newTestModel("b\na\n", tableEval{"sort": "a\nb\n"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 4})
	m = typeRunes(t, m, "sort")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
	if sess.State() != session.Confirmed || sess.Result() != "sort" {
		t.Fatalf("unexpected state %v result %q", sess.State(), sess.Result())
	}
	if m.View() != "" {
		t.Fatalf("view must be empty after confirm")
	}
	if Err(m) != nil {
		t.Fatalf("unexpected error %v", Err(m))
	}
}

func TestModel_CtrlCCancels(t *testing.T) {
	m, sess := newTestModel("", nil)
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || sess.State() != session.Cancelled {
		t.Fatalf("ctrl+c must cancel, state %v", sess.State())
	}
}

func TestModel_PasteIsOneKeyPerRune(t *testing.T) {
	ev := tableEval{"w": "1", "wc": "2"}
	m, sess := newTestModel("in", ev)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 4})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("wc"), Paste: true})
	if sess.Buffer() != "wc" || sess.Evaluations() != 2 || sess.Display() != "2" {
		t.Fatalf("paste handling: buffer %q evals %d display %q", sess.Buffer(), sess.Evaluations(), sess.Display())
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true})
	if sess.Buffer() != "wc" {
		t.Fatalf("alt chord must be ignored, got %q", sess.Buffer())
	}
	_ = m
}

func TestCanvas_TruncationAndCursor(t *testing.T) {
	c := newCanvas("> ", plainStyles())
	c.Resize(6, 2)
	c.WriteAt(0, 0, "abc…")
	c.WriteAt(1, 0, "> ab")
	c.MoveCursor(1, 2)
	if err := c.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	lines := strings.Split(c.Frame(), "\n")
	if lines[0] != "abc…" || lines[1] != "> ab" {
		t.Fatalf("unexpected frame %q", lines)
	}
	c.MoveCursor(1, 0)
	c.ClearToEOL()
	if c.rows[1] != "" {
		t.Fatalf("clear to eol left %q", c.rows[1])
	}
	c.WriteAt(1, 3, "x")
	if c.rows[1] != "   x" {
		t.Fatalf("write past end must pad, got %q", c.rows[1])
	}
	c.WriteAt(5, 0, "ignored")
}

func TestModel_PlaceholderIsMuted(t *testing.T) {
	m, _ := newTestModel("", tableEval{"echo": "\n"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 30, Height: 3})
	if !m.screen.muted {
		t.Fatalf("placeholder rows must be drawn muted")
	}
	if frameLines(m)[0] != session.DefaultPlaceholder {
		t.Fatalf("unexpected placeholder row %q", frameLines(m)[0])
	}
	m = typeRunes(t, m, "echo")
	if m.screen.muted {
		t.Fatalf("command output must not be muted")
	}
}

func TestCanvas_WideRunesKeepCursorAligned(t *testing.T) {
	c := newCanvas("> ", plainStyles())
	c.Resize(8, 1)
	c.WriteAt(0, 0, "> 日本")
	if c.col != 6 {
		t.Fatalf("wide runes must advance two cells each, cursor at %d", c.col)
	}
	c.MoveCursor(0, 4)
	if err := c.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if c.Frame() != "> 日本" {
		t.Fatalf("cursor overlay shifted the row: %q", c.Frame())
	}
	if got := cut("> 日本", 3); got != "> " {
		t.Fatalf("cut must not split a wide rune, got %q", got)
	}
}
