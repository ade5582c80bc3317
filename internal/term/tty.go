// Package term is a raw-mode terminal host for the session loop. It draws with
// plain cursor-addressing escape sequences and decodes keys itself.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/muesli/cancelreader"
	xterm "golang.org/x/term"

	"pipepeek/internal/session"
)

const (
	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"
	seqClear        = "\x1b[H\x1b[2J"
	seqClearEOL     = "\x1b[K"
	seqShowCursor   = "\x1b[?25h"
)

// Fallback viewport when the size cannot be queried.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// TTY implements session.Terminal on a terminal device.
type TTY struct {
	keys    *keyDecoder
	writer  *bufio.Writer
	size    func() (int, int, error)
	restore func() error
	// cancel aborts a read blocked on the device
	cancel func()
}

var _ session.Terminal = (*TTY)(nil)

// Open puts f into raw mode and switches to the alternate screen. Reads go
// through a cancelable reader so Close can interrupt a pending ReadKey. The
// terminal is restored by Close, which callers must defer.
func Open(f *os.File) (*TTY, error) {
	in, err := cancelreader.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("tty reader: %w", err)
	}
	fd := int(f.Fd())
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	t := newTTY(in, f, func() (int, int, error) { return xterm.GetSize(fd) })
	t.restore = func() error { return xterm.Restore(fd, state) }
	t.cancel = func() {
		in.Cancel()
		_ = in.Close()
	}
	t.writer.WriteString(seqAltScreenOn)
	if err := t.writer.Flush(); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("enter alt screen: %w", err)
	}
	return t, nil
}

// newTTY wires a TTY over arbitrary streams; it does not touch terminal modes.
func newTTY(in io.Reader, out io.Writer, size func() (int, int, error)) *TTY {
	return &TTY{
		keys:   newKeyDecoder(in, escTimeout),
		writer: bufio.NewWriter(out),
		size:   size,
	}
}

// Close leaves the alternate screen, unblocks a pending ReadKey and restores
// the saved terminal mode. It is safe to call more than once.
func (t *TTY) Close() error {
	t.writer.WriteString(seqAltScreenOff)
	t.writer.WriteString(seqShowCursor)
	ferr := t.writer.Flush()
	t.keys.close()
	if t.cancel != nil {
		cancel := t.cancel
		t.cancel = nil
		cancel()
	}
	if t.restore != nil {
		restore := t.restore
		t.restore = nil
		if err := restore(); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
	}
	return ferr
}

func (t *TTY) Size() (int, int) {
	w, h, err := t.size()
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

func (t *TTY) Clear() { t.writer.WriteString(seqClear) }

func (t *TTY) WriteAt(row, col int, text string) {
	t.MoveCursor(row, col)
	t.writer.WriteString(text)
}

// MoveCursor takes zero-based coordinates.
func (t *TTY) MoveCursor(row, col int) {
	fmt.Fprintf(t.writer, "\x1b[%d;%dH", row+1, col+1)
}

func (t *TTY) ClearToEOL() { t.writer.WriteString(seqClearEOL) }

func (t *TTY) Refresh() error { return t.writer.Flush() }

func (t *TTY) ReadKey() (session.Key, error) { return t.keys.ReadKey() }
