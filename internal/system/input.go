package system

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// TTYPath is the controlling terminal used when stdin or stdout is redirected.
const TTYPath = "/dev/tty"

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// CaptureInput reads f to EOF, unless it is a terminal: an interactive stdin
// carries no payload and yields nil.
func CaptureInput(f *os.File) ([]byte, error) {
	if IsTerminal(f) {
		return nil, nil
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

// ReadInputFile loads the session input from a file instead of stdin.
func ReadInputFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return b, nil
}

// OpenTTY opens the controlling terminal for reading and writing.
func OpenTTY() (*os.File, error) {
	f, err := os.OpenFile(TTYPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", TTYPath, err)
	}
	return f, nil
}
