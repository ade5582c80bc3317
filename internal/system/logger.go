package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger. stdout carries the screen and
// stderr carries the confirmed command, so it stays silent until
// SetupLogger points it at a file.
var Logger = clog.NewWithOptions(io.Discard, clog.Options{
	ReportTimestamp: true,
	Prefix:          "pipepeek",
})

// SetupLogger directs Logger to path at the given level. An empty path keeps
// the logger discarding. The returned func closes the log file.
func SetupLogger(path, level string) (func() error, error) {
	noop := func() error { return nil }
	if strings.TrimSpace(level) != "" {
		lvl, err := clog.ParseLevel(level)
		if err != nil {
			return noop, fmt.Errorf("log level: %w", err)
		}
		Logger.SetLevel(lvl)
	}
	if strings.TrimSpace(path) == "" {
		Logger.SetOutput(io.Discard)
		return noop, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return noop, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return noop, err
	}
	Logger.SetOutput(f)
	return func() error {
		Logger.SetOutput(io.Discard)
		return f.Close()
	}, nil
}
