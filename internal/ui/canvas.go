package ui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"pipepeek/internal/session"
)

// canvas is an in-memory session.Screen. The session paints plain text into
// it; Refresh composes the styled frame that View returns.
type canvas struct {
	width, height int
	rows          []string
	row, col      int
	prompt        string
	styles        styles
	frame         string
	// muted draws the output rows in the placeholder style
	muted bool
}

var _ session.Screen = (*canvas)(nil)

func newCanvas(prompt string, st styles) *canvas {
	return &canvas{prompt: prompt, styles: st}
}

// Resize sets the viewport; the next paint starts from a blank grid.
func (c *canvas) Resize(width, height int) {
	c.width, c.height = width, height
	c.Clear()
}

// SetMuted selects the placeholder style for output rows.
func (c *canvas) SetMuted(muted bool) { c.muted = muted }

func (c *canvas) Size() (int, int) { return c.width, c.height }

func (c *canvas) Clear() {
	n := c.height
	if n < 0 {
		n = 0
	}
	c.rows = make([]string, n)
	c.row, c.col = 0, 0
}

// WriteAt places text at (row, col), discarding whatever was to its right.
func (c *canvas) WriteAt(row, col int, text string) {
	if row < 0 || row >= len(c.rows) {
		return
	}
	c.rows[row] = padTo(cut(c.rows[row], col), col) + text
	c.row, c.col = row, col+xansi.StringWidth(text)
}

func (c *canvas) MoveCursor(row, col int) { c.row, c.col = row, col }

func (c *canvas) ClearToEOL() {
	if c.row >= 0 && c.row < len(c.rows) {
		c.rows[c.row] = cut(c.rows[c.row], c.col)
	}
}

// Refresh composes the frame: output rows, the prompt marker and truncation
// markers are styled and the cursor cell is drawn in reverse video.
func (c *canvas) Refresh() error {
	lines := make([]string, len(c.rows))
	last := len(c.rows) - 1
	for i, ln := range c.rows {
		if i == c.row {
			lines[i] = c.composeCursorRow(ln, i == last)
			continue
		}
		lines[i] = c.styleLine(ln, i == last)
	}
	c.frame = strings.Join(lines, "\n")
	return nil
}

// Frame returns the last composed frame.
func (c *canvas) Frame() string { return c.frame }

// styleLine colors the prompt on the input row, and the text and a trailing
// truncation marker on output rows.
func (c *canvas) styleLine(ln string, input bool) string {
	if input {
		if c.prompt != "" && strings.HasPrefix(ln, c.prompt) {
			return c.styles.Prompt.Render(c.prompt) + ln[len(c.prompt):]
		}
		return ln
	}
	body, marker := ln, ""
	if strings.HasSuffix(ln, session.TruncationMarker) && xansi.StringWidth(ln) == c.width {
		body, marker = strings.TrimSuffix(ln, session.TruncationMarker), session.TruncationMarker
	}
	text := c.styles.Output
	if c.muted {
		text = c.styles.Placeholder
	}
	if body != "" {
		body = text.Render(body)
	}
	if marker != "" {
		marker = c.styles.Marker.Render(marker)
	}
	return body + marker
}

// composeCursorRow overlays an inverse-video cursor at c.col. If the column
// is past the end of the line, spaces are padded before the cursor cell.
func (c *canvas) composeCursorRow(ln string, input bool) string {
	before := cut(ln, c.col)
	rest := strings.TrimPrefix(ln, before)
	under := " "
	if rest != "" {
		under, rest, _, _ = uniseg.FirstGraphemeClusterInString(rest, -1)
	}
	return c.styleLine(padTo(before, c.col), input) + c.styles.Cursor.Render(under) + rest
}

// cut returns the prefix of s that fits in col cells.
func cut(s string, col int) string {
	if col <= 0 {
		return ""
	}
	return xansi.Truncate(s, col, "")
}

func padTo(s string, col int) string {
	if w := xansi.StringWidth(s); w < col {
		return s + strings.Repeat(" ", col-w)
	}
	return s
}
