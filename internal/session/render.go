package session

import (
	"strings"
	"unicode"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Screen is the drawing surface of a terminal host. Rows and columns are
// zero-based cells.
type Screen interface {
	Size() (width, height int)
	Clear()
	WriteAt(row, col int, text string)
	MoveCursor(row, col int)
	ClearToEOL()
	Refresh() error
}

// TruncationMarker ends output lines that were cut at the viewport width.
const TruncationMarker = "…"

const tabWidth = 8

// Render paints the output lines that fit above the input row, then the
// prompt row with the cursor after the last buffer rune.
func Render(scr Screen, prompt, buffer, display string) error {
	width, height := scr.Size()
	scr.Clear()
	if width <= 0 || height <= 0 {
		return scr.Refresh()
	}
	inputRow := height - 1
	for i, line := range Lines(display, inputRow) {
		scr.WriteAt(i, 0, FitLine(line, width))
	}
	text, col := PromptLine(prompt, buffer, width)
	scr.MoveCursor(inputRow, 0)
	scr.ClearToEOL()
	scr.WriteAt(inputRow, 0, text)
	scr.MoveCursor(inputRow, col)
	return scr.Refresh()
}

// Lines splits output into at most max sanitized lines.
func Lines(output string, max int) []string {
	if max <= 0 {
		return nil
	}
	lines := strings.SplitN(output, "\n", max+1)
	if len(lines) > max {
		lines = lines[:max]
	}
	for i, ln := range lines {
		lines[i] = Sanitize(ln)
	}
	return lines
}

// Sanitize makes one output line safe to draw: escape sequences are
// stripped, tabs expanded and remaining control characters dropped.
func Sanitize(line string) string {
	line = strings.ToValidUTF8(line, "�")
	if strings.IndexByte(line, 0x1b) >= 0 {
		line = xansi.Strip(line)
	}
	var b strings.Builder
	b.Grow(len(line))
	// col is the width up to seg, the start of the run since the last tab
	col, seg := 0, 0
	for _, r := range line {
		switch {
		case r == '\t':
			col += xansi.StringWidth(b.String()[seg:])
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			seg = b.Len()
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FitLine truncates line to width cells, ending it with the truncation
// marker when it was wider than that.
func FitLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(line) <= width {
		return line
	}
	if width == 1 {
		return TruncationMarker
	}
	return xansi.Truncate(line, width, TruncationMarker)
}

// PromptLine returns the text of the input row and the cursor column. When
// the buffer does not fit, its tail is shown behind the truncation marker so
// the cursor stays on screen.
func PromptLine(prompt, buffer string, width int) (string, int) {
	pw := xansi.StringWidth(prompt)
	// one cell stays free for the cursor
	avail := width - pw - 1
	if avail < 0 {
		avail = 0
	}
	if xansi.StringWidth(buffer) > avail {
		if avail == 0 {
			buffer = ""
		} else {
			buffer = TruncationMarker + tail(buffer, avail-1)
		}
	}
	col := pw + xansi.StringWidth(buffer)
	if width > 0 && col > width-1 {
		col = width - 1
	}
	return prompt + buffer, col
}

// tail returns the longest suffix of s at most w cells wide. It cuts on
// grapheme boundaries, measured the way xansi.StringWidth measures.
func tail(s string, w int) string {
	var starts, widths []int
	off, state, rest := 0, -1, s
	for rest != "" {
		var cluster string
		var cw int
		cluster, rest, cw, state = uniseg.FirstGraphemeClusterInString(rest, state)
		starts = append(starts, off)
		widths = append(widths, cw)
		off += len(cluster)
	}
	used, i := 0, len(widths)
	for i > 0 && used+widths[i-1] <= w {
		used += widths[i-1]
		i--
	}
	if i == len(starts) {
		return ""
	}
	return s[starts[i]:]
}
