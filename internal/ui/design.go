package ui

import "github.com/charmbracelet/lipgloss"

// Design centralizes the TUI colors.
//
// Palette is based on Vitesse Dark Soft:
// https://github.com/antfu/vscode-theme-vitesse/blob/main/themes/vitesse-dark-soft.json
type designTheme struct {
	Primary lipgloss.Color // #4d9375
	Yellow  lipgloss.Color // #e6cc77
	Muted   lipgloss.Color // #dedcd590
	Text    lipgloss.Color // #dbd7caee
}

// Vitesse is the theme used by the preview screen.
var Vitesse = designTheme{
	Primary: lipgloss.Color("#4d9375"),
	Yellow:  lipgloss.Color("#e6cc77"),
	Muted:   lipgloss.Color("#dedcd590"),
	Text:    lipgloss.Color("#dbd7caee"),
}

// styles applied by the canvas when it composes a frame
type styles struct {
	Prompt      lipgloss.Style
	Marker      lipgloss.Style
	Cursor      lipgloss.Style
	Output      lipgloss.Style
	Placeholder lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Prompt:      lipgloss.NewStyle().Bold(true).Foreground(Vitesse.Primary),
		Marker:      lipgloss.NewStyle().Foreground(Vitesse.Yellow),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Output:      lipgloss.NewStyle().Foreground(Vitesse.Text),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(Vitesse.Muted),
	}
}

// plainStyles renders everything unstyled; used by tests.
func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{Prompt: plain, Marker: plain, Cursor: plain, Output: plain, Placeholder: plain}
}
