package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sumblocks/internal/core"
)

// highlightText is the foreground drawn on highlighted cells.
const highlightText = lipgloss.Color("0")

// colorStyles holds one lipgloss style per palette entry.
var colorStyles = buildStyles()

func buildStyles() map[core.Color]lipgloss.Style {
	styles := make(map[core.Color]lipgloss.Style)
	for _, c := range core.Colors() {
		styles[c] = styleFor(c)
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	code := c.ANSI()
	if code == "" {
		return style
	}
	if c.Highlight() {
		return style.Foreground(highlightText).Background(lipgloss.Color(code)).Bold(true)
	}
	return style.Foreground(lipgloss.Color(code))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Each line is split into runs of one color so a style is applied once per run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}

		run.Reset()
		current := core.ColorDefault
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != current && run.Len() > 0 {
				sb.WriteString(renderRun(current, run.String()))
				run.Reset()
			}
			current = cell.Color
			run.WriteRune(cell.Rune)
		}
		if run.Len() > 0 {
			sb.WriteString(renderRun(current, run.String()))
		}
	}
	return sb.String()
}

func renderRun(c core.Color, text string) string {
	style, ok := colorStyles[c]
	if !ok {
		return text
	}
	return style.Render(text)
}
