package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-practice/theme"
)

// RenderProgress renders a bar of width cells for pct in [0,100] followed by
// the rounded percentage.
func RenderProgress(th *theme.Theme, pct float64, width int) string {
	pct = min(max(pct, 0), 100)
	if width < 1 {
		width = 1
	}
	filled := int(pct / 100 * float64(width))

	full := lipgloss.NewStyle().Foreground(th.Success()).
		Render(strings.Repeat(string(th.Symbols.BarFull), filled))
	empty := lipgloss.NewStyle().Foreground(th.Muted()).
		Render(strings.Repeat(string(th.Symbols.BarEmpty), width-filled))
	return fmt.Sprintf("%s%s %3.0f%%", full, empty, pct)
}
