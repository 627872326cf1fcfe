package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-practice/theme"
)

// BeatState is what the indicator needs from the metronome
type BeatState struct {
	Beats   int  // circles to draw
	Current int  // highlighted circle when running
	Running bool // nothing is highlighted while stopped
	Accent  bool // first circle is drawn distinct
}

// RenderBeat renders a single beat circle
func RenderBeat(th *theme.Theme, index int, s BeatState) string {
	active := s.Running && index == s.Current
	sym := th.Symbols.BeatIdle
	color := th.Muted()
	switch {
	case active:
		sym = th.Symbols.BeatActive
		color = th.Active()
		if index == 0 && s.Accent {
			color = th.Warning()
		}
	case index == 0 && s.Accent:
		sym = th.Symbols.BeatAccent
		color = th.Accent()
	}
	style := lipgloss.NewStyle().Foreground(color)
	if active {
		style = style.Bold(true)
	}
	return style.Render(string(sym))
}

// RenderBeats renders one circle per beat in the measure
func RenderBeats(th *theme.Theme, s BeatState) string {
	var out strings.Builder
	for i := 0; i < s.Beats; i++ {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderBeat(th, i, s))
	}
	return out.String()
}
