package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-practice/practice"
	"go-practice/tempo"
	"go-practice/trainer"
	"go-practice/widgets"
)

const progressWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	var out strings.Builder
	out.WriteString("\n")

	if !m.Shell.Expanded() {
		out.WriteString(headerStyle.Render(fmt.Sprintf("%c go-practice  %s", m.Theme.Symbols.Collapsed, m.summary())))
		out.WriteString("\n\n")
		out.WriteString(m.help.View(m.keys.help(m.Shell.Tab(), false)))
		return out.String()
	}

	out.WriteString(headerStyle.Render("go-practice  " + m.summary()))
	out.WriteString("\n\n")
	out.WriteString(m.tabs())
	out.WriteString("\n\n")

	switch m.Shell.Tab() {
	case practice.TabTrainer:
		out.WriteString(m.trainerView())
	case practice.TabLoop:
		out.WriteString(m.loopView())
	default:
		out.WriteString(m.metronomeView())
	}
	out.WriteString("\n\n")

	if m.inputFor != inputNone {
		out.WriteString(m.input.View())
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(statusStyle.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(dimStyle.Render(m.help.View(m.keys.help(m.Shell.Tab(), true))))
	return out.String()
}

// summary is the always-visible tempo line
func (m Model) summary() string {
	st := m.Shell.MetronomeState()
	play := "STOP"
	if st.Running {
		play = "PLAY"
	}
	return fmt.Sprintf("%s  %3dbpm  %s", play, st.BPM, st.TimeSignature)
}

func (m Model) tabs() string {
	active := lipgloss.NewStyle().Foreground(m.Theme.Active()).Bold(true).Underline(true)
	idle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	current := m.Shell.Tab()
	parts := make([]string, 0, len(practice.Tabs))
	for _, t := range practice.Tabs {
		if t == current {
			parts = append(parts, active.Render(t.String()))
		} else {
			parts = append(parts, idle.Render(t.String()))
		}
	}
	return strings.Join(parts, "   ")
}

func (m Model) row(label, value string) string {
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted()).Width(10)
	return "  " + labelStyle.Render(label) + value
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m Model) metronomeView() string {
	st := m.Shell.MetronomeState()
	lines := []string{
		"  " + widgets.RenderBeats(m.Theme, widgets.BeatState{
			Beats:   st.TimeSignature.Beats,
			Current: st.CurrentBeat,
			Running: st.Running,
			Accent:  st.Accent,
		}),
		"",
		m.row("Tempo", fmt.Sprintf("%d bpm  %s", st.BPM, tempo.Marking(st.BPM))),
		m.row("Meter", st.TimeSignature.String()),
		m.row("Accent", onOff(st.Accent)),
		m.row("Volume", fmt.Sprintf("%.0f%%", st.Volume*100)),
	}
	return strings.Join(lines, "\n")
}

func (m Model) trainerView() string {
	st := m.Shell.TrainerState()
	s := st.Schedule

	lines := []string{
		m.row("Status", st.Status().String()),
		m.row("Schedule", fmt.Sprintf("%d → %d bpm, +%d, ×%d", s.StartBPM, s.TargetBPM, s.IncrementBPM, s.Repetitions)),
	}
	if !st.CanStart() {
		lines = append(lines, m.row("", "target must be above start"))
	}
	lines = append(lines,
		m.row("Tempo", fmt.Sprintf("%d bpm", st.CurrentBPM)),
		m.row("Step", fmt.Sprintf("%d/%d", st.CurrentStep(), st.TotalSteps())),
		m.row("Rep", m.repLabel(st)),
		m.row("Progress", widgets.RenderProgress(m.Theme, st.Progress(), progressWidth)),
	)
	return strings.Join(lines, "\n")
}

func (m Model) repLabel(st trainer.State) string {
	if !st.Training {
		return "-"
	}
	return fmt.Sprintf("%d/%d", st.CurrentRepetition+1, st.Schedule.Repetitions)
}

func (m Model) loopView() string {
	snap := m.Shell.LoopSnapshot()

	selecting := "-"
	if snap.Selecting {
		selecting = snap.SelectionMode.String()
	}

	lines := []string{
		m.row("Range", widgets.LoopRange(snap)),
		m.row("Loop", onOff(snap.Enabled)),
		m.row("Laps", widgets.LoopCount(snap)),
		m.row("Max laps", widgets.MaxLoopsLabel(snap.MaxLoops)),
		m.row("Picking", selecting),
		m.row("Notes", fmt.Sprintf("%d", snap.TotalNotes)),
	}
	return strings.Join(lines, "\n")
}
