package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"go-practice/loop"
	"go-practice/practice"
	"go-practice/theme"
	"go-practice/trainer"
)

// inputKind is what the text field is collecting
type inputKind int

const (
	inputNone inputKind = iota
	inputBPM
	inputNote
	inputSchedule
	inputTotalNotes
)

func (k inputKind) prompt() string {
	switch k {
	case inputBPM:
		return "bpm: "
	case inputNote:
		return "note #: "
	case inputSchedule:
		return "start target step reps: "
	case inputTotalNotes:
		return "notes in score: "
	}
	return ""
}

type Model struct {
	Shell *practice.Shell
	Theme *theme.Theme

	keys     keyMap
	help     help.Model
	input    textinput.Model
	inputFor inputKind
	status   string
	quitting bool
	width    int
}

type UpdateMsg struct{}

func NewModel(shell *practice.Shell, th *theme.Theme) Model {
	ti := textinput.New()
	ti.CharLimit = 24
	ti.Width = 24

	if th == nil {
		th = theme.New(nil)
	}
	return Model{
		Shell: shell,
		Theme: th,
		keys:  defaultKeyMap(),
		help:  help.New(),
		input: ti,
	}
}

func ListenForUpdates(shell *practice.Shell) tea.Cmd {
	return func() tea.Msg {
		<-shell.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Shell)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Shell)

	case tea.KeyMsg:
		if m.inputFor != inputNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.keys.global
	switch {
	case key.Matches(msg, g.Quit):
		m.quitting = true
		m.Shell.StopMetronome()
		return m, tea.Quit
	case key.Matches(msg, g.Collapse):
		m.Shell.ToggleExpanded()
		return m, nil
	}

	// Collapsed is one affordance; the aids keep state but take no keys
	if !m.Shell.Expanded() {
		return m, nil
	}

	switch {
	case key.Matches(msg, g.NextTab):
		m.Shell.NextTab()
		m.status = ""
		return m, nil
	case key.Matches(msg, g.PrevTab):
		m.Shell.PrevTab()
		m.status = ""
		return m, nil
	case key.Matches(msg, g.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.Shell.Tab() {
	case practice.TabTrainer:
		return m.handleTrainerKey(msg)
	case practice.TabLoop:
		return m.handleLoopKey(msg)
	default:
		return m.handleMetronomeKey(msg)
	}
}

func (m Model) handleMetronomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.metronome
	switch {
	case key.Matches(msg, k.Toggle):
		m.Shell.ToggleMetronome()
	case key.Matches(msg, k.Tap):
		if bpm, ok := m.Shell.TapTempo(); ok {
			m.status = fmt.Sprintf("tap: %d bpm", bpm)
		} else {
			m.status = "tap again..."
		}
	case key.Matches(msg, k.Up):
		m.Shell.NudgeTempo(1)
	case key.Matches(msg, k.Down):
		m.Shell.NudgeTempo(-1)
	case key.Matches(msg, k.UpFive):
		m.Shell.NudgeTempo(5)
	case key.Matches(msg, k.DownFive):
		m.Shell.NudgeTempo(-5)
	case key.Matches(msg, k.EnterBPM):
		return m.openInput(inputBPM, strconv.Itoa(m.Shell.Tempo()))
	case key.Matches(msg, k.NextMeter):
		m.Shell.CycleTimeSignature(true)
	case key.Matches(msg, k.PrevMeter):
		m.Shell.CycleTimeSignature(false)
	case key.Matches(msg, k.Accent):
		m.Shell.ToggleAccent()
	case key.Matches(msg, k.VolUp):
		m.Shell.NudgeVolume(0.1)
	case key.Matches(msg, k.VolDown):
		m.Shell.NudgeVolume(-0.1)
	}
	return m, nil
}

func (m Model) handleTrainerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.trainer
	switch {
	case key.Matches(msg, k.StartPause):
		st := m.Shell.TrainerState()
		switch {
		case st.Training:
			m.Shell.DispatchTrainer(trainer.TogglePause{})
		case !st.CanStart():
			m.status = "target must be above start"
		default:
			m.Shell.DispatchTrainer(trainer.Start{})
		}
	case key.Matches(msg, k.Stop):
		m.Shell.DispatchTrainer(trainer.Stop{})
	case key.Matches(msg, k.Rep):
		if st := m.Shell.CompleteRepetition(); st.Status() == trainer.Done {
			m.status = fmt.Sprintf("reached %d bpm", st.Schedule.TargetBPM)
		}
	case key.Matches(msg, k.Next):
		m.Shell.DispatchTrainer(trainer.NextSpeed{})
	case key.Matches(msg, k.Prev):
		m.Shell.DispatchTrainer(trainer.PrevSpeed{})
	case key.Matches(msg, k.Reset):
		m.Shell.DispatchTrainer(trainer.Reset{})
		m.status = ""
	case key.Matches(msg, k.Edit):
		st := m.Shell.TrainerState()
		if st.Training {
			m.status = "stop the trainer to edit"
			return m, nil
		}
		s := st.Schedule
		return m.openInput(inputSchedule, fmt.Sprintf("%d %d %d %d", s.StartBPM, s.TargetBPM, s.IncrementBPM, s.Repetitions))
	}
	return m, nil
}

func (m Model) handleLoopKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.loop
	switch {
	case key.Matches(msg, k.SelStart):
		m.Shell.StartSelecting(loop.ModeStart)
		return m.openInput(inputNote, "")
	case key.Matches(msg, k.SelEnd):
		m.Shell.StartSelecting(loop.ModeEnd)
		return m.openInput(inputNote, "")
	case key.Matches(msg, k.Cancel):
		m.Shell.StopSelecting()
	case key.Matches(msg, k.Note):
		if !m.Shell.LoopSnapshot().Selecting {
			m.status = "pick start or end first"
			return m, nil
		}
		return m.openInput(inputNote, "")
	case key.Matches(msg, k.Toggle):
		if snap := m.Shell.ToggleLoop(); !snap.HasValidLoop {
			m.status = "set start and end first"
		}
	case key.Matches(msg, k.Clear):
		m.Shell.ClearLoop()
		m.status = ""
	case key.Matches(msg, k.MaxLoops):
		m.Shell.CycleMaxLoops()
	case key.Matches(msg, k.Bars):
		bars := int(msg.String()[0] - '0')
		if snap := m.Shell.SetLoopByBars(bars); snap.LoopStart.Empty() {
			m.status = "set a start note first"
		}
	case key.Matches(msg, k.Lap):
		if snap, halted := m.Shell.LapComplete(); halted {
			m.status = fmt.Sprintf("loop done after %d laps", snap.LoopCount)
		}
	case key.Matches(msg, k.TotalNotes):
		return m.openInput(inputTotalNotes, strconv.Itoa(m.Shell.TotalNotes()))
	}
	return m, nil
}

func (m Model) openInput(kind inputKind, value string) (tea.Model, tea.Cmd) {
	m.inputFor = kind
	m.input.Prompt = kind.prompt()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.status = ""
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) closeInput() Model {
	m.inputFor = inputNone
	m.input.Blur()
	m.input.Reset()
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.inputFor == inputNote {
			m.Shell.StopSelecting()
		}
		return m.closeInput(), nil
	case tea.KeyEnter:
		m = m.submit(strings.TrimSpace(m.input.Value()))
		return m.closeInput(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies the typed value. Parse failures leave state unchanged.
func (m Model) submit(value string) Model {
	switch m.inputFor {
	case inputBPM:
		n, err := strconv.Atoi(value)
		if err != nil {
			m.status = "not a number: " + value
			return m
		}
		m.Shell.SetTempo(n)

	case inputNote:
		n, err := strconv.Atoi(value)
		if err != nil {
			m.Shell.StopSelecting()
			m.status = "not a note number: " + value
			return m
		}
		// shown one-based, stored zero-based
		m.Shell.NoteClicked(n - 1)

	case inputSchedule:
		s, err := parseSchedule(value)
		if err != nil {
			m.status = err.Error()
			return m
		}
		st := m.Shell.DispatchTrainer(trainer.SetSchedule{Schedule: s})
		if !st.CanStart() {
			m.status = "target must be above start"
		}

	case inputTotalNotes:
		n, err := strconv.Atoi(value)
		if err != nil {
			m.status = "not a number: " + value
			return m
		}
		m.Shell.SetTotalNotes(n)
	}
	return m
}

// parseSchedule reads "start target step reps", separated by spaces or commas
func parseSchedule(value string) (trainer.Schedule, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 4 {
		return trainer.Schedule{}, errors.Errorf("want 4 numbers, got %d", len(fields))
	}
	var nums [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return trainer.Schedule{}, errors.Errorf("not a number: %s", f)
		}
		nums[i] = n
	}
	return trainer.Schedule{
		StartBPM:     nums[0],
		TargetBPM:    nums[1],
		IncrementBPM: nums[2],
		Repetitions:  nums[3],
	}.Normalize(), nil
}
