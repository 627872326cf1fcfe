package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"go-practice/practice"
)

func newKey(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

type globalKeys struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Collapse key.Binding
	Help     key.Binding
}

type metronomeKeys struct {
	Toggle    key.Binding
	Tap       key.Binding
	Up        key.Binding
	Down      key.Binding
	UpFive    key.Binding
	DownFive  key.Binding
	EnterBPM  key.Binding
	NextMeter key.Binding
	PrevMeter key.Binding
	Accent    key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
}

type trainerKeys struct {
	StartPause key.Binding
	Stop       key.Binding
	Rep        key.Binding
	Next       key.Binding
	Prev       key.Binding
	Reset      key.Binding
	Edit       key.Binding
}

type loopKeys struct {
	SelStart   key.Binding
	SelEnd     key.Binding
	Cancel     key.Binding
	Note       key.Binding
	Toggle     key.Binding
	Clear      key.Binding
	MaxLoops   key.Binding
	Bars       key.Binding
	Lap        key.Binding
	TotalNotes key.Binding
}

type keyMap struct {
	global    globalKeys
	metronome metronomeKeys
	trainer   trainerKeys
	loop      loopKeys
}

func defaultKeyMap() keyMap {
	return keyMap{
		global: globalKeys{
			Quit:     newKey("quit", "q", "ctrl+c"),
			NextTab:  newKey("next tab", "tab"),
			PrevTab:  newKey("prev tab", "shift+tab"),
			Collapse: newKey("collapse", "x"),
			Help:     newKey("more", "?"),
		},
		metronome: metronomeKeys{
			Toggle:    newKey("start/stop", " ", "space"),
			Tap:       newKey("tap", "t"),
			Up:        newKey("+1 bpm", "up", "k"),
			Down:      newKey("-1 bpm", "down", "j"),
			UpFive:    newKey("+5 bpm", "+", "="),
			DownFive:  newKey("-5 bpm", "-", "_"),
			EnterBPM:  newKey("type bpm", "b"),
			NextMeter: newKey("meter", "m"),
			PrevMeter: newKey("meter back", "M"),
			Accent:    newKey("accent", "a"),
			VolUp:     newKey("vol up", "]"),
			VolDown:   newKey("vol down", "["),
		},
		trainer: trainerKeys{
			StartPause: newKey("start/pause", " ", "space"),
			Stop:       newKey("stop", "s"),
			Rep:        newKey("rep done", "r"),
			Next:       newKey("next speed", "n"),
			Prev:       newKey("prev speed", "p"),
			Reset:      newKey("reset", "R"),
			Edit:       newKey("edit schedule", "e"),
		},
		loop: loopKeys{
			SelStart:   newKey("pick start", "s"),
			SelEnd:     newKey("pick end", "e"),
			Cancel:     newKey("cancel pick", "esc"),
			Note:       newKey("note #", "n"),
			Toggle:     newKey("loop on/off", " ", "space"),
			Clear:      newKey("clear", "c"),
			MaxLoops:   newKey("max laps", "m"),
			Bars:       newKey("bars", "1", "2", "4", "8"),
			Lap:        newKey("lap done", "l"),
			TotalNotes: newKey("score length", "N"),
		},
	}
}

// tabHelp adapts one tab's bindings to help.KeyMap
type tabHelp struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h tabHelp) ShortHelp() []key.Binding  { return h.short }
func (h tabHelp) FullHelp() [][]key.Binding { return h.full }

func (k keyMap) help(tab practice.Tab, expanded bool) tabHelp {
	g := k.global
	if !expanded {
		return tabHelp{
			short: []key.Binding{newKey("expand", "x"), g.Quit},
			full:  [][]key.Binding{{newKey("expand", "x"), g.Quit}},
		}
	}
	nav := []key.Binding{g.NextTab, g.PrevTab, g.Collapse, g.Help, g.Quit}

	switch tab {
	case practice.TabTrainer:
		t := k.trainer
		return tabHelp{
			short: []key.Binding{t.StartPause, t.Rep, t.Stop, g.NextTab, g.Help, g.Quit},
			full: [][]key.Binding{
				{t.StartPause, t.Stop, t.Reset},
				{t.Rep, t.Next, t.Prev},
				{t.Edit},
				nav,
			},
		}
	case practice.TabLoop:
		l := k.loop
		return tabHelp{
			short: []key.Binding{l.SelStart, l.SelEnd, l.Note, l.Toggle, g.NextTab, g.Help, g.Quit},
			full: [][]key.Binding{
				{l.SelStart, l.SelEnd, l.Cancel, l.Note},
				{l.Toggle, l.Clear, l.MaxLoops, l.Bars},
				{l.Lap, l.TotalNotes},
				nav,
			},
		}
	default:
		m := k.metronome
		return tabHelp{
			short: []key.Binding{m.Toggle, m.Tap, m.Up, m.Down, g.NextTab, g.Help, g.Quit},
			full: [][]key.Binding{
				{m.Toggle, m.Tap, m.EnterBPM},
				{m.Up, m.Down, m.UpFive, m.DownFive},
				{m.NextMeter, m.PrevMeter, m.Accent, m.VolUp, m.VolDown},
				nav,
			},
		}
	}
}
