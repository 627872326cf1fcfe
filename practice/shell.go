// Package practice is the host shell around the practice aids. It owns the
// shared tempo, meter and note count, routes tempo changes between the speed
// trainer, the metronome and the external player, and publishes loop state.
package practice

import (
	"sync"

	"go-practice/audio"
	"go-practice/debug"
	"go-practice/loop"
	"go-practice/metronome"
	"go-practice/tempo"
	"go-practice/trainer"
)

// Callbacks reach the external player. Any of them may be nil.
type Callbacks struct {
	OnBPMChange           func(bpm int)
	OnTimeSignatureChange func(ts tempo.TimeSignature)
	OnComplete            func()
	OnLoopChange          func(s loop.Snapshot)
}

type Options struct {
	Tempo         int
	TimeSignature tempo.TimeSignature
	TotalNotes    int
	Accent        bool
	Volume        float64
	Schedule      trainer.Schedule
	MaxLoops      int
	Tab           Tab
	Expanded      bool
	Clock         metronome.Clock // nil means wall clock
}

func DefaultOptions() Options {
	return Options{
		Tempo:         tempo.DefaultBPM,
		TimeSignature: tempo.CommonTime,
		TotalNotes:    64,
		Accent:        true,
		Volume:        0.5,
		Schedule:      trainer.DefaultSchedule(),
		Expanded:      true,
	}
}

// Shell is the single source of truth for the shared state
type Shell struct {
	tempo      int
	sig        tempo.TimeSignature
	totalNotes int
	tab        Tab
	expanded   bool

	metronome *metronome.Metronome
	trainer   *trainer.Trainer
	loop      *loop.Section

	callbacks Callbacks
	mu        sync.Mutex

	// Notify UI of updates
	UpdateChan chan struct{}
}

func New(clicker audio.Clicker, opts Options) *Shell {
	if !opts.TimeSignature.Valid() {
		opts.TimeSignature = tempo.CommonTime
	}
	opts.Tempo = tempo.Clamp(opts.Tempo)

	mopts := []metronome.Option{
		metronome.WithBPM(opts.Tempo),
		metronome.WithTimeSignature(opts.TimeSignature),
		metronome.WithAccent(opts.Accent),
		metronome.WithVolume(opts.Volume),
	}
	if opts.Clock != nil {
		mopts = append(mopts, metronome.WithClock(opts.Clock))
	}

	s := &Shell{
		tempo:      opts.Tempo,
		sig:        opts.TimeSignature,
		totalNotes: max(opts.TotalNotes, 0),
		tab:        opts.Tab,
		expanded:   opts.Expanded,
		metronome:  metronome.New(clicker, mopts...),
		trainer:    trainer.New(opts.Schedule),
		loop:       loop.New(opts.TotalNotes),
		UpdateChan: make(chan struct{}, 1),
	}
	s.loop.SetMaxLoops(opts.MaxLoops)
	s.metronome.OnBeat(func(metronome.Beat) { s.notifyUpdate() })
	return s
}

// SetCallbacks replaces the outgoing callbacks
func (s *Shell) SetCallbacks(cb Callbacks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = cb
}

func (s *Shell) cb() Callbacks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callbacks
}

// notifyUpdate wakes the UI without blocking
func (s *Shell) notifyUpdate() {
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}

// Close stops the metronome timer. All other state is plain memory.
func (s *Shell) Close() {
	s.metronome.Close()
}

// Tempo

func (s *Shell) Tempo() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tempo
}

// SetTempo is the one tempo setter every source goes through: metronome
// controls, tap tempo and the speed trainer.
func (s *Shell) SetTempo(bpm int) {
	s.setTempo(bpm, false)
}

// setTempo with force tells the player even when the tempo does not move.
// Trainer steps are announced that way so the player hears every one.
func (s *Shell) setTempo(bpm int, force bool) {
	bpm = tempo.Clamp(bpm)
	s.mu.Lock()
	if bpm == s.tempo && !force {
		s.mu.Unlock()
		return
	}
	s.tempo = bpm
	onChange := s.callbacks.OnBPMChange
	s.mu.Unlock()

	s.metronome.SetBPM(bpm)
	debug.Log("shell", "tempo=%d", bpm)
	if onChange != nil {
		onChange(bpm)
	}
	s.notifyUpdate()
}

// NudgeTempo adds delta BPM (the +/-1 and +/-5 buttons)
func (s *Shell) NudgeTempo(delta int) {
	s.SetTempo(s.Tempo() + delta)
}

// TapTempo feeds a tap to the metronome and adopts the resulting tempo.
func (s *Shell) TapTempo() (int, bool) {
	bpm, ok := s.metronome.TapTempo()
	if ok {
		s.SetTempo(bpm)
	}
	return bpm, ok
}

// Meter

func (s *Shell) TimeSignature() tempo.TimeSignature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sig
}

func (s *Shell) SetTimeSignature(ts tempo.TimeSignature) {
	if !ts.Valid() {
		return
	}
	s.mu.Lock()
	if ts == s.sig {
		s.mu.Unlock()
		return
	}
	s.sig = ts
	onChange := s.callbacks.OnTimeSignatureChange
	s.mu.Unlock()

	s.metronome.SetTimeSignature(ts)
	debug.Log("shell", "time signature=%s", ts)
	if onChange != nil {
		onChange(ts)
	}
	s.notifyUpdate()
}

// CycleTimeSignature steps through the recognised meters
func (s *Shell) CycleTimeSignature(forward bool) {
	ts := s.TimeSignature()
	if forward {
		s.SetTimeSignature(ts.Next())
	} else {
		s.SetTimeSignature(ts.Prev())
	}
}

// Metronome controls

func (s *Shell) Metronome() *metronome.Metronome {
	return s.metronome
}

func (s *Shell) MetronomeState() metronome.State {
	return s.metronome.State()
}

func (s *Shell) ToggleMetronome() {
	s.metronome.Toggle()
	s.notifyUpdate()
}

func (s *Shell) StopMetronome() {
	s.metronome.Stop()
	s.notifyUpdate()
}

func (s *Shell) ToggleAccent() {
	s.metronome.SetAccentEnabled(!s.metronome.AccentEnabled())
	s.notifyUpdate()
}

func (s *Shell) SetVolume(v float64) {
	s.metronome.SetVolume(v)
	s.notifyUpdate()
}

func (s *Shell) NudgeVolume(delta float64) {
	s.SetVolume(s.metronome.Volume() + delta)
}

// Speed trainer

func (s *Shell) TrainerState() trainer.State {
	return s.trainer.State()
}

// DispatchTrainer runs e through the trainer with the shell's routing bound:
// BPM changes go to SetTempo, completion goes to the external player.
func (s *Shell) DispatchTrainer(e trainer.Event) trainer.State {
	onComplete := s.cb().OnComplete
	st := s.trainer.Dispatch(e, trainer.Callbacks{
		OnBPMChange: func(bpm int) { s.setTempo(bpm, true) },
		OnComplete: func() {
			if onComplete != nil {
				onComplete()
			}
		},
	})
	s.notifyUpdate()
	return st
}

// CompleteRepetition is the player's signal that one pass at the current
// tempo finished.
func (s *Shell) CompleteRepetition() trainer.State {
	return s.DispatchTrainer(trainer.CompleteRepetition{})
}

// Loop section

func (s *Shell) LoopSnapshot() loop.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop.Snapshot()
}

// withLoop runs f on the loop section and publishes the result verbatim
func (s *Shell) withLoop(f func(l *loop.Section)) loop.Snapshot {
	s.mu.Lock()
	f(s.loop)
	snap := s.loop.Snapshot()
	onChange := s.callbacks.OnLoopChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(snap)
	}
	s.notifyUpdate()
	return snap
}

func (s *Shell) StartSelecting(mode loop.Mode) loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.StartSelecting(mode) })
}

func (s *Shell) StopSelecting() loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.StopSelecting() })
}

// NoteClicked delivers a note click from the player. It returns false when
// no endpoint selection was pending.
func (s *Shell) NoteClicked(index int) bool {
	consumed := false
	s.withLoop(func(l *loop.Section) { consumed = l.SelectNote(index) })
	return consumed
}

func (s *Shell) ClearLoop() loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.ClearLoop() })
}

func (s *Shell) ToggleLoop() loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.ToggleLoop() })
}

func (s *Shell) SetMaxLoops(n int) loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.SetMaxLoops(n) })
}

func (s *Shell) CycleMaxLoops() loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.CycleMaxLoops() })
}

// SetLoopByBars takes notes per bar from the current meter's beats per
// measure.
func (s *Shell) SetLoopByBars(bars int) loop.Snapshot {
	return s.withLoop(func(l *loop.Section) { l.SetLoopByBars(bars, s.sig.Beats) })
}

// LapComplete is the player's signal that one pass over the loop finished.
// When a bounded loop reaches its limit the shell switches it off.
func (s *Shell) LapComplete() (snap loop.Snapshot, halted bool) {
	snap = s.withLoop(func(l *loop.Section) {
		l.IncrementLoopCount()
		if l.Enabled() && l.LimitReached() {
			halted = l.ToggleLoop()
		}
	})
	if halted {
		debug.Log("shell", "loop halted after %d laps", snap.LoopCount)
	}
	return snap, halted
}

func (s *Shell) TotalNotes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalNotes
}

// SetTotalNotes follows the score length and re-clamps the loop.
func (s *Shell) SetTotalNotes(n int) loop.Snapshot {
	n = max(n, 0)
	return s.withLoop(func(l *loop.Section) {
		s.totalNotes = n
		l.SetTotalNotes(n)
	})
}

// Tabs and layout

func (s *Shell) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *Shell) SetTab(t Tab) {
	s.mu.Lock()
	s.tab = ParseTab(t.Key())
	s.mu.Unlock()
	debug.Log("focus", "tab=%s", t)
	s.notifyUpdate()
}

func (s *Shell) NextTab() { s.SetTab(s.Tab().next()) }
func (s *Shell) PrevTab() { s.SetTab(s.Tab().prev()) }

func (s *Shell) Expanded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded
}

// ToggleExpanded collapses or restores the panel. Purely visual.
func (s *Shell) ToggleExpanded() {
	s.mu.Lock()
	s.expanded = !s.expanded
	s.mu.Unlock()
	s.notifyUpdate()
}
