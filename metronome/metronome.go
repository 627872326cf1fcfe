// Package metronome produces clicks at a tempo and meter, with an accented
// downbeat, tap tempo and tempo changes that take effect immediately.
package metronome

import (
	"sync"
	"time"

	"go-practice/audio"
	"go-practice/debug"
	"go-practice/tempo"
)

// Beat is published after each click. Index is the beat that just sounded.
type Beat struct {
	Index  int
	Beats  int
	Accent bool
	At     time.Time
}

// State is a snapshot for rendering
type State struct {
	BPM           int
	TimeSignature tempo.TimeSignature
	Running       bool
	CurrentBeat   int
	Accent        bool
	Volume        float64
}

type Metronome struct {
	clock   Clock
	clicker audio.Clicker

	bpm     int
	sig     tempo.TimeSignature
	accent  bool
	volume  float64
	running bool
	current int    // last published beat
	next    int    // beat the next tick sounds
	seq     uint64 // ticks started; a slow click must not publish over a newer beat

	timer Timer
	gen   uint64 // bumped on every cancel; stale ticks compare and bail
	taps  tapHistory

	listeners []func(Beat)
	beats     chan Beat

	mu sync.Mutex
}

type Option func(*Metronome)

func WithClock(c Clock) Option {
	return func(m *Metronome) { m.clock = c }
}

func WithBPM(bpm int) Option {
	return func(m *Metronome) { m.bpm = tempo.Clamp(bpm) }
}

func WithTimeSignature(ts tempo.TimeSignature) Option {
	return func(m *Metronome) {
		if ts.Valid() {
			m.sig = ts
		}
	}
}

func WithAccent(enabled bool) Option {
	return func(m *Metronome) { m.accent = enabled }
}

func WithVolume(v float64) Option {
	return func(m *Metronome) { m.volume = audio.ClampVolume(v) }
}

// New creates an idle metronome. A nil clicker is replaced by audio.Silent.
func New(clicker audio.Clicker, opts ...Option) *Metronome {
	if clicker == nil {
		clicker = audio.Silent{}
	}
	m := &Metronome{
		clock:   RealClock,
		clicker: clicker,
		bpm:     tempo.DefaultBPM,
		sig:     tempo.CommonTime,
		accent:  true,
		volume:  0.5,
		beats:   make(chan Beat, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnBeat registers f to be called after every click, outside the lock.
func (m *Metronome) OnBeat(f func(Beat)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, f)
}

// Beats delivers the latest beat. Slow readers only ever see the newest one.
func (m *Metronome) Beats() <-chan Beat {
	return m.beats
}

// Start sounds beat 0 immediately and then one beat per interval. No-op
// while running.
func (m *Metronome) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.current = 0
	m.next = 0
	m.gen++
	gen := m.gen
	bpm := m.bpm
	m.mu.Unlock()

	debug.Log("metronome", "start bpm=%d sig=%s", bpm, m.TimeSignature())
	m.tick(gen)
}

// Stop cancels the schedule and rewinds to beat 0. Idempotent.
func (m *Metronome) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	m.cancelLocked()
	m.current = 0
	m.next = 0
	debug.Log("metronome", "stop")
}

func (m *Metronome) Toggle() {
	if m.Running() {
		m.Stop()
	} else {
		m.Start()
	}
}

// Close stops the metronome and drops listeners. Ticks already in flight
// see the bumped generation and return without touching listeners.
func (m *Metronome) Close() {
	m.Stop()
	m.mu.Lock()
	m.listeners = nil
	m.mu.Unlock()
}

func (m *Metronome) cancelLocked() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// armLocked schedules the next tick one interval from now.
func (m *Metronome) armLocked() {
	gen := m.gen
	m.timer = m.clock.AfterFunc(tempo.Interval(m.bpm), func() { m.tick(gen) })
}

func (m *Metronome) tick(gen uint64) {
	m.mu.Lock()
	if !m.running || gen != m.gen {
		m.mu.Unlock()
		return
	}

	beat := m.next
	accent := beat == 0 && m.accent
	click := audio.BeatClick(accent, m.volume)
	b := Beat{
		Index:  beat,
		Beats:  m.sig.Beats,
		Accent: accent,
		At:     m.clock.Now(),
	}
	m.next = (beat + 1) % m.sig.Beats
	m.seq++
	seq := m.seq
	m.armLocked()
	listeners := append([]func(Beat){}, m.listeners...)
	m.mu.Unlock()

	// click first, then publish the beat that just sounded
	if err := m.clicker.Click(click); err != nil {
		debug.Warn("metronome", err, "click skipped beat=%d", beat)
	}

	m.mu.Lock()
	if m.running && gen == m.gen && seq == m.seq {
		m.current = beat
	}
	m.mu.Unlock()
	debug.LogEvery(16, "tick", "beat=%d accent=%v", beat, accent)

	for _, f := range listeners {
		f(b)
	}
	select {
	case <-m.beats:
	default:
	}
	select {
	case m.beats <- b:
	default:
	}
}

// SetBPM clamps bpm to the legal range. While running the pending tick is
// cancelled and the next one fires one new interval from now.
func (m *Metronome) SetBPM(bpm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setBPMLocked(bpm)
}

func (m *Metronome) setBPMLocked(bpm int) {
	bpm = tempo.Clamp(bpm)
	if bpm == m.bpm {
		return
	}
	m.bpm = bpm
	if m.running {
		m.cancelLocked()
		m.armLocked()
	}
	debug.Log("metronome", "bpm=%d running=%v", bpm, m.running)
}

// TapTempo records a tap. With at least two taps in the trailing window the
// mean interval becomes the new BPM, which is returned with ok=true.
func (m *Metronome) TapTempo() (bpm int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bpm, ok = m.taps.add(m.clock.Now())
	if !ok {
		return m.bpm, false
	}
	m.setBPMLocked(bpm)
	return m.bpm, true
}

// SetTimeSignature changes the meter. Beat counters past the new measure
// length wrap to the downbeat.
func (m *Metronome) SetTimeSignature(ts tempo.TimeSignature) {
	if !ts.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sig = ts
	if m.next >= ts.Beats {
		m.next = 0
	}
	if m.current >= ts.Beats {
		m.current = 0
	}
	debug.Log("metronome", "sig=%s", ts)
}

func (m *Metronome) SetAccentEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accent = enabled
}

func (m *Metronome) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = audio.ClampVolume(v)
}

func (m *Metronome) BPM() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bpm
}

func (m *Metronome) TimeSignature() tempo.TimeSignature {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sig
}

func (m *Metronome) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Metronome) CurrentBeat() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Metronome) AccentEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accent
}

func (m *Metronome) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Metronome) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		BPM:           m.bpm,
		TimeSignature: m.sig,
		Running:       m.running,
		CurrentBeat:   m.current,
		Accent:        m.accent,
		Volume:        m.volume,
	}
}
