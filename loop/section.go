// Package loop selects a contiguous range of note indices to repeat. It only
// holds state; the external player walks the range and reports laps.
package loop

import (
	"go-practice/debug"
	"go-practice/tempo"
)

type Mode int

const (
	ModeNone Mode = iota
	ModeStart
	ModeEnd
)

func (m Mode) String() string {
	switch m {
	case ModeStart:
		return "start"
	case ModeEnd:
		return "end"
	default:
		return "none"
	}
}

// MaxLoopChoices are the legal lap limits, 0 meaning unbounded.
var MaxLoopChoices = []int{0, 2, 4, 8, 16}

// Snapshot is what the section publishes
type Snapshot struct {
	LoopStart     tempo.Optional
	LoopEnd       tempo.Optional
	Enabled       bool
	HasValidLoop  bool
	LoopLength    int
	LoopCount     int
	MaxLoops      int
	Selecting     bool
	SelectionMode Mode
	TotalNotes    int
}

type Section struct {
	start, end tempo.Optional
	enabled    bool
	count      int
	maxLoops   int
	selecting  bool
	mode       Mode
	totalNotes int
}

func New(totalNotes int) *Section {
	return &Section{totalNotes: max(totalNotes, 0)}
}

// StartSelecting arms the next note click to set the given endpoint.
func (s *Section) StartSelecting(mode Mode) {
	if mode != ModeStart && mode != ModeEnd {
		return
	}
	s.selecting = true
	s.mode = mode
}

// StopSelecting cancels selection without touching the endpoints
func (s *Section) StopSelecting() {
	s.selecting = false
	s.mode = ModeNone
}

// SelectNote handles a note click. It returns false when no selection is
// pending and the click is not for us.
func (s *Section) SelectNote(index int) bool {
	if !s.selecting {
		return false
	}
	switch s.mode {
	case ModeStart:
		s.SetStart(index)
	case ModeEnd:
		s.SetEnd(index)
	}
	s.StopSelecting()
	return true
}

func (s *Section) clampIndex(index int) int {
	return max(min(index, s.totalNotes-1), 0)
}

// SetStart writes the start endpoint, clamped to the note range. If that
// puts start after end the two are swapped.
func (s *Section) SetStart(index int) {
	if s.totalNotes == 0 {
		return
	}
	s.start = tempo.Some(s.clampIndex(index))
	s.normalize()
}

func (s *Section) SetEnd(index int) {
	if s.totalNotes == 0 {
		return
	}
	s.end = tempo.Some(s.clampIndex(index))
	s.normalize()
}

// UnsetStart clears the start endpoint and disables the loop.
func (s *Section) UnsetStart() {
	s.start = tempo.None()
	s.enabled = false
}

func (s *Section) UnsetEnd() {
	s.end = tempo.None()
	s.enabled = false
}

func (s *Section) normalize() {
	a, okA := s.start.Unpack()
	b, okB := s.end.Unpack()
	if okA && okB && a > b {
		s.start, s.end = tempo.Some(b), tempo.Some(a)
	}
}

// ClearLoop forgets both endpoints, disables and zeroes the lap count.
func (s *Section) ClearLoop() {
	s.start = tempo.None()
	s.end = tempo.None()
	s.enabled = false
	s.count = 0
	debug.Log("loop", "cleared")
}

// ToggleLoop flips enabled. Ignored unless the loop is valid. Enabling starts
// a fresh lap count.
func (s *Section) ToggleLoop() bool {
	if !s.Valid() {
		return false
	}
	s.enabled = !s.enabled
	if s.enabled {
		s.count = 0
	}
	debug.Log("loop", "enabled=%v range=%d..%d", s.enabled, s.start.Value(), s.end.Value())
	return true
}

// SetMaxLoops accepts only MaxLoopChoices
func (s *Section) SetMaxLoops(n int) bool {
	for _, c := range MaxLoopChoices {
		if c == n {
			s.maxLoops = n
			return true
		}
	}
	return false
}

// CycleMaxLoops moves to the next lap limit, wrapping to unbounded.
func (s *Section) CycleMaxLoops() int {
	for i, c := range MaxLoopChoices {
		if c == s.maxLoops {
			s.maxLoops = MaxLoopChoices[(i+1)%len(MaxLoopChoices)]
			return s.maxLoops
		}
	}
	s.maxLoops = 0
	return 0
}

// SetLoopByBars sets the end so the loop covers bars measures from the
// start. A bar is assumed to hold notesPerBar notes, which callers take from
// the meter's beats per measure; that only matches scores with one note per
// beat. Requires a start endpoint.
func (s *Section) SetLoopByBars(bars, notesPerBar int) bool {
	start, ok := s.start.Unpack()
	if !ok || bars <= 0 || notesPerBar <= 0 {
		return false
	}
	s.SetEnd(start + bars*notesPerBar - 1)
	return true
}

// IncrementLoopCount records a lap reported by the player.
func (s *Section) IncrementLoopCount() int {
	s.count++
	return s.count
}

// LimitReached reports whether a bounded loop has run its laps
func (s *Section) LimitReached() bool {
	return s.maxLoops > 0 && s.count >= s.maxLoops
}

// SetTotalNotes resizes the note range and re-clamps the endpoints. An empty
// score clears the loop.
func (s *Section) SetTotalNotes(n int) {
	s.totalNotes = max(n, 0)
	if s.totalNotes == 0 {
		s.start = tempo.None()
		s.end = tempo.None()
		s.enabled = false
		return
	}
	if v, ok := s.start.Unpack(); ok {
		s.start = tempo.Some(s.clampIndex(v))
	}
	if v, ok := s.end.Unpack(); ok {
		s.end = tempo.Some(s.clampIndex(v))
	}
}

// Valid reports both endpoints set with start <= end
func (s *Section) Valid() bool {
	a, okA := s.start.Unpack()
	b, okB := s.end.Unpack()
	return okA && okB && a <= b && b < s.totalNotes
}

// Length is end-start+1, or 0 when the loop is not valid
func (s *Section) Length() int {
	if !s.Valid() {
		return 0
	}
	return s.end.Value() - s.start.Value() + 1
}

func (s *Section) Enabled() bool   { return s.enabled }
func (s *Section) Selecting() bool { return s.selecting }
func (s *Section) Mode() Mode      { return s.mode }
func (s *Section) MaxLoops() int   { return s.maxLoops }
func (s *Section) Count() int      { return s.count }
func (s *Section) TotalNotes() int { return s.totalNotes }

func (s *Section) Start() tempo.Optional { return s.start }
func (s *Section) End() tempo.Optional   { return s.end }

func (s *Section) Snapshot() Snapshot {
	return Snapshot{
		LoopStart:     s.start,
		LoopEnd:       s.end,
		Enabled:       s.enabled,
		HasValidLoop:  s.Valid(),
		LoopLength:    s.Length(),
		LoopCount:     s.count,
		MaxLoops:      s.maxLoops,
		Selecting:     s.selecting,
		SelectionMode: s.mode,
		TotalNotes:    s.totalNotes,
	}
}
