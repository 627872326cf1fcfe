package widgets

import (
	"fmt"

	"go-practice/loop"
	"go-practice/tempo"
)

// NoteLabel shows a zero-based index as the one-based note number
func NoteLabel(o tempo.Optional) string {
	if v, ok := o.Unpack(); ok {
		return fmt.Sprintf("%d", v+1)
	}
	return "-"
}

// LoopRange renders "start → end (n notes)" in one-based numbering
func LoopRange(s loop.Snapshot) string {
	if !s.HasValidLoop {
		return fmt.Sprintf("%s → %s", NoteLabel(s.LoopStart), NoteLabel(s.LoopEnd))
	}
	noun := "notes"
	if s.LoopLength == 1 {
		noun = "note"
	}
	return fmt.Sprintf("%s → %s (%d %s)", NoteLabel(s.LoopStart), NoteLabel(s.LoopEnd), s.LoopLength, noun)
}

// LoopCount renders the lap counter, "∞" for unbounded
func LoopCount(s loop.Snapshot) string {
	if s.MaxLoops == 0 {
		return fmt.Sprintf("%d / ∞", s.LoopCount)
	}
	return fmt.Sprintf("%d / %d", s.LoopCount, s.MaxLoops)
}

// MaxLoopsLabel renders a lap limit choice
func MaxLoopsLabel(n int) string {
	if n == 0 {
		return "∞"
	}
	return fmt.Sprintf("%d", n)
}
