package metronome

import (
	"time"

	"go-practice/tempo"
)

const (
	TapWindow = 2 * time.Second
	maxTaps   = 32
)

// tapHistory is a trailing window of tap instants, oldest first.
type tapHistory struct {
	taps []time.Time
}

// add records now, drops taps older than TapWindow and returns the BPM of
// the mean inter-tap interval. ok is false with fewer than two taps left.
func (h *tapHistory) add(now time.Time) (bpm int, ok bool) {
	h.taps = append(h.taps, now)

	cutoff := now.Add(-TapWindow)
	keep := 0
	for keep < len(h.taps) && h.taps[keep].Before(cutoff) {
		keep++
	}
	h.taps = h.taps[keep:]
	if len(h.taps) > maxTaps {
		h.taps = h.taps[len(h.taps)-maxTaps:]
	}

	if len(h.taps) < 2 {
		return 0, false
	}
	// mean of consecutive deltas
	span := h.taps[len(h.taps)-1].Sub(h.taps[0])
	mean := span / time.Duration(len(h.taps)-1)
	return tempo.FromInterval(mean), true
}

func (h *tapHistory) reset() {
	h.taps = nil
}
