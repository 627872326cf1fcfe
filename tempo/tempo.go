// Package tempo holds the musical units shared by the practice aids: the BPM
// domain, time signatures and tempo markings.
package tempo

import (
	"math"
	"time"
)

const (
	MinBPM     = 40
	MaxBPM     = 240
	DefaultBPM = 120
)

// Clamp limits bpm to [MinBPM, MaxBPM]
func Clamp(bpm int) int {
	return max(min(bpm, MaxBPM), MinBPM)
}

// Interval returns the time between two beats, 60000/bpm ms. bpm is clamped first.
func Interval(bpm int) time.Duration {
	return time.Duration(float64(time.Minute) / float64(Clamp(bpm)))
}

// FromInterval converts a mean beat interval back to a clamped BPM,
// rounding to the nearest integer.
func FromInterval(d time.Duration) int {
	if d <= 0 {
		return MaxBPM
	}
	ms := float64(d) / float64(time.Millisecond)
	return Clamp(int(math.Round(60000 / ms)))
}
