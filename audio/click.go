// Package audio produces metronome clicks. Components depend on the Clicker
// capability and receive it by reference; Speaker is the process-wide
// beep backend.
package audio

import (
	"time"
)

const (
	AccentFrequency = 1200.0 // Hz
	NormalFrequency = 800.0  // Hz
	ClickDuration   = 50 * time.Millisecond
	AccentBoost     = 1.2
	DecayFloor      = 0.01
)

// Click describes one short sine blip.
type Click struct {
	Frequency float64
	Duration  time.Duration
	Gain      float64 // peak gain in [0,1]
	Accent    bool
}

// Clicker emits clicks. Implementations must not block for the length of the
// click; playback is fire-and-forget.
type Clicker interface {
	Click(c Click) error
}

// BeatClick returns the click for a beat. Accented beats are higher and
// louder, the peak gain is capped at 1.
func BeatClick(accent bool, volume float64) Click {
	volume = ClampVolume(volume)
	if accent {
		return Click{
			Frequency: AccentFrequency,
			Duration:  ClickDuration,
			Gain:      min(volume*AccentBoost, 1),
			Accent:    true,
		}
	}
	return Click{
		Frequency: NormalFrequency,
		Duration:  ClickDuration,
		Gain:      volume,
	}
}

// ClampVolume limits v to [0,1]
func ClampVolume(v float64) float64 {
	return max(min(v, 1), 0)
}

// Silent drops every click. Used when no audio device is wanted.
type Silent struct{}

func (Silent) Click(Click) error { return nil }

// ClickerFunc adapts a function to Clicker
type ClickerFunc func(c Click) error

func (f ClickerFunc) Click(c Click) error { return f(c) }
