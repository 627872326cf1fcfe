package audio

import (
	"math"

	"github.com/faiface/beep"
)

// ClickStreamer renders c as a finite stereo stream: a sine at c.Frequency
// whose gain decays exponentially from c.Gain to DecayFloor over c.Duration.
func ClickStreamer(sr beep.SampleRate, c Click) beep.Streamer {
	total := sr.N(c.Duration)
	peak := ClampVolume(c.Gain)
	floor := min(DecayFloor, peak)
	step := 2 * math.Pi * c.Frequency / float64(sr)

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			s := 0.0
			if peak > 0 {
				g := peak * math.Pow(floor/peak, float64(pos)/float64(total))
				s = g * math.Sin(step*float64(pos))
			}
			samples[i][0] = s
			samples[i][1] = s
			pos++
			n++
		}
		return n, true
	})
}
