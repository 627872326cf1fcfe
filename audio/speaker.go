package audio

import (
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"

	"go-practice/debug"
)

const DefaultSampleRate = beep.SampleRate(44100)

// Speaker is the beep/speaker backend. The device is opened lazily on the
// first click and reopened on the next click after Suspend.
type Speaker struct {
	format      beep.Format
	initialized bool
	mu          sync.Mutex

	initFunc  func(sr beep.SampleRate, bufferSize int) error
	playFunc  func(s ...beep.Streamer)
	closeFunc func()
}

var (
	shared     *Speaker
	sharedOnce sync.Once
)

// Shared returns the process-wide speaker. It is never torn down explicitly.
func Shared() *Speaker {
	sharedOnce.Do(func() {
		shared = NewSpeaker(DefaultSampleRate)
	})
	return shared
}

func NewSpeaker(sr beep.SampleRate) *Speaker {
	return &Speaker{
		format: beep.Format{
			SampleRate:  sr,
			NumChannels: 2,
			Precision:   2,
		},
		initFunc:  speaker.Init,
		playFunc:  speaker.Play,
		closeFunc: speaker.Close,
	}
}

func (spkr *Speaker) init() error {
	// small buffer keeps click latency low
	bufSize := spkr.format.SampleRate.N(time.Second / 100)
	debug.Log("audio", "initializing speaker %d,%d", spkr.format.SampleRate, bufSize)
	if err := spkr.initFunc(spkr.format.SampleRate, bufSize); err != nil {
		return errors.Wrap(err, "initializing speaker")
	}
	spkr.initialized = true
	return nil
}

// Click plays c, resuming the device first if needed.
func (spkr *Speaker) Click(c Click) error {
	spkr.mu.Lock()
	defer spkr.mu.Unlock()

	if !spkr.initialized {
		if err := spkr.init(); err != nil {
			return err
		}
	}
	spkr.playFunc(ClickStreamer(spkr.format.SampleRate, c))
	return nil
}

// Suspend releases the device. The next Click resumes it.
func (spkr *Speaker) Suspend() {
	spkr.mu.Lock()
	defer spkr.mu.Unlock()

	if !spkr.initialized {
		return
	}
	spkr.closeFunc()
	spkr.initialized = false
	debug.Log("audio", "speaker suspended")
}

// Suspended reports whether the next click has to reopen the device
func (spkr *Speaker) Suspended() bool {
	spkr.mu.Lock()
	defer spkr.mu.Unlock()
	return !spkr.initialized
}

func (spkr *Speaker) SampleRate() beep.SampleRate {
	return spkr.format.SampleRate
}
