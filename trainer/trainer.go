package trainer

import (
	"sync"

	"go-practice/debug"
)

// Callbacks are bound by the host on every dispatch, so the trainer never
// holds on to stale ones.
type Callbacks struct {
	OnBPMChange func(bpm int)
	OnComplete  func()
}

type Trainer struct {
	state State
	mu    sync.Mutex
}

func New(initial Schedule) *Trainer {
	return &Trainer{state: NewState(initial)}
}

// Dispatch reduces e and then runs the resulting effects against cb,
// outside the lock.
func (t *Trainer) Dispatch(e Event, cb Callbacks) State {
	t.mu.Lock()
	prev := t.state
	next, effects := Reduce(prev, e)
	t.state = next
	t.mu.Unlock()

	if prev.Status() != next.Status() {
		debug.Log("trainer", "%T: %s -> %s bpm=%d", e, prev.Status(), next.Status(), next.CurrentBPM)
	}

	for _, eff := range effects {
		switch eff := eff.(type) {
		case BPMChange:
			if cb.OnBPMChange != nil {
				cb.OnBPMChange(eff.BPM)
			}
		case Complete:
			debug.Log("trainer", "schedule complete target=%d", next.Schedule.TargetBPM)
			if cb.OnComplete != nil {
				cb.OnComplete()
			}
		}
	}
	return next
}

func (t *Trainer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
