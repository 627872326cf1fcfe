package practice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-practice/audio"
	"go-practice/loop"
	"go-practice/metronome"
	"go-practice/tempo"
	"go-practice/trainer"
)

// manualClock never fires timers on its own; tests only need Now to move.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

type nopTimer struct{}

func (nopTimer) Stop() bool { return true }

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(time.Duration, func()) metronome.Timer { return nopTimer{} }

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type events struct {
	bpms      []int
	sigs      []string
	completes int
	loops     []loop.Snapshot
}

func newTestShell(opts Options) (*Shell, *events, *manualClock) {
	clock := &manualClock{now: time.Unix(0, 0)}
	opts.Clock = clock
	s := New(audio.Silent{}, opts)
	ev := &events{}
	s.SetCallbacks(Callbacks{
		OnBPMChange:           func(bpm int) { ev.bpms = append(ev.bpms, bpm) },
		OnTimeSignatureChange: func(ts tempo.TimeSignature) { ev.sigs = append(ev.sigs, ts.String()) },
		OnComplete:            func() { ev.completes++ },
		OnLoopChange:          func(snap loop.Snapshot) { ev.loops = append(ev.loops, snap) },
	})
	return s, ev, clock
}

func TestTrainerDrivesMetronome(t *testing.T) {
	opts := DefaultOptions()
	opts.Tempo = 100
	opts.Schedule = trainer.Schedule{StartBPM: 60, TargetBPM: 80, IncrementBPM: 5, Repetitions: 2}
	s, ev, _ := newTestShell(opts)
	defer s.Close()

	s.DispatchTrainer(trainer.Start{})
	assert.Equal(t, 60, s.Tempo())
	assert.Equal(t, 60, s.MetronomeState().BPM)

	for i := 0; i < 10; i++ {
		s.CompleteRepetition()
	}
	assert.Equal(t, []int{60, 65, 70, 75, 80}, ev.bpms)
	assert.Equal(t, 80, s.Metronome().BPM())
	assert.Equal(t, 1, ev.completes)
	assert.Equal(t, trainer.Done, s.TrainerState().Status())
}

func TestTrainerStartAtCurrentTempoReachesPlayer(t *testing.T) {
	opts := DefaultOptions()
	opts.Tempo = 60
	opts.Schedule = trainer.Schedule{StartBPM: 60, TargetBPM: 80, IncrementBPM: 5, Repetitions: 2}
	s, ev, _ := newTestShell(opts)
	defer s.Close()

	s.DispatchTrainer(trainer.Start{})
	for i := 0; i < 10; i++ {
		s.CompleteRepetition()
	}
	assert.Equal(t, []int{60, 65, 70, 75, 80}, ev.bpms)
	assert.Equal(t, 1, ev.completes)

	// manual controls still skip no-op changes
	s.SetTempo(80)
	assert.Len(t, ev.bpms, 5)
}

func TestTempoControls(t *testing.T) {
	s, ev, _ := newTestShell(DefaultOptions())
	s.NudgeTempo(5)
	s.NudgeTempo(-1)
	assert.Equal(t, 124, s.Tempo())

	s.SetTempo(1000)
	assert.Equal(t, tempo.MaxBPM, s.Tempo())
	s.NudgeTempo(5)
	assert.Equal(t, []int{125, 124, tempo.MaxBPM}, ev.bpms, "no event when the clamp leaves tempo unchanged")
	assert.Equal(t, tempo.MaxBPM, s.MetronomeState().BPM)
}

func TestTapTempoRoutesThroughShell(t *testing.T) {
	s, ev, clock := newTestShell(DefaultOptions())
	_, ok := s.TapTempo()
	assert.False(t, ok)
	for i := 0; i < 4; i++ {
		clock.advance(600 * time.Millisecond)
		s.TapTempo()
	}
	assert.Equal(t, 100, s.Tempo())
	assert.Equal(t, []int{100}, ev.bpms)
}

func TestTimeSignature(t *testing.T) {
	s, ev, _ := newTestShell(DefaultOptions())
	s.SetTimeSignature(tempo.MustParseTimeSignature("3/4"))
	s.SetTimeSignature(tempo.MustParseTimeSignature("3/4"))
	s.SetTimeSignature(tempo.TimeSignature{Beats: 2, Unit: 2})
	s.CycleTimeSignature(true)
	s.CycleTimeSignature(false)

	assert.Equal(t, []string{"3/4", "4/4", "3/4"}, ev.sigs)
	assert.Equal(t, "3/4", s.MetronomeState().TimeSignature.String())
}

func TestLoopByBarsUsesMeter(t *testing.T) {
	opts := DefaultOptions()
	opts.TotalNotes = 100
	s, ev, _ := newTestShell(opts)

	s.StartSelecting(loop.ModeStart)
	require.True(t, s.NoteClicked(0))
	assert.False(t, s.NoteClicked(5))

	snap := s.SetLoopByBars(4)
	assert.True(t, snap.LoopEnd.Equals(15))

	s.SetTimeSignature(tempo.MustParseTimeSignature("6/8"))
	snap = s.SetLoopByBars(4)
	assert.True(t, snap.LoopEnd.Equals(23))
	assert.NotEmpty(t, ev.loops)
	assert.Equal(t, snap, ev.loops[len(ev.loops)-1])
}

func TestLapCompleteHaltsBoundedLoop(t *testing.T) {
	opts := DefaultOptions()
	opts.TotalNotes = 32
	opts.MaxLoops = 2
	s, _, _ := newTestShell(opts)

	s.StartSelecting(loop.ModeStart)
	s.NoteClicked(4)
	s.StartSelecting(loop.ModeEnd)
	s.NoteClicked(11)
	snap := s.ToggleLoop()
	require.True(t, snap.Enabled)

	snap, halted := s.LapComplete()
	assert.False(t, halted)
	assert.Equal(t, 1, snap.LoopCount)

	snap, halted = s.LapComplete()
	assert.True(t, halted)
	assert.False(t, snap.Enabled)
	assert.True(t, snap.HasValidLoop)
}

func TestLapCompleteUnbounded(t *testing.T) {
	s, _, _ := newTestShell(DefaultOptions())
	s.StartSelecting(loop.ModeStart)
	s.NoteClicked(0)
	s.StartSelecting(loop.ModeEnd)
	s.NoteClicked(3)
	s.ToggleLoop()
	for i := 0; i < 50; i++ {
		_, halted := s.LapComplete()
		require.False(t, halted)
	}
	assert.True(t, s.LoopSnapshot().Enabled)
}

func TestSetTotalNotesReclampsLoop(t *testing.T) {
	s, _, _ := newTestShell(DefaultOptions())
	s.StartSelecting(loop.ModeStart)
	s.NoteClicked(10)
	s.StartSelecting(loop.ModeEnd)
	s.NoteClicked(60)

	snap := s.SetTotalNotes(20)
	assert.Equal(t, 20, s.TotalNotes())
	assert.True(t, snap.LoopEnd.Equals(19))
	assert.Equal(t, 10, snap.LoopLength)
}

func TestTabsAndExpanded(t *testing.T) {
	s, _, _ := newTestShell(DefaultOptions())
	assert.Equal(t, TabMetronome, s.Tab())
	s.NextTab()
	assert.Equal(t, TabTrainer, s.Tab())
	s.NextTab()
	s.NextTab()
	assert.Equal(t, TabMetronome, s.Tab())
	s.PrevTab()
	assert.Equal(t, TabLoop, s.Tab())

	s.SetTempo(90)
	s.ToggleExpanded()
	assert.False(t, s.Expanded())
	// collapsing keeps every aid's state
	assert.Equal(t, 90, s.Tempo())
	assert.Equal(t, TabLoop, s.Tab())
	s.ToggleExpanded()
	assert.True(t, s.Expanded())

	assert.Equal(t, TabTrainer, ParseTab("trainer"))
	assert.Equal(t, TabMetronome, ParseTab("bogus"))
}

func TestUpdateChanIsNonBlocking(t *testing.T) {
	s, _, _ := newTestShell(DefaultOptions())
	for i := 0; i < 10; i++ {
		s.NudgeTempo(1)
	}
	select {
	case <-s.UpdateChan:
	default:
		t.Fatal("expected an update")
	}
}

func TestMetronomeControls(t *testing.T) {
	s, _, _ := newTestShell(DefaultOptions())
	s.ToggleMetronome()
	assert.True(t, s.MetronomeState().Running)
	s.ToggleAccent()
	assert.False(t, s.MetronomeState().Accent)
	s.NudgeVolume(0.8)
	assert.Equal(t, 1.0, s.MetronomeState().Volume)
	s.StopMetronome()
	assert.False(t, s.MetronomeState().Running)
}
