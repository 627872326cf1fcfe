package loop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-practice/tempo"
)

func TestSelectAndSwap(t *testing.T) {
	s := New(100)

	s.StartSelecting(ModeStart)
	assert.True(t, s.Selecting())
	assert.Equal(t, ModeStart, s.Mode())
	require.True(t, s.SelectNote(30))
	assert.False(t, s.Selecting())

	s.StartSelecting(ModeEnd)
	require.True(t, s.SelectNote(10))

	snap := s.Snapshot()
	assert.True(t, snap.LoopStart.Equals(10))
	assert.True(t, snap.LoopEnd.Equals(30))
	assert.Equal(t, 21, snap.LoopLength)
	assert.True(t, snap.HasValidLoop)
	assert.False(t, snap.Enabled, "setting endpoints never enables")
}

func TestSelectNoteWithoutSelecting(t *testing.T) {
	s := New(10)
	assert.False(t, s.SelectNote(3))
	assert.True(t, s.Start().Empty())

	s.StartSelecting(ModeStart)
	s.StopSelecting()
	assert.False(t, s.SelectNote(3))
	assert.True(t, s.Start().Empty())

	s.StartSelecting(ModeNone)
	assert.False(t, s.Selecting())
}

func TestEndpointClamp(t *testing.T) {
	s := New(50)
	s.SetStart(-4)
	s.SetEnd(400)
	assert.True(t, s.Start().Equals(0))
	assert.True(t, s.End().Equals(49))
	assert.Equal(t, 50, s.Length())

	empty := New(0)
	empty.SetStart(0)
	assert.True(t, empty.Start().Empty())
	assert.False(t, empty.Valid())
}

func TestToggleRequiresValidLoop(t *testing.T) {
	s := New(20)
	assert.False(t, s.ToggleLoop())
	s.SetStart(5)
	assert.False(t, s.ToggleLoop())
	assert.False(t, s.Enabled())

	s.SetEnd(8)
	assert.True(t, s.ToggleLoop())
	assert.True(t, s.Enabled())
	assert.True(t, s.ToggleLoop())
	assert.False(t, s.Enabled())
}

func TestUnsetEndpointDisables(t *testing.T) {
	s := New(20)
	s.SetStart(1)
	s.SetEnd(4)
	s.ToggleLoop()
	s.UnsetEnd()
	assert.False(t, s.Enabled())
	assert.False(t, s.Valid())

	s.SetEnd(4)
	s.ToggleLoop()
	s.UnsetStart()
	assert.False(t, s.Enabled())
}

func TestClearLoop(t *testing.T) {
	s := New(64)
	s.SetStart(3)
	s.SetEnd(9)
	s.ToggleLoop()
	s.IncrementLoopCount()
	s.IncrementLoopCount()

	s.ClearLoop()
	snap := s.Snapshot()
	assert.True(t, snap.LoopStart.Empty())
	assert.True(t, snap.LoopEnd.Empty())
	assert.False(t, snap.Enabled)
	assert.Zero(t, snap.LoopCount)
	assert.Zero(t, snap.LoopLength)
}

func TestSetMaxLoops(t *testing.T) {
	s := New(10)
	for _, n := range MaxLoopChoices {
		assert.True(t, s.SetMaxLoops(n))
		assert.Equal(t, n, s.MaxLoops())
	}
	assert.False(t, s.SetMaxLoops(3))
	assert.Equal(t, 16, s.MaxLoops())

	assert.Equal(t, 0, s.CycleMaxLoops())
	assert.Equal(t, 2, s.CycleMaxLoops())
	assert.Equal(t, 4, s.CycleMaxLoops())
}

func TestSetLoopByBars(t *testing.T) {
	s := New(100)
	assert.False(t, s.SetLoopByBars(4, 4), "needs a start")

	s.SetStart(0)
	require.True(t, s.SetLoopByBars(4, 4))
	assert.True(t, s.End().Equals(15))

	// idempotent with unchanged meter and start
	require.True(t, s.SetLoopByBars(4, 4))
	assert.True(t, s.End().Equals(15))

	s.ClearLoop()
	s.SetStart(90)
	require.True(t, s.SetLoopByBars(2, 6))
	assert.True(t, s.End().Equals(99))
	assert.True(t, s.Start().Equals(90))

	assert.False(t, s.SetLoopByBars(0, 4))
	assert.False(t, s.SetLoopByBars(2, 0))
}

func TestLapLimit(t *testing.T) {
	s := New(10)
	s.SetStart(0)
	s.SetEnd(3)
	s.SetMaxLoops(2)
	s.ToggleLoop()

	assert.False(t, s.LimitReached())
	s.IncrementLoopCount()
	assert.False(t, s.LimitReached())
	assert.Equal(t, 2, s.IncrementLoopCount())
	assert.True(t, s.LimitReached())

	// re-enabling starts a fresh count
	s.ToggleLoop()
	s.ToggleLoop()
	assert.Zero(t, s.Count())

	s.SetMaxLoops(0)
	for i := 0; i < 100; i++ {
		s.IncrementLoopCount()
	}
	assert.False(t, s.LimitReached())
}

func TestSetTotalNotes(t *testing.T) {
	s := New(100)
	s.SetStart(40)
	s.SetEnd(80)
	s.ToggleLoop()

	s.SetTotalNotes(60)
	assert.True(t, s.End().Equals(59))
	assert.True(t, s.Valid())
	assert.True(t, s.Enabled())

	s.SetTotalNotes(0)
	assert.True(t, s.Start().Empty())
	assert.False(t, s.Enabled())
}

func TestInvariantsUnderRandomOps(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	s := New(40)
	ops := []func(){
		func() { s.StartSelecting(ModeStart) },
		func() { s.StartSelecting(ModeEnd) },
		func() { s.StopSelecting() },
		func() { s.SelectNote(rnd.Intn(60) - 10) },
		func() { s.SetStart(rnd.Intn(60) - 10) },
		func() { s.SetEnd(rnd.Intn(60) - 10) },
		func() { s.UnsetStart() },
		func() { s.UnsetEnd() },
		func() { s.ClearLoop() },
		func() { s.ToggleLoop() },
		func() { s.ToggleLoop() },
		func() { s.SetLoopByBars(rnd.Intn(5), 4) },
		func() { s.IncrementLoopCount() },
		func() { s.SetTotalNotes(rnd.Intn(50)) },
		func() { s.CycleMaxLoops() },
	}
	for i := 0; i < 5000; i++ {
		ops[rnd.Intn(len(ops))]()
		snap := s.Snapshot()
		if snap.Enabled {
			require.True(t, snap.HasValidLoop, "step %d", i)
		}
		a, okA := snap.LoopStart.Unpack()
		b, okB := snap.LoopEnd.Unpack()
		if okA && okB {
			require.LessOrEqual(t, 0, a)
			require.LessOrEqual(t, a, b, "step %d", i)
			require.Less(t, b, snap.TotalNotes, "step %d", i)
			require.Equal(t, b-a+1, snap.LoopLength)
		}
		require.Contains(t, MaxLoopChoices, snap.MaxLoops)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "start", ModeStart.String())
	assert.Equal(t, "end", ModeEnd.String())
	assert.Equal(t, "none", ModeNone.String())
	assert.Equal(t, tempo.None(), New(1).Snapshot().LoopStart)
}
