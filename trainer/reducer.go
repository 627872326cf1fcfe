package trainer

type Status int

const (
	Idle Status = iota
	Running
	Paused
	Done
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Done:
		return "Done"
	default:
		return "Idle"
	}
}

// State is the whole trainer. When not training, CurrentBPM is StartBPM and
// CurrentRepetition is 0.
type State struct {
	Schedule Schedule
	Initial  Schedule // restored by Reset

	Training          bool
	Paused            bool
	CurrentBPM        int
	CurrentRepetition int
	Completed         bool // the last run reached the target
}

func NewState(initial Schedule) State {
	initial = initial.Normalize()
	return State{
		Schedule:   initial,
		Initial:    initial,
		CurrentBPM: initial.StartBPM,
	}
}

func (s State) Status() Status {
	switch {
	case s.Training && s.Paused:
		return Paused
	case s.Training:
		return Running
	case s.Completed:
		return Done
	default:
		return Idle
	}
}

func (s State) CanStart() bool  { return s.Schedule.Valid() }
func (s State) TotalSteps() int { return s.Schedule.TotalSteps() }
func (s State) CurrentStep() int {
	return s.Schedule.StepOf(s.CurrentBPM)
}
func (s State) Progress() float64 {
	return s.Schedule.ProgressOf(s.CurrentBPM)
}

type (
	Event interface{ isEvent() }

	Start              struct{}
	Stop               struct{}
	TogglePause        struct{}
	CompleteRepetition struct{}
	NextSpeed          struct{}
	PrevSpeed          struct{}
	Reset              struct{}
	SetSchedule        struct{ Schedule Schedule }
)

func (Start) isEvent()              {}
func (Stop) isEvent()               {}
func (TogglePause) isEvent()        {}
func (CompleteRepetition) isEvent() {}
func (NextSpeed) isEvent()          {}
func (PrevSpeed) isEvent()          {}
func (Reset) isEvent()              {}
func (SetSchedule) isEvent()        {}

type (
	Effect interface{ isEffect() }

	// BPMChange asks the host to move the shared tempo
	BPMChange struct{ BPM int }
	// Complete is emitted once per run that reaches the target
	Complete struct{}
)

func (BPMChange) isEffect() {}
func (Complete) isEffect()  {}

// Reduce applies e to s. Events that are not allowed in the current state
// return s unchanged with no effects.
func Reduce(s State, e Event) (State, []Effect) {
	switch e := e.(type) {
	case Start:
		if !s.CanStart() {
			return s, nil
		}
		s.Training = true
		s.Paused = false
		s.Completed = false
		s.CurrentBPM = s.Schedule.StartBPM
		s.CurrentRepetition = 0
		return s, []Effect{BPMChange{s.CurrentBPM}}

	case Stop:
		return s.idle(false), nil

	case TogglePause:
		if !s.Training {
			return s, nil
		}
		s.Paused = !s.Paused
		return s, nil

	case CompleteRepetition:
		if !s.Training || s.Paused {
			return s, nil
		}
		next := s.CurrentRepetition + 1
		if next < s.Schedule.Repetitions {
			s.CurrentRepetition = next
			return s, nil
		}
		return s.stepUp()

	case NextSpeed:
		if !s.Training {
			return s, nil
		}
		return s.stepUp()

	case PrevSpeed:
		if !s.Training {
			return s, nil
		}
		bpm := max(s.CurrentBPM-s.Schedule.IncrementBPM, s.Schedule.StartBPM)
		s.CurrentRepetition = 0
		if bpm == s.CurrentBPM {
			return s, nil
		}
		s.CurrentBPM = bpm
		return s, []Effect{BPMChange{bpm}}

	case Reset:
		s.Schedule = s.Initial
		return s.idle(false), nil

	case SetSchedule:
		if s.Training {
			return s, nil
		}
		s.Schedule = e.Schedule.Normalize()
		return s.idle(s.Completed), nil
	}
	return s, nil
}

func (s State) stepUp() (State, []Effect) {
	target := s.Schedule.TargetBPM
	next := min(s.CurrentBPM+s.Schedule.IncrementBPM, target)
	if next > target || s.CurrentBPM >= target {
		return s.idle(true), []Effect{Complete{}}
	}
	s.CurrentBPM = next
	s.CurrentRepetition = 0
	return s, []Effect{BPMChange{next}}
}

func (s State) idle(completed bool) State {
	s.Training = false
	s.Paused = false
	s.Completed = completed
	s.CurrentBPM = s.Schedule.StartBPM
	s.CurrentRepetition = 0
	return s
}
