// Package trainer drives a progressive tempo schedule. Advancement is a pure
// reducer, Reduce(State, Event) (State, []Effect); Trainer applies it and
// invokes the callbacks the host binds at dispatch time.
package trainer

import (
	"math"

	"go-practice/tempo"
)

const (
	MaxIncrement   = 50
	MaxRepetitions = 100
)

// Schedule is the tempo plan: StartBPM up to TargetBPM in IncrementBPM steps,
// Repetitions passes per step.
type Schedule struct {
	StartBPM     int `yaml:"start_bpm"`
	TargetBPM    int `yaml:"target_bpm"`
	IncrementBPM int `yaml:"increment_bpm"`
	Repetitions  int `yaml:"repetitions"`
}

func DefaultSchedule() Schedule {
	return Schedule{
		StartBPM:     60,
		TargetBPM:    120,
		IncrementBPM: 5,
		Repetitions:  3,
	}
}

// Normalize clamps every field to its legal domain
func (s Schedule) Normalize() Schedule {
	s.StartBPM = tempo.Clamp(s.StartBPM)
	s.TargetBPM = tempo.Clamp(s.TargetBPM)
	s.IncrementBPM = max(min(s.IncrementBPM, MaxIncrement), 1)
	s.Repetitions = max(min(s.Repetitions, MaxRepetitions), 1)
	return s
}

// Valid reports whether a run can start. start >= target is degenerate.
func (s Schedule) Valid() bool {
	return s.StartBPM < s.TargetBPM && s.IncrementBPM > 0 && s.Repetitions > 0
}

// TotalSteps is ceil((target-start)/increment)+1
func (s Schedule) TotalSteps() int {
	if !s.Valid() {
		return 1
	}
	span := float64(s.TargetBPM - s.StartBPM)
	return int(math.Ceil(span/float64(s.IncrementBPM))) + 1
}

// StepOf is floor((bpm-start)/increment)+1
func (s Schedule) StepOf(bpm int) int {
	if s.IncrementBPM <= 0 {
		return 1
	}
	return int(math.Floor(float64(bpm-s.StartBPM)/float64(s.IncrementBPM))) + 1
}

// ProgressOf returns how far bpm is from start to target, in percent [0,100]
func (s Schedule) ProgressOf(bpm int) float64 {
	if s.TargetBPM == s.StartBPM {
		return 0
	}
	p := float64(bpm-s.StartBPM) / float64(s.TargetBPM-s.StartBPM) * 100
	return max(min(p, 100), 0)
}

// TotalRepetitions is the number of completed passes a full run takes
func (s Schedule) TotalRepetitions() int {
	return s.TotalSteps() * s.Repetitions
}
