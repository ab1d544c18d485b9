// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended
type EndType int

const (
	// NotEnded is the EndType of every TimeStep that is not the last
	// in its episode
	NotEnded EndType = iota

	// TerminalStateReached means the Task's goal condition held
	TerminalStateReached

	// Timeout means the episode step budget was exhausted
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep in an environment.
// The Observation holds the continuous environment state, for Mountain
// Car the vector (position, velocity).
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Observation mat.Vector
	Number      int
	endType     EndType
}

// New returns a new TimeStep with step type t, reward r, observation o
// and step number n.
func New(t StepType, r float64, o mat.Vector, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Observation: o, Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd records why the episode ended. The first recorded reason wins
// so that a goal reached on the final allowed step is still reported
// as TerminalStateReached.
func (t *TimeStep) SetEnd(e EndType) {
	if t.endType == NotEnded {
		t.endType = e
	}
}

// EndType returns why the episode ended, or NotEnded
func (t *TimeStep) EndType() EndType {
	return t.endType
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  End: %v  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.endType, t.Number)
}
