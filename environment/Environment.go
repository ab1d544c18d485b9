// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"fmt"

	"github.com/samuelfneumann/valleycar/timestep"
	"gonum.org/v1/gonum/mat"
)

// Action is a discrete force applied to the car
type Action int

// The closed set of actions
const (
	Decelerate Action = -1
	Coast      Action = 0
	Accelerate Action = 1
)

// Actions returns all legal actions in the order they are offered to
// agents
func Actions() []Action {
	return []Action{Accelerate, Coast, Decelerate}
}

// Valid returns whether a is one of Decelerate, Coast or Accelerate
func (a Action) Valid() bool {
	return a == Decelerate || a == Coast || a == Accelerate
}

func (a Action) String() string {
	switch a {
	case Decelerate:
		return "Decelerate"
	case Coast:
		return "Coast"
	case Accelerate:
		return "Accelerate"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when an episode should end
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment and decides when episodes end
type Task interface {
	Starter
	Ender
	GetReward(state mat.Vector, a Action, nextState mat.Vector) float64
	AtGoal(state mat.Vector) bool
}

// Environment implements a simulated environment. This is the only
// view of an environment that learning agents depend on.
type Environment interface {
	Reset() (timestep.TimeStep, error)
	Step(a Action) (timestep.TimeStep, bool, error)
	LegalActions() []Action
}
