// Package envconfig provides configuration structs for configuring
// the Mountain Car environment and its tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/valleycar/environment"
	"github.com/samuelfneumann/valleycar/environment/classiccontrol/mountaincar"
	ts "github.com/samuelfneumann/valleycar/timestep"
)

// TaskName stores the tasks that can be configured with this package
type TaskName string

// Tasks available for configuration
const (
	Goal   TaskName = "Goal"
	Summit TaskName = "Summit"
)

// Config implements a specific configuration of Mountain Car and its
// task. Initial positions and velocities are [min, max] intervals
// from which starting states are drawn uniformly; equal bounds give a
// fixed starting state.
type Config struct {
	Task            TaskName
	InitialPosition [2]float64
	InitialVelocity [2]float64

	// Goal task
	GoalPosition float64 `json:",omitempty"`

	// Summit task
	FinalReward  float64 `json:",omitempty"`
	LoserPenalty float64 `json:",omitempty"`
}

// Default returns the configuration of the Summit task starting at
// rest at the bottom of the valley
func Default() Config {
	return Config{
		Task:            Summit,
		InitialPosition: [2]float64{-0.5, -0.5},
		InitialVelocity: [2]float64{0, 0},
		GoalPosition:    mountaincar.GoalPosition,
		FinalReward:     10,
		LoserPenalty:    -10,
	}
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	bounds := mountaincar.Bounds()

	position := r1.Interval{Min: c.InitialPosition[0],
		Max: c.InitialPosition[1]}
	if position.Min > position.Max || position.Min < bounds[0].Min ||
		position.Max > bounds[0].Max {
		return fmt.Errorf("validate: initial positions %v ⊄ %v",
			c.InitialPosition, bounds[0])
	}

	velocity := r1.Interval{Min: c.InitialVelocity[0],
		Max: c.InitialVelocity[1]}
	if velocity.Min > velocity.Max || velocity.Min < bounds[1].Min ||
		velocity.Max > bounds[1].Max {
		return fmt.Errorf("validate: initial velocities %v ⊄ %v",
			c.InitialVelocity, bounds[1])
	}

	switch c.Task {
	case Goal:
		if c.GoalPosition <= position.Max || c.GoalPosition > bounds[0].Max {
			return fmt.Errorf("validate: goal position %v unreachable",
				c.GoalPosition)
		}
	case Summit:
	default:
		return fmt.Errorf("validate: no such task %q", c.Task)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. Episodes are cut off after
// cutoff steps.
func (c Config) Create(cutoff int,
	seed uint64) (*mountaincar.Discrete, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}
	if cutoff <= 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("create: cutoff must be "+
			"positive, have %v", cutoff)
	}

	s := env.NewUniformStarter([]r1.Interval{
		{Min: c.InitialPosition[0], Max: c.InitialPosition[1]},
		{Min: c.InitialVelocity[0], Max: c.InitialVelocity[1]},
	}, seed)

	var task env.Task
	switch c.Task {
	case Goal:
		task = mountaincar.NewGoal(s, cutoff, c.GoalPosition)
	case Summit:
		task = mountaincar.NewSummit(s, cutoff, c.FinalReward, c.LoserPenalty)
	}

	m, first, err := mountaincar.NewDiscrete(task)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}
	return m, first, nil
}
