// Package mountaincar implements the classic control environment
// "Mountain Car" with discrete actions
package mountaincar

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/valleycar/environment"
	ts "github.com/samuelfneumann/valleycar/timestep"
	"github.com/samuelfneumann/valleycar/utils/floatutils"
)

const (
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.001 // Engine power
	Gravity     float64 = 0.0025
)

// Height returns the height of the hill at position, which is equal
// to cos(3(position + π/2))
func Height(position float64) float64 {
	return math.Sin(3 * position)
}

// Bounds returns the observation bounds of Mountain Car, position
// first and velocity second
func Bounds() []r1.Interval {
	return []r1.Interval{
		{Min: MinPosition, Max: MaxPosition},
		{Min: -MaxSpeed, Max: MaxSpeed},
	}
}

// Discrete implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between two
// hills. The car is underpowered and cannot drive up the hill unless
// it rocks back and forth from hill to hill, using its momentum to
// gradually climb higher.
//
// State features consist of the x position of the car and its velocity.
// These features are bounded by the MinPosition, MaxPosition, and
// MaxSpeed constants defined in this package. The sign of the velocity
// feature denotes direction, with negative meaning that the car is
// travelling left and positive meaning that the car is travelling
// right. Upon hitting the left wall, the velocity of the car is set
// to 0.
//
// Actions are environment.Decelerate, environment.Coast and
// environment.Accelerate, applying full force to the left, no force,
// or full force to the right. Any other action results in a panic.
//
// Discrete implements the environment.Environment interface
type Discrete struct {
	env.Task
	positionBounds r1.Interval
	speedBounds    r1.Interval
	lastStep       ts.TimeStep
	power          float64
	gravity        float64
}

// NewDiscrete creates a new Mountain Car environment with the argument
// task and returns it with its first timestep
func NewDiscrete(t env.Task) (*Discrete, ts.TimeStep, error) {
	bounds := Bounds()
	m := &Discrete{
		Task:           t,
		positionBounds: bounds[0],
		speedBounds:    bounds[1],
		power:          Power,
		gravity:        Gravity,
	}

	firstStep, err := m.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %v", err)
	}
	return m, firstStep, nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (m *Discrete) Reset() (ts.TimeStep, error) {
	state := m.Start()
	if err := validateState(state, m.positionBounds, m.speedBounds); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	m.lastStep = ts.New(ts.First, 0, state, 0)
	return m.lastStep, nil
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended. Stepping after the
// episode has ended is an error; Reset must be called first.
func (m *Discrete) Step(a env.Action) (ts.TimeStep, bool, error) {
	if !a.Valid() {
		panic(fmt.Sprintf("step: illegal action %v ∉ (-1, 0, 1)",
			int(a)))
	}
	if m.lastStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended")
	}

	newState := m.nextState(float64(a))
	reward := m.GetReward(m.lastStep.Observation, a, newState)
	nextStep := ts.New(ts.Mid, reward, newState, m.lastStep.Number+1)

	// Adjusts the step type and end type if the episode is over
	m.End(&nextStep)

	m.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// LegalActions returns the actions that can be taken in every state
func (m *Discrete) LegalActions() []env.Action {
	return env.Actions()
}

// State returns the current (position, velocity) of the car
func (m *Discrete) State() mat.Vector {
	return m.lastStep.Observation
}

// nextState calculates the next state in the environment given force
func (m *Discrete) nextState(force float64) mat.Vector {
	state := m.lastStep.Observation
	position, velocity := state.AtVec(0), state.AtVec(1)

	velocity += force*m.power - m.gravity*math.Cos(3*position)
	velocity = floatutils.ClipInterval(velocity, m.speedBounds)

	position += velocity
	position = floatutils.ClipInterval(position, m.positionBounds)

	if position <= m.positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return mat.NewVecDense(2, []float64{position, velocity})
}

// Render writes a text-based rendering of the environment to w
func (m *Discrete) Render(w io.Writer) error {
	xIndices := 16

	var hill strings.Builder
	for i := 1; i < xIndices/2+1; i++ {
		if i == 1 {
			fmt.Fprint(&hill, calculateRow(xIndices, i)+"🏁\n")
		} else {
			fmt.Fprintln(&hill, calculateRow(xIndices, i))
		}
	}
	fmt.Fprintln(&hill, "")

	// Calculate the x position at which to draw the car
	xPos := m.lastStep.Observation.AtVec(0)
	xPos = (xPos - m.positionBounds.Min) /
		(m.positionBounds.Max - m.positionBounds.Min)
	x := int(xPos * float64(xIndices))
	if x >= xIndices {
		x = xIndices - 1
	}

	var builder strings.Builder
	for i := 0; i < xIndices; i++ {
		if i == x {
			fmt.Fprintf(&builder, "🚗")
		} else if i == xIndices-1 {
			fmt.Fprintf(&builder, "🏁")
		} else {
			fmt.Fprintf(&builder, "=")
		}
	}

	_, err := fmt.Fprintf(w, "%v%v\n", &hill, &builder)
	return err
}

// String returns a string representation of the environment
func (m *Discrete) String() string {
	str := "Mountain Car  |  Position: %v  |  Speed: %v"
	state := m.lastStep.Observation
	return fmt.Sprintf(str, state.AtVec(0), state.AtVec(1))
}

// calculateRow calculates what to draw for a single row of text-based
// rendering of the hill in Mountain Car
func calculateRow(xIndices, width int) string {
	var builder strings.Builder

	for i := 0; i < width; i++ {
		fmt.Fprintf(&builder, "=")
	}
	for i := 0; i < xIndices-(2*width); i++ {
		fmt.Fprintf(&builder, " ")
	}
	for i := 0; i < width; i++ {
		fmt.Fprintf(&builder, "=")
	}
	return builder.String()
}

// validateState validates the state to ensure the position and speed
// are within the environmental limits
func validateState(s mat.Vector, positionBounds,
	speedBounds r1.Interval) error {
	if s.Len() != 2 {
		return fmt.Errorf("illegal state dimension %v, want 2", s.Len())
	}

	position := s.AtVec(0)
	if !floatutils.Contains(position, positionBounds) {
		return fmt.Errorf("illegal position %v ∉ [%v, %v]", position,
			positionBounds.Min, positionBounds.Max)
	}

	speed := s.AtVec(1)
	if !floatutils.Contains(speed, speedBounds) {
		return fmt.Errorf("illegal speed %v ∉ [%v, %v]", speed,
			speedBounds.Min, speedBounds.Max)
	}
	return nil
}
