package mountaincar

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/valleycar/environment"
	"github.com/samuelfneumann/valleycar/timestep"
)

const (
	// Commonly used goal position
	GoalPosition float64 = 0.45

	// SummitHeight is the hill height above which the car is
	// considered to be on the summit
	SummitHeight float64 = 0.97
)

// Goal implements the classic control task of reaching a goal on
// Mountain Car. In this task, the agent must learn to drive the car
// up the hill and reach the goal state. Since the car is underpowered,
// it must rock back and forth from hill to hill until it reaches the
// goal.
//
// Rewards are -1 on each timestep and 0 for the action which
// transitions the car to the goal.
//
// Episodes end after a step limit or when the car reaches the goal
// state.
type Goal struct {
	environment.Starter
	goalEnder *environment.FunctionEnder
	stepEnder *environment.StepLimit
	goalX     float64 // x position of goal
}

// NewGoal creates and returns a new Goal struct given a Starter, which
// determines the starting states; the maximum number of episode
// steps; and the goal x position.
func NewGoal(s environment.Starter, episodeSteps int, goalX float64) *Goal {
	g := &Goal{Starter: s, goalX: goalX}
	g.stepEnder = environment.NewStepLimit(episodeSteps)
	g.goalEnder = environment.NewFunctionEnder(g.AtGoal,
		timestep.TerminalStateReached)
	return g
}

// AtGoal returns a boolean indicating whether or not the argument state
// is the goal state
func (g *Goal) AtGoal(state mat.Vector) bool {
	return state.AtVec(0) >= g.goalX
}

// GetReward returns the reward for a given state and action, resulting
// in a given next state. Since this is a cost-to-goal Task, rewards are
// -1.0 for all actions, except for an action which leads to the goal
// state, which results in a reward of 0.0
func (g *Goal) GetReward(_ mat.Vector, _ environment.Action,
	nextState mat.Vector) float64 {
	if g.AtGoal(nextState) {
		return 0.0
	}
	return -1.0
}

// End determines if a timestep is the last timestep in the episode.
// The goal is checked before the step limit so that reaching the goal
// on the last allowed step counts as reaching the goal.
func (g *Goal) End(t *timestep.TimeStep) bool {
	if end := g.goalEnder.End(t); end {
		return true
	}
	return g.stepEnder.End(t)
}

// Summit implements the task of parking the car on the summit of the
// right hill. The car is on the summit when the height of the hill at
// its position exceeds SummitHeight and it is to the right of where it
// started the episode.
//
// Whenever the car is to the right of its starting position, the
// reward is the final reward scaled by the height of the hill. The
// step which exhausts the step budget without such progress is
// penalized, and all other steps are rewarded 0.
type Summit struct {
	environment.Starter
	goalEnder *environment.FunctionEnder
	stepEnder *environment.StepLimit

	finalReward  float64
	loserPenalty float64

	initialPosition float64
	steps           int
}

// NewSummit returns a new Summit task
func NewSummit(s environment.Starter, episodeSteps int, finalReward,
	loserPenalty float64) *Summit {
	summit := &Summit{
		Starter:      s,
		stepEnder:    environment.NewStepLimit(episodeSteps),
		finalReward:  finalReward,
		loserPenalty: loserPenalty,
	}
	summit.goalEnder = environment.NewFunctionEnder(summit.AtGoal,
		timestep.TerminalStateReached)
	return summit
}

// Start samples a starting state and remembers its position
func (s *Summit) Start() mat.Vector {
	state := s.Starter.Start()
	s.initialPosition = state.AtVec(0)
	s.steps = 0
	return state
}

// InitialPosition returns the starting position of the current episode
func (s *Summit) InitialPosition() float64 {
	return s.initialPosition
}

// AtGoal returns whether the car is on the summit
func (s *Summit) AtGoal(state mat.Vector) bool {
	p := state.AtVec(0)
	return Height(p) > SummitHeight && p > s.initialPosition
}

// GetReward returns the reward for transitioning to nextState. It must
// be called exactly once per step.
func (s *Summit) GetReward(_ mat.Vector, _ environment.Action,
	nextState mat.Vector) float64 {
	s.steps++

	p := nextState.AtVec(0)
	if p > s.initialPosition {
		return s.finalReward * Height(p)
	}
	if s.steps == s.stepEnder.Limit() {
		return s.loserPenalty
	}
	return 0.0
}

// End determines if a timestep is the last timestep in the episode
func (s *Summit) End(t *timestep.TimeStep) bool {
	if end := s.goalEnder.End(t); end {
		return true
	}
	return s.stepEnder.End(t)
}
