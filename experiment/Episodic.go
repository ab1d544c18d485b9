package experiment

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/valleycar/agent"
	"github.com/samuelfneumann/valleycar/agent/critic"
	env "github.com/samuelfneumann/valleycar/environment"
	ts "github.com/samuelfneumann/valleycar/timestep"
	"github.com/samuelfneumann/valleycar/utils/matutils/tilecoder"
)

// Episodic runs an actor and critic on an environment for a fixed
// number of episodes. Learning happens online on every step:
//
//  1. The critic computes the TD error of the transition and trains
//     its value function at the current state through its trace.
//  2. The critic's trace decays.
//  3. The trajectory of the episode so far is walked from the most
//     recent pair to the oldest. The most recent pair's eligibility is
//     set to 1, every older pair's eligibility decays, and each pair's
//     preference is updated with the TD error.
//
// An episode ends when the environment reports the goal was reached or
// when the step budget is exhausted, whichever happens first.
type Episodic struct {
	env      env.Environment
	encoder  tilecoder.Encoder
	actor    *agent.Actor
	critic   *critic.Critic
	episodes int
	maxSteps int

	episode  int
	trackers []Tracker
}

// NewEpisodic returns a new Episodic experiment which runs for the
// given number of episodes, each cut off after maxSteps steps
func NewEpisodic(e env.Environment, encoder tilecoder.Encoder,
	a *agent.Actor, c *critic.Critic, episodes, maxSteps int,
	t ...Tracker) (*Episodic, error) {
	if episodes <= 0 {
		return nil, fmt.Errorf("newEpisodic: episodes must be positive, "+
			"have %v", episodes)
	}
	if maxSteps <= 0 {
		return nil, fmt.Errorf("newEpisodic: max steps must be positive, "+
			"have %v", maxSteps)
	}

	return &Episodic{
		env:      e,
		encoder:  encoder,
		actor:    a,
		critic:   c,
		episodes: episodes,
		maxSteps: maxSteps,
		trackers: t,
	}, nil
}

// Register registers a Tracker with the experiment so that it receives
// the results of all subsequent episodes
func (e *Episodic) Register(t Tracker) {
	e.trackers = append(e.trackers, t)
}

// Actor returns the experiment's actor
func (e *Episodic) Actor() *agent.Actor {
	return e.actor
}

// Critic returns the experiment's critic
func (e *Episodic) Critic() *critic.Critic {
	return e.critic
}

// Run runs all remaining episodes in sequence and returns their
// results. The context is only checked between episodes.
func (e *Episodic) Run(ctx context.Context) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, 0, e.episodes-e.episode)
	for e.episode < e.episodes {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run: %v", err)
		}

		result, err := e.RunEpisode()
		if err != nil {
			return results, fmt.Errorf("run: episode %d: %v", e.episode, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// RunEpisode runs a single learning episode
func (e *Episodic) RunEpisode() (EpisodeResult, error) {
	step, err := e.env.Reset()
	if err != nil {
		return EpisodeResult{}, fmt.Errorf("runEpisode: could not reset "+
			"environment: %v", err)
	}
	e.actor.ResetEpisode()
	e.critic.ResetEpisode()

	current, err := e.encoder.Encode(step.Observation)
	if err != nil {
		return EpisodeResult{}, fmt.Errorf("runEpisode: %v", err)
	}

	legal := e.env.LegalActions()
	trajectory := make([]agent.SAP, 0, e.maxSteps)
	result := EpisodeResult{Episode: e.episode}

	for {
		action, err := e.actor.SelectAction(current.Key(), legal)
		if err != nil {
			return result, fmt.Errorf("runEpisode: %v", err)
		}
		trajectory = append(trajectory, agent.SAP{
			State:  current.Key(),
			Action: action,
		})

		var done bool
		step, done, err = e.env.Step(action)
		if err != nil {
			return result, fmt.Errorf("runEpisode: %v", err)
		}

		next, err := e.encoder.Encode(step.Observation)
		if err != nil {
			return result, fmt.Errorf("runEpisode: %v", err)
		}

		if err := e.learn(current, next, step.Reward, trajectory); err != nil {
			return result, fmt.Errorf("runEpisode: step %d: %v",
				result.Steps, err)
		}

		result.Steps++
		result.Return += step.Reward
		result.Goal = done && step.EndType() == ts.TerminalStateReached

		if result.Goal || result.Steps >= e.maxSteps || done {
			break
		}
		current = next
	}

	result.Epsilon = e.actor.Epsilon()
	e.episode++
	e.track(result)

	return result, nil
}

// learn updates the critic and actor after a transition from current
// to next
func (e *Episodic) learn(current, next *tilecoder.Encoding, reward float64,
	trajectory []agent.SAP) error {
	td, err := e.critic.TDError(current, next, reward)
	if err != nil {
		return err
	}

	if err := e.critic.Train(current, td); err != nil {
		return err
	}
	if err := e.critic.DecayTrace(); err != nil {
		return err
	}

	decayAll := e.actor.DecaysAll()
	if decayAll {
		e.actor.DecayAll()
	}

	last := len(trajectory) - 1
	for i := last; i >= 0; i-- {
		sap := trajectory[i]
		if i == last {
			e.actor.RecordVisit(sap.State, sap.Action)
		} else if !decayAll {
			e.actor.Decay(sap.State, sap.Action)
		}
		e.actor.UpdatePreference(sap.State, sap.Action, td)
	}
	return nil
}

// Greedy runs a single demonstration episode with exploration turned
// off and no learning. It returns the episode's result and every state
// visited, starting with the first. Actions are always the actor's
// greedy actions, so epsilon is left untouched, and the episode is not
// tracked.
func (e *Episodic) Greedy(ctx context.Context) (EpisodeResult, []mat.Vector,
	error) {
	result := EpisodeResult{Episode: e.episode}

	step, err := e.env.Reset()
	if err != nil {
		return result, nil, fmt.Errorf("greedy: could not reset "+
			"environment: %v", err)
	}
	states := []mat.Vector{step.Observation}
	legal := e.env.LegalActions()

	for {
		if err := ctx.Err(); err != nil {
			return result, states, fmt.Errorf("greedy: %v", err)
		}

		state, err := e.encoder.Encode(step.Observation)
		if err != nil {
			return result, states, fmt.Errorf("greedy: %v", err)
		}

		action := e.actor.Greedy(state.Key(), legal)

		var done bool
		step, done, err = e.env.Step(action)
		if err != nil {
			return result, states, fmt.Errorf("greedy: %v", err)
		}
		states = append(states, step.Observation)

		result.Steps++
		result.Return += step.Reward
		result.Goal = done && step.EndType() == ts.TerminalStateReached

		if result.Goal || result.Steps >= e.maxSteps || done {
			break
		}
	}

	return result, states, nil
}

// Save saves the data of all registered Trackers
func (e *Episodic) Save() error {
	for _, t := range e.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track sends the result of an episode to each Tracker
func (e *Episodic) track(result EpisodeResult) {
	for _, t := range e.trackers {
		t.Track(result)
	}
}
