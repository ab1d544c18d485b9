// Package critic implements the state-value critic of an
// eligibility-trace actor-critic agent
package critic

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/valleycar/agent/trace"
	"github.com/samuelfneumann/valleycar/utils/matutils/tilecoder"
)

// ValueFunction approximates state values from encoded features
type ValueFunction interface {
	// Predict returns the value of the features
	Predict(features []float64) (float64, error)

	// Gradient returns the gradient of the predicted value with respect
	// to each learnable parameter
	Gradient(features []float64) ([]*tensor.Dense, error)

	// Apply performs a single optimization step moving the parameters
	// along update
	Apply(update []*tensor.Dense) error
}

// Config represents a configuration of a Critic
type Config struct {
	DiscountFactor float64
	TraceDecay     float64 // λ
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	if c.DiscountFactor < 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("validate: discount factor %v ∉ [0, 1]",
			c.DiscountFactor)
	}
	if c.TraceDecay < 0 || c.TraceDecay > 1 {
		return fmt.Errorf("validate: trace decay %v ∉ [0, 1]", c.TraceDecay)
	}
	return nil
}

// Critic estimates state values and computes TD errors for an actor.
// Its value function is trained with gradients reshaped by an
// eligibility trace.
//
// The first time a state is observed, its estimate is a uniform random
// number in [0, 1) rather than a prediction. Observed states are
// remembered for the lifetime of the Critic; the visited set is never
// pruned.
type Critic struct {
	vf       ValueFunction
	modifier *trace.Modifier
	discount float64

	visited map[tilecoder.Key]struct{}
	order   []tilecoder.Key

	seeds distuv.Uniform
}

// New returns a new Critic training vf. The seed determines the
// estimates of novel states.
func New(vf ValueFunction, c Config, seed uint64) (*Critic, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if vf == nil {
		return nil, fmt.Errorf("new: nil value function")
	}

	return &Critic{
		vf:       vf,
		modifier: trace.New(c.DiscountFactor, c.TraceDecay),
		discount: c.DiscountFactor,
		visited:  make(map[tilecoder.Key]struct{}),
		seeds:    distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(seed)},
	}, nil
}

// ObserveAndEstimate returns the estimated value of state. If state
// was never observed before, it is recorded as visited and a uniform
// random estimate is returned. Otherwise the value function's
// prediction is returned.
func (c *Critic) ObserveAndEstimate(state *tilecoder.Encoding) (float64,
	error) {
	key := state.Key()
	if _, ok := c.visited[key]; !ok {
		c.visited[key] = struct{}{}
		c.order = append(c.order, key)
		return c.seeds.Rand(), nil
	}

	v, err := c.vf.Predict(state.Features())
	if err != nil {
		return 0, fmt.Errorf("observeAndEstimate: %v", err)
	}
	return v, nil
}

// TDError returns reward + γV(next) - V(current). The current state is
// estimated before the next state.
func (c *Critic) TDError(current, next *tilecoder.Encoding,
	reward float64) (float64, error) {
	vCurrent, err := c.ObserveAndEstimate(current)
	if err != nil {
		return 0, fmt.Errorf("tdError: current state: %v", err)
	}

	vNext, err := c.ObserveAndEstimate(next)
	if err != nil {
		return 0, fmt.Errorf("tdError: next state: %v", err)
	}

	return reward + c.discount*vNext - vCurrent, nil
}

// Train takes one optimization step of the value function at state,
// along the eligibility trace scaled by tdError
func (c *Critic) Train(state *tilecoder.Encoding, tdError float64) error {
	grad, err := c.vf.Gradient(state.Features())
	if err != nil {
		return fmt.Errorf("train: could not compute gradient: %v", err)
	}

	update, err := c.modifier.Modify(grad, tdError)
	if err != nil {
		return fmt.Errorf("train: %v", err)
	}

	if err := c.vf.Apply(update); err != nil {
		return fmt.Errorf("train: could not apply update: %v", err)
	}
	return nil
}

// DecayTrace decays the eligibility trace by γλ. It should be called
// exactly once per environment step.
func (c *Critic) DecayTrace() error {
	return c.modifier.Decay()
}

// ResetEpisode clears the eligibility trace. The value function and
// visited set persist.
func (c *Critic) ResetEpisode() {
	c.modifier.Reset()
}

// Visited returns whether a state with the given key has been observed
func (c *Critic) Visited(key tilecoder.Key) bool {
	_, ok := c.visited[key]
	return ok
}

// VisitedCount returns the number of distinct states observed
func (c *Critic) VisitedCount() int {
	return len(c.visited)
}

// VisitedStates returns the keys of observed states in the order they
// were first observed
func (c *Critic) VisitedStates() []tilecoder.Key {
	out := make([]tilecoder.Key, len(c.order))
	copy(out, c.order)
	return out
}

// Trace returns a copy of the current eligibility trace
func (c *Critic) Trace() []*tensor.Dense {
	return c.modifier.Trace()
}
