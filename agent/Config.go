package agent

import "fmt"

// Config represents a configuration for creating an Actor
type Config struct {
	LearningRate   float64
	DiscountFactor float64
	TraceDecay     float64 // λ

	// Epsilon is the initial exploration rate. It is multiplied by
	// EpsilonDecay before every action selection.
	Epsilon      float64
	EpsilonDecay float64

	// DecayAllTraces decays the eligibility of every tracked
	// state-action pair once per step instead of only those on the
	// current trajectory.
	DecayAllTraces bool
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive, "+
			"have %v", c.LearningRate)
	}
	if c.DiscountFactor < 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("validate: discount factor %v ∉ [0, 1]",
			c.DiscountFactor)
	}
	if c.TraceDecay < 0 || c.TraceDecay > 1 {
		return fmt.Errorf("validate: trace decay %v ∉ [0, 1]", c.TraceDecay)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon %v ∉ [0, 1]", c.Epsilon)
	}
	if c.EpsilonDecay < 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("validate: epsilon decay %v ∉ [0, 1]",
			c.EpsilonDecay)
	}
	return nil
}
