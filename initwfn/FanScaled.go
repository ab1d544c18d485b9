package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// GlorotUConfig draws weights uniformly with a range scaled by the
// fan-in and fan-out of the layer. It suits the sigmoid output and
// tanh hidden layers of a value network.
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a Glorot uniform initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{Gain: gain})
}

func (g GlorotUConfig) Type() Type { return GlorotU }

func (g GlorotUConfig) Create() G.InitWFn {
	return G.GlorotU(g.Gain)
}

// Validate returns an error if the gain is not positive
func (g GlorotUConfig) Validate() error {
	return validateGain(g.Gain)
}

// HeUConfig draws weights uniformly with a range scaled by the fan-in
// of the layer, for ReLU hidden layers
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a He uniform initializer
func NewHeU(gain float64) (*InitWFn, error) {
	return newInitWFn(HeUConfig{Gain: gain})
}

func (h HeUConfig) Type() Type { return HeU }

func (h HeUConfig) Create() G.InitWFn {
	return G.HeU(h.Gain)
}

// Validate returns an error if the gain is not positive
func (h HeUConfig) Validate() error {
	return validateGain(h.Gain)
}

// validateGain returns an error if gain is not positive
func validateGain(gain float64) error {
	if gain <= 0 {
		return fmt.Errorf("validate: gain must be positive, have %v", gain)
	}
	return nil
}
