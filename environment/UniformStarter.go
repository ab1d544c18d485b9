package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box. A
// degenerate interval (Min == Max) pins that feature to a fixed value.
type UniformStarter struct {
	bounds []r1.Interval
	rand   *distmv.Uniform
	fixed  []bool
}

// NewUniformStarter returns a new UniformStarter over the argument
// bounds, one interval per state feature.
func NewUniformStarter(bounds []r1.Interval, seed uint64) *UniformStarter {
	if len(bounds) == 0 {
		panic("newUniformStarter: at least one bound is required")
	}

	// distmv.Uniform requires Min < Max, so degenerate intervals are
	// widened for sampling and overwritten afterwards
	fixed := make([]bool, len(bounds))
	sampleBounds := make([]r1.Interval, len(bounds))
	for i, b := range bounds {
		if b.Min > b.Max {
			panic(fmt.Sprintf("newUniformStarter: illegal bound %v", b))
		}
		sampleBounds[i] = b
		if b.Min == b.Max {
			fixed[i] = true
			sampleBounds[i] = r1.Interval{Min: b.Min, Max: b.Min + 1}
		}
	}

	source := rand.NewSource(seed)
	u := distmv.NewUniform(sampleBounds, source)

	return &UniformStarter{bounds, u, fixed}
}

// Start samples and returns a starting state
func (u *UniformStarter) Start() mat.Vector {
	state := u.rand.Rand(nil)
	for i, fixed := range u.fixed {
		if fixed {
			state[i] = u.bounds[i].Min
		}
	}
	return mat.NewVecDense(len(state), state)
}
