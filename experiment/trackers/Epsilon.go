package trackers

import (
	"fmt"

	"github.com/samuelfneumann/valleycar/experiment"
)

// Epsilon tracks and saves the exploration rate of the actor at the
// end of each episode
type Epsilon struct {
	epsilons []float64
	filename string
}

// NewEpsilon creates and returns a new *Epsilon Tracker
func NewEpsilon(filename string) *Epsilon {
	return &Epsilon{filename: filename}
}

// Track caches the exploration rate at the end of an episode
func (e *Epsilon) Track(result experiment.EpisodeResult) {
	e.epsilons = append(e.epsilons, result.Epsilon)
}

// Data returns a copy of the exploration rates tracked so far
func (e *Epsilon) Data() []float64 {
	out := make([]float64, len(e.epsilons))
	copy(out, e.epsilons)
	return out
}

// Save saves the data tracked by the Epsilon Tracker to disk.
func (e *Epsilon) Save() error {
	if err := save(e.filename, e.epsilons); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
