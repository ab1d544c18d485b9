package trackers

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/valleycar/experiment"
)

// Return tracks and saves the episodic return in an experiment, the
// undiscounted sum of rewards of each episode
type Return struct {
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track caches the return of a finished episode
func (r *Return) Track(result experiment.EpisodeResult) {
	r.episodeReturns = append(r.episodeReturns, result.Return)
}

// Data returns a copy of the returns tracked so far
func (r *Return) Data() []float64 {
	out := make([]float64, len(r.episodeReturns))
	copy(out, r.episodeReturns)
	return out
}

// Mean returns the mean return over the last n episodes, or over all
// episodes if fewer than n were tracked
func (r *Return) Mean(n int) float64 {
	if len(r.episodeReturns) == 0 || n <= 0 {
		return 0
	}
	if n > len(r.episodeReturns) {
		n = len(r.episodeReturns)
	}
	last := r.episodeReturns[len(r.episodeReturns)-n:]
	return floats.Sum(last) / float64(n)
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	if err := save(r.filename, r.episodeReturns); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
