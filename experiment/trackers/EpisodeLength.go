package trackers

import (
	"fmt"

	"github.com/samuelfneumann/valleycar/experiment"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment. Plotted against the episode number, episode lengths form
// the learning curve of an agent on Mountain Car.
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the length of a finished episode
func (e *EpisodeLength) Track(r experiment.EpisodeResult) {
	e.episodeLengths = append(e.episodeLengths, r.Steps)
}

// Data returns a copy of the episode lengths tracked so far
func (e *EpisodeLength) Data() []int {
	out := make([]int, len(e.episodeLengths))
	copy(out, e.episodeLengths)
	return out
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	if err := save(e.filename, e.episodeLengths); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
