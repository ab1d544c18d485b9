// Package experiment implements functionality for running experiments
// of an eligibility-trace actor-critic agent on episodic environments
package experiment

import "fmt"

// EpisodeResult summarizes a single finished episode
type EpisodeResult struct {
	Episode int
	Steps   int
	Return  float64
	Epsilon float64 // Exploration rate at the end of the episode
	Goal    bool    // Whether the episode ended at the goal
}

func (e EpisodeResult) String() string {
	return fmt.Sprintf("Episode %d  |  Steps: %d  |  Return: %.2f  |  "+
		"Epsilon: %.4f  |  Goal: %v", e.Episode, e.Steps, e.Return,
		e.Epsilon, e.Goal)
}

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished. Trackers receive the result of every
// finished training episode.
type Tracker interface {
	Track(EpisodeResult)
	Save() error
}
