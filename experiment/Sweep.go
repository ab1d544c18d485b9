package experiment

import (
	"context"
	"fmt"
	"sync"
)

// Sweep runs independent runs of the experiment described by c
// concurrently, one goroutine per run. Each run constructs its own
// environment, encoder, actor and critic, so runs share no learning
// state. The trackers function, if not nil, returns the Trackers of a
// run, which are saved once the run finishes.
//
// Results are indexed by run. If any run fails, the error of the first
// failing run is returned together with the results gathered so far.
func Sweep(ctx context.Context, c Config, runs int,
	trackers func(run int) []Tracker) ([][]EpisodeResult, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("sweep: runs must be positive, have %v", runs)
	}

	experiments := make([]*Episodic, runs)
	for run := range experiments {
		var t []Tracker
		if trackers != nil {
			t = trackers(run)
		}

		exp, err := c.Create(run, t...)
		if err != nil {
			return nil, fmt.Errorf("sweep: run %d: %v", run, err)
		}
		experiments[run] = exp
	}

	results := make([][]EpisodeResult, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for run, exp := range experiments {
		wg.Add(1)
		go func(run int, exp *Episodic) {
			defer wg.Done()
			results[run], errs[run] = exp.Run(ctx)
			if errs[run] == nil {
				errs[run] = exp.Save()
			}
		}(run, exp)
	}
	wg.Wait()

	for run, err := range errs {
		if err != nil {
			return results, fmt.Errorf("sweep: run %d: %v", run, err)
		}
	}
	return results, nil
}
