package trackers

import (
	"io"

	"github.com/samuelfneumann/valleycar/experiment"
	"github.com/samuelfneumann/valleycar/utils/progressbar"
)

// Progress displays a progress bar which advances by one for each
// tracked episode. It saves nothing.
type Progress struct {
	bar *progressbar.ManualProgressBar
}

// NewProgress returns a new Progress Tracker for an experiment of
// the given number of episodes, drawing to w
func NewProgress(w io.Writer, width, episodes int) *Progress {
	bar := progressbar.NewManualProgressBar(w, width, episodes)
	return &Progress{bar}
}

// Track advances and redraws the progress bar
func (p *Progress) Track(experiment.EpisodeResult) {
	p.bar.Increment()
	p.bar.Display()
}

// Save finishes the progress bar's line
func (p *Progress) Save() error {
	return p.bar.Close()
}
