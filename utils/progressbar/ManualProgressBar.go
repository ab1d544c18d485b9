// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	w               io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar that is width
// characters wide, reaches 100% after max calls to Increment and draws
// to w
func NewManualProgressBar(w io.Writer, width, max int) *ManualProgressBar {
	if max <= 0 {
		max = 1
	}
	return &ManualProgressBar{
		w:           w,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Display redraws the progress bar over the current line
func (p *ManualProgressBar) Display() {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]",
		p.currentProgress/p.maxProgress*100,
		time.Since(p.startTime).Truncate(time.Second))

	fmt.Fprintf(p.w, "\n\033[1A\033[K%v", p.bar.String())
}

// Close moves the cursor past the progress bar
func (p *ManualProgressBar) Close() error {
	_, err := fmt.Fprintln(p.w)
	return err
}
