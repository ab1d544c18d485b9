package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/valleycar/experiment"
	"github.com/samuelfneumann/valleycar/experiment/plot"
	"github.com/samuelfneumann/valleycar/experiment/trackers"
)

func main() {
	configPath := flag.String("config", "configs/config.json",
		"path to the JSON experiment configuration")
	runs := flag.Int("runs", 1, "number of independent runs")
	out := flag.String("out", "results", "directory to save results to")
	flag.Parse()

	c, err := experiment.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("could not create output directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *runs > 1 {
		sweep(ctx, c, *runs, *out)
		return
	}
	single(ctx, c, *out)
}

// single trains the agent once, then demonstrates the greedy policy and
// plots the results
func single(ctx context.Context, c experiment.Config, out string) {
	lengths := trackers.NewEpisodeLength(filepath.Join(out, "EpisodeLength.bin"))
	returns := trackers.NewReturn(filepath.Join(out, "Return.bin"))
	epsilon := trackers.NewEpsilon(filepath.Join(out, "Epsilon.bin"))
	progress := trackers.NewProgress(os.Stdout, 50, c.Episodes)

	e, err := c.Create(0, lengths, returns, epsilon, progress)
	if err != nil {
		log.Fatalf("could not create experiment: %v", err)
	}

	results, err := e.Run(ctx)
	if err != nil {
		log.Fatalf("could not run experiment: %v", err)
	}
	if err := e.Save(); err != nil {
		log.Fatalf("could not save results: %v", err)
	}

	summarize(results)
	fmt.Printf("Mean return over the last %d episodes: %v\n", plot.Window,
		aurora.Cyan(fmt.Sprintf("%.3f", returns.Mean(plot.Window))))
	fmt.Printf("Visited states: %v  |  Policy entries: %v\n",
		e.Critic().VisitedCount(), e.Actor().PolicySize())

	greedy, states, err := e.Greedy(ctx)
	if err != nil {
		log.Fatalf("could not run greedy episode: %v", err)
	}
	status := aurora.Red("did not reach the summit")
	if greedy.Goal {
		status = aurora.Green("reached the summit")
	}
	fmt.Printf("Greedy policy %v in %d steps\n", status, greedy.Steps)

	curve := filepath.Join(out, "LearningCurve.html")
	if err := plot.LearningCurve(curve, lengths.Data()); err != nil {
		log.Fatalf("could not plot learning curve: %v", err)
	}

	positions := make([]float64, len(states))
	for i, s := range states {
		positions[i] = s.AtVec(0)
	}
	landscape := filepath.Join(out, "Landscape.png")
	if err := plot.Landscape(landscape, positions); err != nil {
		log.Fatalf("could not plot landscape: %v", err)
	}

	fmt.Printf("Saved results to %v\n", aurora.Blue(out))
}

// sweep trains the agent over multiple independent runs and saves the
// episode lengths of each run
func sweep(ctx context.Context, c experiment.Config, runs int, out string) {
	lengths := make([]*trackers.EpisodeLength, runs)
	t := func(run int) []experiment.Tracker {
		filename := filepath.Join(out, fmt.Sprintf("EpisodeLength_%d.bin", run))
		lengths[run] = trackers.NewEpisodeLength(filename)
		return []experiment.Tracker{lengths[run]}
	}

	results, err := experiment.Sweep(ctx, c, runs, t)
	if err != nil {
		log.Fatalf("could not run sweep: %v", err)
	}

	for run, r := range results {
		fmt.Printf("Run %d: ", run)
		summarize(r)

		curve := filepath.Join(out, fmt.Sprintf("LearningCurve_%d.html", run))
		if err := plot.LearningCurve(curve, lengths[run].Data()); err != nil {
			log.Fatalf("could not plot learning curve: %v", err)
		}
	}
	fmt.Printf("Saved results to %v\n", aurora.Blue(out))
}

// summarize prints the number of episodes which reached the goal and
// the mean episode length
func summarize(results []experiment.EpisodeResult) {
	if len(results) == 0 {
		fmt.Println(aurora.Yellow("no episodes completed"))
		return
	}

	steps := make([]float64, len(results))
	goals := 0
	for i, r := range results {
		steps[i] = float64(r.Steps)
		if r.Goal {
			goals++
		}
	}

	fmt.Printf("%v/%d episodes reached the goal  |  Mean length: %.1f\n",
		aurora.Green(goals), len(results),
		floats.Sum(steps)/float64(len(steps)))
}
