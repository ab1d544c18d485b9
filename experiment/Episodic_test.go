package experiment

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/valleycar/agent"
	"github.com/samuelfneumann/valleycar/agent/critic"
	"github.com/samuelfneumann/valleycar/environment"
	ts "github.com/samuelfneumann/valleycar/timestep"
	"github.com/samuelfneumann/valleycar/utils/matutils/tilecoder"
)

const tol = 1e-12

// corridor is an environment whose position moves right by 0.5 on
// every step, starting at -0.75. It reaches its goal after goalAt
// steps, never if goalAt <= 0.
type corridor struct {
	step   int
	goalAt int
	legal  []environment.Action
}

func (c *corridor) observation() mat.Vector {
	p := -0.75 + 0.5*float64(c.step)
	if p > 0.75 {
		p = 0.75
	}
	return mat.NewVecDense(2, []float64{p, 0})
}

func (c *corridor) Reset() (ts.TimeStep, error) {
	c.step = 0
	return ts.New(ts.First, 0, c.observation(), 0), nil
}

func (c *corridor) Step(environment.Action) (ts.TimeStep, bool, error) {
	c.step++
	step := ts.New(ts.Mid, -1, c.observation(), c.step)
	if c.goalAt > 0 && c.step >= c.goalAt {
		step.StepType = ts.Last
		step.SetEnd(ts.TerminalStateReached)
		return step, true, nil
	}
	return step, false, nil
}

func (c *corridor) LegalActions() []environment.Action {
	return c.legal
}

// constant is a ValueFunction which predicts the same value everywhere
// and counts the updates applied to it
type constant struct {
	features int
	applied  int
}

func (c *constant) Predict([]float64) (float64, error) { return 0.5, nil }

func (c *constant) Gradient([]float64) ([]*tensor.Dense, error) {
	return []*tensor.Dense{
		tensor.New(tensor.WithShape(c.features), tensor.Of(tensor.Float64)),
	}, nil
}

func (c *constant) Apply([]*tensor.Dense) error {
	c.applied++
	return nil
}

// results records every result it tracks
type results struct {
	tracked []EpisodeResult
	saved   bool
}

func (r *results) Track(e EpisodeResult) { r.tracked = append(r.tracked, e) }
func (r *results) Save() error           { r.saved = true; return nil }

func newExperiment(t *testing.T, e environment.Environment, c agent.Config,
	episodes, maxSteps int) (*Episodic, *constant) {
	t.Helper()

	encoder, err := tilecoder.NewCoarseCoder(
		[]r1.Interval{{Min: -1, Max: 1}, {Min: -1, Max: 1}},
		[]int{4, 1},
		[]float64{0, 0},
	)
	if err != nil {
		t.Fatal(err)
	}

	actor, err := agent.NewActor(c, 1)
	if err != nil {
		t.Fatal(err)
	}

	vf := &constant{features: encoder.Len()}
	crit, err := critic.New(vf, critic.Config{DiscountFactor: 0.9,
		TraceDecay: 0.5}, 1)
	if err != nil {
		t.Fatal(err)
	}

	exp, err := NewEpisodic(e, encoder, actor, crit, episodes, maxSteps)
	if err != nil {
		t.Fatal(err)
	}
	return exp, vf
}

func greedyConfig() agent.Config {
	return agent.Config{
		LearningRate:   0.1,
		DiscountFactor: 0.9,
		TraceDecay:     0.5,
		Epsilon:        0,
		EpsilonDecay:   1,
	}
}

func TestStepBudget(t *testing.T) {
	e := &corridor{legal: environment.Actions()}
	exp, vf := newExperiment(t, e, greedyConfig(), 1, 5)

	result, err := exp.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if result.Steps != 5 {
		t.Errorf("steps: want(5) have(%v)", result.Steps)
	}
	if result.Goal {
		t.Errorf("goal should not be reached")
	}
	if result.Return != -5 {
		t.Errorf("return: want(-5) have(%v)", result.Return)
	}
	if vf.applied != 5 {
		t.Errorf("critic updates: want(5) have(%v)", vf.applied)
	}
}

func TestGoalEndsEpisode(t *testing.T) {
	e := &corridor{goalAt: 3, legal: environment.Actions()}
	exp, _ := newExperiment(t, e, greedyConfig(), 1, 100)

	result, err := exp.RunEpisode()
	if err != nil {
		t.Fatal(err)
	}
	if result.Steps != 3 || !result.Goal {
		t.Errorf("result: want 3 steps at goal, have %v", result)
	}
}

func TestTrajectoryEligibility(t *testing.T) {
	for _, decayAll := range []bool{false, true} {
		c := greedyConfig()
		c.DecayAllTraces = decayAll
		e := &corridor{legal: []environment.Action{environment.Coast}}
		exp, _ := newExperiment(t, e, c, 1, 3)

		if _, err := exp.RunEpisode(); err != nil {
			t.Fatal(err)
		}

		// Replay the states of the episode to recover their keys
		var keys []tilecoder.Key
		e.Reset()
		for i := 0; i < 3; i++ {
			enc, err := exp.encoder.Encode(e.observation())
			if err != nil {
				t.Fatal(err)
			}
			keys = append(keys, enc.Key())
			e.Step(environment.Coast)
		}

		f := c.DiscountFactor * c.TraceDecay
		want := []float64{f * f, f, 1}
		for i, key := range keys {
			have := exp.Actor().Eligibility(key, environment.Coast)
			if !scalar.EqualWithinAbs(have, want[i], tol) {
				t.Errorf("decayAll(%v): eligibility of step %d: want(%v) "+
					"have(%v)", decayAll, i, want[i], have)
			}
		}

		if n := exp.Critic().VisitedCount(); n != 4 {
			t.Errorf("visited states: want(4) have(%v)", n)
		}
	}
}

func TestRunTracksEpisodes(t *testing.T) {
	e := &corridor{legal: environment.Actions()}
	exp, _ := newExperiment(t, e, greedyConfig(), 3, 4)
	tracker := &results{}
	exp.Register(tracker)

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 || len(tracker.tracked) != 3 {
		t.Fatalf("episodes: want(3) have(%v, %v tracked)", len(res),
			len(tracker.tracked))
	}
	for i, r := range res {
		if r.Episode != i || r.Steps != 4 {
			t.Errorf("result %d: %v", i, r)
		}
	}

	// All episodes have been run
	more, err := exp.Run(context.Background())
	if err != nil || len(more) != 0 {
		t.Errorf("finished experiment ran %d more episodes", len(more))
	}

	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}
	if !tracker.saved {
		t.Errorf("tracker not saved")
	}
}

func TestRunCancelled(t *testing.T) {
	e := &corridor{legal: environment.Actions()}
	exp, _ := newExperiment(t, e, greedyConfig(), 3, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := exp.Run(ctx)
	if err == nil {
		t.Errorf("want error for a cancelled context")
	}
	if len(res) != 0 {
		t.Errorf("cancelled run completed %d episodes", len(res))
	}
}

func TestGreedyDoesNotLearn(t *testing.T) {
	c := greedyConfig()
	c.Epsilon = 0.5
	e := &corridor{goalAt: 2, legal: environment.Actions()}
	exp, vf := newExperiment(t, e, c, 1, 10)

	if _, err := exp.RunEpisode(); err != nil {
		t.Fatal(err)
	}
	epsilon := exp.Actor().Epsilon()
	policy := exp.Actor().PolicySize()
	applied := vf.applied

	result, states, err := exp.Greedy(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Goal || len(states) != result.Steps+1 {
		t.Errorf("greedy: want goal with %d states, have %v and %d states",
			result.Steps+1, result, len(states))
	}
	if exp.Actor().Epsilon() != epsilon {
		t.Errorf("epsilon changed by greedy episode")
	}
	if exp.Actor().PolicySize() != policy || vf.applied != applied {
		t.Errorf("greedy episode should not learn")
	}
}

func TestNewEpisodicInvalid(t *testing.T) {
	if _, err := NewEpisodic(&corridor{}, nil, nil, nil, 0, 10); err == nil {
		t.Errorf("want error for zero episodes")
	}
	if _, err := NewEpisodic(&corridor{}, nil, nil, nil, 10, 0); err == nil {
		t.Errorf("want error for zero max steps")
	}
}
