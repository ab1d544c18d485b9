package environment

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/valleycar/timestep"
)

func TestActions(t *testing.T) {
	for _, a := range Actions() {
		if !a.Valid() {
			t.Errorf("action %v should be valid", a)
		}
	}
	if Action(2).Valid() {
		t.Errorf("action 2 should be invalid")
	}
	if s := Action(5).String(); s != "Action(5)" {
		t.Errorf("string: want(Action(5)) have(%v)", s)
	}
}

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: -0.6, Max: -0.4}, {Min: 0, Max: 0}}
	s := NewUniformStarter(bounds, 1)

	for i := 0; i < 100; i++ {
		state := s.Start()
		if p := state.AtVec(0); p < -0.6 || p > -0.4 {
			t.Fatalf("position %v ∉ %v", p, bounds[0])
		}
		if v := state.AtVec(1); v != 0 {
			t.Fatalf("fixed velocity: want(0) have(%v)", v)
		}
	}

	// Same seed, same starts
	a, b := NewUniformStarter(bounds, 7), NewUniformStarter(bounds, 7)
	if !mat.Equal(a.Start(), b.Start()) {
		t.Errorf("starters with the same seed should agree")
	}
}

func TestUniformStarterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("want panic for an illegal bound")
		}
	}()
	NewUniformStarter([]r1.Interval{{Min: 1, Max: 0}}, 1)
}

func TestStepLimit(t *testing.T) {
	s := NewStepLimit(3)
	obs := mat.NewVecDense(2, nil)

	step := timestep.New(timestep.Mid, 0, obs, 2)
	if s.End(&step) {
		t.Errorf("step 2 should not end a 3 step episode")
	}

	step = timestep.New(timestep.Mid, 0, obs, 3)
	if !s.End(&step) {
		t.Fatalf("step 3 should end a 3 step episode")
	}
	if !step.Last() || step.EndType() != timestep.Timeout {
		t.Errorf("want last timeout step, have %v", step)
	}
}

func TestFunctionEnder(t *testing.T) {
	f := NewFunctionEnder(func(v mat.Vector) bool { return v.AtVec(0) > 0 },
		timestep.TerminalStateReached)

	step := timestep.New(timestep.Mid, 0, mat.NewVecDense(1, []float64{-1}), 1)
	if f.End(&step) || step.Last() {
		t.Errorf("episode should not end")
	}

	step = timestep.New(timestep.Mid, 0, mat.NewVecDense(1, []float64{1}), 1)
	if !f.End(&step) {
		t.Fatalf("episode should end")
	}
	if step.EndType() != timestep.TerminalStateReached {
		t.Errorf("end type: want(%v) have(%v)", timestep.TerminalStateReached,
			step.EndType())
	}

	// The first recorded end reason is kept
	NewStepLimit(1).End(&step)
	if step.EndType() != timestep.TerminalStateReached {
		t.Errorf("end type overwritten by %v", step.EndType())
	}
}
