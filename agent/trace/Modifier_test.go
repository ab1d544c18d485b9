package trace

import (
	"testing"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

const tol = 1e-12

func grads() []*tensor.Dense {
	return []*tensor.Dense{
		tensor.New(tensor.WithShape(2, 2),
			tensor.WithBacking([]float64{1, -2, 3, 0.5})),
		tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{4, -1})),
	}
}

func data(t *testing.T, d *tensor.Dense) []float64 {
	t.Helper()
	v, ok := d.Data().([]float64)
	if !ok {
		t.Fatalf("expected []float64 data, have %T", d.Data())
	}
	return v
}

func TestFirstModifyScalesGradient(t *testing.T) {
	m := New(0.9, 0.8)
	if m.Initialized() {
		t.Fatal("new modifier should be uninitialized")
	}

	g := grads()
	update, err := m.Modify(g, 2.0)
	if err != nil {
		t.Fatal(err)
	}

	for i := range g {
		want := make([]float64, len(data(t, g[i])))
		floats.ScaleTo(want, 2.0, data(t, g[i]))
		if !floats.EqualApprox(data(t, update[i]), want, tol) {
			t.Errorf("update %d: want(%v) have(%v)", i, want,
				data(t, update[i]))
		}
		if !update[i].Shape().Eq(g[i].Shape()) {
			t.Errorf("update %d shape: want(%v) have(%v)", i, g[i].Shape(),
				update[i].Shape())
		}
	}

	// The update must not alias the trace
	data(t, update[0])[0] = 100
	if data(t, m.Trace()[0])[0] != 1 {
		t.Errorf("update aliases the trace")
	}
}

func TestResetEquivalentToFresh(t *testing.T) {
	used := New(0.9, 0.8)
	for i := 0; i < 3; i++ {
		if _, err := used.Modify(grads(), 1.5); err != nil {
			t.Fatal(err)
		}
		if err := used.Decay(); err != nil {
			t.Fatal(err)
		}
	}
	used.Reset()
	if used.Initialized() {
		t.Fatal("reset modifier should be uninitialized")
	}

	fresh := New(0.9, 0.8)

	have, err := used.Modify(grads(), -0.7)
	if err != nil {
		t.Fatal(err)
	}
	want, err := fresh.Modify(grads(), -0.7)
	if err != nil {
		t.Fatal(err)
	}

	for i := range want {
		if !floats.EqualApprox(data(t, have[i]), data(t, want[i]), tol) {
			t.Errorf("update %d after reset: want(%v) have(%v)", i,
				data(t, want[i]), data(t, have[i]))
		}
	}
}

func TestAccumulateAndDecay(t *testing.T) {
	const discount, lambda = 0.5, 0.5
	m := New(discount, lambda)

	if _, err := m.Modify(grads(), 1); err != nil {
		t.Fatal(err)
	}
	if err := m.Decay(); err != nil {
		t.Fatal(err)
	}
	update, err := m.Modify(grads(), 3)
	if err != nil {
		t.Fatal(err)
	}

	// trace = g*γλ + g, update = 3 * trace
	f := discount * lambda
	g := grads()
	for i := range g {
		want := make([]float64, len(data(t, g[i])))
		floats.ScaleTo(want, 3*(1+f), data(t, g[i]))
		if !floats.EqualApprox(data(t, update[i]), want, tol) {
			t.Errorf("update %d: want(%v) have(%v)", i, want,
				data(t, update[i]))
		}
	}
}

func TestDecayUninitialized(t *testing.T) {
	m := New(0.9, 0.9)
	if err := m.Decay(); err != nil {
		t.Fatal(err)
	}
	if m.Initialized() || m.Trace() != nil {
		t.Errorf("decay should not initialize the trace")
	}
}

func TestShapeMismatch(t *testing.T) {
	m := New(0.9, 0.9)
	if _, err := m.Modify(grads(), 1); err != nil {
		t.Fatal(err)
	}

	wrongShape := []*tensor.Dense{
		tensor.New(tensor.WithShape(4), tensor.WithBacking([]float64{1, 2, 3, 4})),
		tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{1, 2})),
	}
	if _, err := m.Modify(wrongShape, 1); err == nil {
		t.Errorf("want error for mismatched shape")
	}

	if _, err := m.Modify(grads()[:1], 1); err == nil {
		t.Errorf("want error for mismatched number of parameters")
	}
}
