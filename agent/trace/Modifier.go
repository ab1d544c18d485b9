// Package trace implements eligibility traces over the gradients of a
// function approximator's parameters.
//
// A Modifier accumulates every gradient it is given into a trace with
// the same shape as the gradient, and returns the trace scaled by the
// current TD error as the update to apply. Between steps the trace is
// decayed by γλ, and it is cleared at the start of every episode.
package trace

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

// Modifier reshapes gradients with an accumulating eligibility trace
type Modifier struct {
	decay float64 // γλ
	trace []*tensor.Dense
}

// New returns a new Modifier which decays its trace by
// discount * traceDecay on each call to Decay
func New(discount, traceDecay float64) *Modifier {
	return &Modifier{decay: discount * traceDecay}
}

// Modify adds grad to the trace and returns the trace scaled by
// tdError. The returned tensors are fresh and do not alias the trace
// or grad. On the first call after construction or Reset, the trace is
// zero-initialized with the shapes of grad.
func (m *Modifier) Modify(grad []*tensor.Dense,
	tdError float64) ([]*tensor.Dense, error) {
	if m.trace == nil {
		m.trace = zeroesLike(grad)
	}

	if len(grad) != len(m.trace) {
		return nil, fmt.Errorf("modify: expected gradients for %d parameters, "+
			"have %d", len(m.trace), len(grad))
	}

	update := make([]*tensor.Dense, len(grad))
	for i := range grad {
		if !grad[i].Shape().Eq(m.trace[i].Shape()) {
			return nil, fmt.Errorf("modify: gradient %d has shape %v, "+
				"trace has shape %v", i, grad[i].Shape(), m.trace[i].Shape())
		}

		g, err := backing(grad[i])
		if err != nil {
			return nil, fmt.Errorf("modify: gradient %d: %v", i, err)
		}
		tr, err := backing(m.trace[i])
		if err != nil {
			return nil, fmt.Errorf("modify: trace %d: %v", i, err)
		}

		floats.Add(tr, g)

		u := make([]float64, len(tr))
		floats.ScaleTo(u, tdError, tr)
		update[i] = tensor.New(
			tensor.WithShape(m.trace[i].Shape().Clone()...),
			tensor.WithBacking(u),
		)
	}

	return update, nil
}

// Decay multiplies the trace by γλ. Decaying an uninitialized trace
// does nothing.
func (m *Modifier) Decay() error {
	for i := range m.trace {
		tr, err := backing(m.trace[i])
		if err != nil {
			return fmt.Errorf("decay: trace %d: %v", i, err)
		}
		floats.Scale(m.decay, tr)
	}
	return nil
}

// Reset marks the trace as uninitialized
func (m *Modifier) Reset() {
	m.trace = nil
}

// Initialized returns whether the trace has been shaped by a call to
// Modify since the last Reset
func (m *Modifier) Initialized() bool {
	return m.trace != nil
}

// Trace returns a copy of the current trace, nil if uninitialized
func (m *Modifier) Trace() []*tensor.Dense {
	if m.trace == nil {
		return nil
	}

	out := make([]*tensor.Dense, len(m.trace))
	for i := range m.trace {
		out[i] = m.trace[i].Clone().(*tensor.Dense)
	}
	return out
}

// zeroesLike returns zero tensors with the shapes of t
func zeroesLike(t []*tensor.Dense) []*tensor.Dense {
	out := make([]*tensor.Dense, len(t))
	for i := range t {
		out[i] = tensor.New(
			tensor.WithShape(t[i].Shape().Clone()...),
			tensor.Of(tensor.Float64),
		)
	}
	return out
}

// backing returns the float64 backing slice of t
func backing(t *tensor.Dense) ([]float64, error) {
	data, ok := t.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("expected float64 data, have %T", t.Data())
	}
	return data, nil
}
