// Package network implements a multi-layered perceptron that predicts
// state values from encoded features
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/valleycar/initwfn"
	"github.com/samuelfneumann/valleycar/solver"
)

// Config describes the architecture and optimizer of a ValueNet
type Config struct {
	// Hidden holds the number of units of each hidden layer. If empty,
	// a single hidden layer as wide as the input is used.
	Hidden []int

	// Activation of the hidden layers, ReLU if nil
	Activation *Activation `json:",omitempty"`

	Init   *initwfn.InitWFn
	Solver *solver.Solver
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	for i, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("validate: hidden layer %d has %d units", i, h)
		}
	}
	if c.Init == nil {
		return fmt.Errorf("validate: no weight initializer")
	}
	if c.Solver == nil {
		return fmt.Errorf("validate: no solver")
	}
	return nil
}

// ValueNet is an MLP with ReLU hidden layers and a single sigmoid
// output, predicting the value of one sample at a time. The
// computational graph computes both the prediction and its gradient
// with respect to every learnable parameter on each run.
//
// The tape machine adds each pass's gradient into the learnables' dual
// values, so gradients are zeroed before every pass and after every
// read. A gradient is therefore always that of a single prediction.
type ValueNet struct {
	g          *G.ExprGraph
	input      *G.Node
	layers     []*fcLayer
	prediction *G.Node
	predVal    G.Value
	learnables G.Nodes

	vm     G.VM
	solver G.Solver

	features int
}

// New returns a new ValueNet taking features inputs. Each ValueNet
// creates its own solver from c so that solver state is never shared.
func New(features int, c Config) (*ValueNet, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if features <= 0 {
		return nil, fmt.Errorf("new: features must be positive, have %d",
			features)
	}

	hidden := c.Hidden
	if len(hidden) == 0 {
		hidden = []int{features}
	}
	act := c.Activation
	if act == nil {
		act = ReLU()
	}

	g := G.NewGraph()
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(1, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	init := c.Init.InitWFn()
	layers := make([]*fcLayer, 0, len(hidden)+1)
	in := features
	for i, out := range hidden {
		layers = append(layers, newFCLayer(g, in, out, init, act, i))
		in = out
	}
	layers = append(layers, newFCLayer(g, in, 1, init, Sigmoid(),
		len(hidden)))

	net := &ValueNet{
		g:        g,
		input:    input,
		layers:   layers,
		solver:   c.Solver.Config.Create(),
		features: features,
	}

	pred := input
	var err error
	for i, l := range layers {
		if pred, err = l.fwd(pred); err != nil {
			return nil, fmt.Errorf("new: could not compute forward pass of "+
				"layer %d: %v", i, err)
		}
		net.learnables = append(net.learnables, l.learnables()...)
	}
	net.prediction = pred
	G.Read(net.prediction, &net.predVal)

	// The prediction has a single element, so its sum has the same
	// gradient
	cost, err := G.Sum(pred)
	if err != nil {
		return nil, fmt.Errorf("new: could not reduce prediction: %v", err)
	}
	if _, err := G.Grad(cost, net.learnables...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	net.vm = G.NewTapeMachine(g, G.BindDualValues(net.learnables...))

	return net, nil
}

// Features returns the number of inputs
func (v *ValueNet) Features() int {
	return v.features
}

// Learnables returns the learnable nodes, weights and bias for each
// layer in order
func (v *ValueNet) Learnables() G.Nodes {
	return v.learnables
}

// Predict returns the predicted value of features
func (v *ValueNet) Predict(features []float64) (float64, error) {
	if err := v.run(features); err != nil {
		return 0, fmt.Errorf("predict: %v", err)
	}
	defer v.reset()

	pred, err := scalarOf(v.predVal)
	if err != nil {
		return 0, fmt.Errorf("predict: %v", err)
	}
	return pred, nil
}

// Gradient returns the gradient of the predicted value of features
// with respect to each learnable, in the order of Learnables
func (v *ValueNet) Gradient(features []float64) ([]*tensor.Dense, error) {
	if err := v.run(features); err != nil {
		return nil, fmt.Errorf("gradient: %v", err)
	}
	defer v.reset()

	grads := make([]*tensor.Dense, len(v.learnables))
	for i, node := range v.learnables {
		grad, err := node.Grad()
		if err != nil {
			return nil, fmt.Errorf("gradient: could not get gradient of %v: "+
				"%v", node.Name(), err)
		}

		dense, ok := grad.(*tensor.Dense)
		if !ok {
			return nil, fmt.Errorf("gradient: unexpected gradient type %T "+
				"for %v", grad, node.Name())
		}
		grads[i] = dense.Clone().(*tensor.Dense)
	}
	return grads, nil
}

// Apply takes one solver step moving the learnables along update,
// scaled by the solver's step size. Gorgonia solvers descend the
// gradient they are given, so the negated update is passed as the
// gradient.
func (v *ValueNet) Apply(update []*tensor.Dense) error {
	if len(update) != len(v.learnables) {
		return fmt.Errorf("apply: expected %d updates, have %d",
			len(v.learnables), len(update))
	}

	model := make([]G.ValueGrad, len(update))
	for i, node := range v.learnables {
		if !update[i].Shape().Eq(node.Shape()) {
			return fmt.Errorf("apply: update %d has shape %v, want %v", i,
				update[i].Shape(), node.Shape())
		}

		neg, err := update[i].MulScalar(-1.0, true)
		if err != nil {
			return fmt.Errorf("apply: could not negate update %d: %v", i, err)
		}
		model[i] = valueGrad{node: node, grad: neg}
	}

	if err := v.solver.Step(model); err != nil {
		return fmt.Errorf("apply: could not step solver: %v", err)
	}
	return nil
}

// Weights returns copies of the values of the learnables
func (v *ValueNet) Weights() []*tensor.Dense {
	weights := make([]*tensor.Dense, len(v.learnables))
	for i, node := range v.learnables {
		weights[i] = node.Value().(*tensor.Dense).Clone().(*tensor.Dense)
	}
	return weights
}

// SetWeights sets the values of the learnables
func (v *ValueNet) SetWeights(weights []*tensor.Dense) error {
	if len(weights) != len(v.learnables) {
		return fmt.Errorf("setWeights: expected %d tensors, have %d",
			len(v.learnables), len(weights))
	}
	for i, node := range v.learnables {
		if !weights[i].Shape().Eq(node.Shape()) {
			return fmt.Errorf("setWeights: tensor %d has shape %v, want %v",
				i, weights[i].Shape(), node.Shape())
		}
		if err := G.Let(node, weights[i].Clone().(*tensor.Dense)); err != nil {
			return fmt.Errorf("setWeights: %v", err)
		}
	}
	return nil
}

// run sets the input node and runs the machine forward and backward
func (v *ValueNet) run(features []float64) error {
	if len(features) != v.features {
		return fmt.Errorf("invalid number of features\n\twant(%v)"+
			"\n\thave(%v)", v.features, len(features))
	}

	backing := make([]float64, len(features))
	copy(backing, features)
	input := tensor.New(
		tensor.WithBacking(backing),
		tensor.WithShape(v.input.Shape()...),
	)
	if err := G.Let(v.input, input); err != nil {
		return fmt.Errorf("could not set input: %v", err)
	}

	v.zeroGrads()
	if err := v.vm.RunAll(); err != nil {
		v.reset()
		return fmt.Errorf("could not run forward pass: %v", err)
	}
	return nil
}

// reset readies the machine and the learnables' gradients for the
// next pass
func (v *ValueNet) reset() {
	v.vm.Reset()
	v.zeroGrads()
}

// zeroGrads zeroes the gradient held in each learnable's dual value.
// Learnables without a bound gradient have not been run yet.
func (v *ValueNet) zeroGrads() {
	for _, node := range v.learnables {
		grad, err := node.Grad()
		if err != nil {
			continue
		}
		if dense, ok := grad.(*tensor.Dense); ok {
			dense.Zero()
		}
	}
}

// valueGrad pairs a learnable with an externally computed gradient so
// that a solver can step it
type valueGrad struct {
	node *G.Node
	grad *tensor.Dense
}

func (v valueGrad) Value() G.Value {
	return v.node.Value()
}

func (v valueGrad) Grad() (G.Value, error) {
	return v.grad, nil
}

// scalarOf returns the single element of a value
func scalarOf(v G.Value) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("prediction not computed")
	}
	switch data := v.Data().(type) {
	case float64:
		return data, nil
	case []float64:
		if len(data) != 1 {
			return 0, fmt.Errorf("expected a single prediction, have %d",
				len(data))
		}
		return data[0], nil
	default:
		return 0, fmt.Errorf("unexpected prediction type %T", data)
	}
}
