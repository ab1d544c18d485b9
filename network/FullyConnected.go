package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network operating on a single sample
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// newFCLayer adds the learnable nodes of a fully connected layer with
// in inputs and out outputs to g. The bias is initialized to zero.
func newFCLayer(g *G.ExprGraph, in, out int, init G.InitWFn,
	act *Activation, index int) *fcLayer {
	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(fmt.Sprintf("L%dW", index)),
		G.WithInit(init),
	)

	bias := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, out),
		G.WithName(fmt.Sprintf("L%dB", index)),
		G.WithInit(G.Zeroes()),
	)

	return &fcLayer{weights: weights, bias: bias, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph.
// Inputs have a batch size of 1 so the bias is added without
// broadcasting.
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not multiply weights: %v", err)
	}

	x, err = G.Add(x, f.bias)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not add bias: %v", err)
	}

	if f.act == nil || f.act.IsIdentity() {
		return x, nil
	}
	return f.act.fwd(x)
}

// learnables returns the learnable nodes of the layer
func (f *fcLayer) learnables() G.Nodes {
	return G.Nodes{f.weights, f.bias}
}
