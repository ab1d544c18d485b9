package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// ConstantConfig sets every weight to Value. A zero Value starts the
// value network predicting 0.5 for every state.
type ConstantConfig struct {
	Value float64
}

// NewConstant returns an initializer setting every weight to value
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{Value: value})
}

func (c ConstantConfig) Type() Type { return Constant }

func (c ConstantConfig) Create() G.InitWFn {
	return G.ValuesOf(c.Value)
}

func (c ConstantConfig) Validate() error { return nil }

// UniformConfig draws every weight from [Low, High)
type UniformConfig struct {
	Low, High float64
}

// NewUniform returns an initializer drawing weights from [low, high)
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

func (u UniformConfig) Type() Type { return Uniform }

func (u UniformConfig) Create() G.InitWFn {
	return G.Uniform(u.Low, u.High)
}

// Validate returns an error if the interval is empty
func (u UniformConfig) Validate() error {
	if u.Low >= u.High {
		return fmt.Errorf("validate: empty interval [%v, %v)", u.Low, u.High)
	}
	return nil
}
