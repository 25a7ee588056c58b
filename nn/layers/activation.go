package layers

import (
	"fmt"
	"math"

	"langevin/optim"
	"langevin/tensor"
)

// Activator is an elementwise nonlinearity with an explicit derivative.
type Activator interface {
	Activate(x float64) float64
	Derivative(x float64) float64
	fmt.Stringer
}

var ActivatorLookup = map[string]Activator{
	"sigmoid": Sigmoid{},
	"tanh":    Tanh{},
	"relu":    ReLU{},
}

type Sigmoid struct{}

func (s Sigmoid) Activate(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func (s Sigmoid) Derivative(x float64) float64 {
	sx := s.Activate(x)
	return sx * (1 - sx)
}

func (s Sigmoid) String() string { return "sigmoid" }

type Tanh struct{}

func (t Tanh) Activate(x float64) float64 { return math.Tanh(x) }

func (t Tanh) Derivative(x float64) float64 {
	tx := math.Tanh(x)
	return 1 - tx*tx
}

func (t Tanh) String() string { return "tanh" }

// ReLU with a small leak on the negative side, so gradients never die out
// completely.
type ReLU struct{}

func (r ReLU) Activate(x float64) float64 {
	if x < 0 {
		return 0.0001 * x
	}
	return x
}

func (r ReLU) Derivative(x float64) float64 {
	if x < 0 {
		return 0.0001
	}
	return 1
}

func (r ReLU) String() string { return "relu" }

// Activation applies an Activator elementwise.
type Activation struct {
	act       Activator
	lastInput *tensor.Tensor
}

// NewActivation creates an activation layer by name (relu, sigmoid, tanh).
func NewActivation(name string) (*Activation, error) {
	act, ok := ActivatorLookup[name]
	if !ok {
		return nil, fmt.Errorf("unsupported activation: %s", name)
	}
	return &Activation{act: act}, nil
}

func (a *Activation) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	a.lastInput = x.Clone()
	y := tensor.New(x.Shape...)
	for i, v := range x.Data {
		y.Data[i] = a.act.Activate(v)
	}
	return y, nil
}

func (a *Activation) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if a.lastInput == nil {
		return nil, fmt.Errorf("activation: no cached input for backward pass")
	}
	if len(gradOut.Data) != len(a.lastInput.Data) {
		return nil, fmt.Errorf("activation: gradient length %d does not match input length %d",
			len(gradOut.Data), len(a.lastInput.Data))
	}
	gradIn := tensor.New(a.lastInput.Shape...)
	for i := range gradIn.Data {
		gradIn.Data[i] = gradOut.Data[i] * a.act.Derivative(a.lastInput.Data[i])
	}
	return gradIn, nil
}

func (a *Activation) Params() []*optim.Param { return nil }

func (a *Activation) Tag() string { return "Activation_" + a.act.String() }
