package optim

import (
	"langevin/tensor"
)

// Param bundles a weight tensor with its accumulated gradient. Layers expose
// their state as Params so any Optimizer can update them in place.
type Param struct {
	Name string
	W    *tensor.Tensor
	Grad *tensor.Tensor
}

// NewParam allocates a parameter and a matching zeroed gradient.
func NewParam(name string, shape ...int) *Param {
	return &Param{
		Name: name,
		W:    tensor.New(shape...),
		Grad: tensor.New(shape...),
	}
}

// ZeroGrad clears the accumulated gradient.
func (p *Param) ZeroGrad() {
	for i := range p.Grad.Data {
		p.Grad.Data[i] = 0
	}
}

// ZeroGrad clears the gradients of all params.
func ZeroGrad(params []*Param) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// ScaleGrads multiplies every gradient by s. Used to average accumulated
// per-sample gradients over a mini-batch before a Step.
func ScaleGrads(params []*Param, s float64) {
	for _, p := range params {
		for i := range p.Grad.Data {
			p.Grad.Data[i] *= s
		}
	}
}
