// Package optim implements gradient-based parameter updates, including
// Langevin variants that perturb each update with zero-mean Gaussian noise.
package optim

import (
	"fmt"
	"math"
)

// Optimizer performs gradient based parameter updates.
type Optimizer interface {
	// Step applies one update to all params from their accumulated gradients.
	Step(params []*Param) error
	// Name identifies the optimizer in metrics output.
	Name() string
	// Reset clears all per-parameter state and the step counter.
	Reset()
}

// SGD is plain stochastic gradient descent with optional weight decay.
type SGD struct {
	LR          float64
	WeightDecay float64
}

// NewSGD creates a new SGD optimizer.
func NewSGD(lr float64) *SGD {
	return &SGD{LR: lr}
}

func (o *SGD) Step(params []*Param) error {
	if o.LR <= 0 {
		return fmt.Errorf("sgd: learning rate must be positive, got %g", o.LR)
	}
	for _, p := range params {
		for i := range p.W.Data {
			grad := p.Grad.Data[i]
			if o.WeightDecay > 0 {
				grad += o.WeightDecay * p.W.Data[i]
			}
			p.W.Data[i] -= o.LR * grad
		}
	}
	return nil
}

func (o *SGD) Name() string { return "sgd" }
func (o *SGD) Reset()       {}

// Momentum is SGD with a heavy-ball velocity buffer per parameter.
type Momentum struct {
	LR       float64
	Momentum float64
	buf      map[*Param][]float64
}

// NewMomentum creates a momentum optimizer. A coefficient of 0.9 is the
// usual starting point.
func NewMomentum(lr, momentum float64) *Momentum {
	return &Momentum{LR: lr, Momentum: momentum, buf: make(map[*Param][]float64)}
}

func (o *Momentum) Step(params []*Param) error {
	if o.LR <= 0 {
		return fmt.Errorf("momentum: learning rate must be positive, got %g", o.LR)
	}
	if o.buf == nil {
		o.buf = make(map[*Param][]float64)
	}
	for _, p := range params {
		v, ok := o.buf[p]
		if !ok {
			v = make([]float64, len(p.W.Data))
			o.buf[p] = v
		}
		for i := range p.W.Data {
			v[i] = o.Momentum*v[i] + p.Grad.Data[i]
			p.W.Data[i] -= o.LR * v[i]
		}
	}
	return nil
}

func (o *Momentum) Name() string { return "momentum" }
func (o *Momentum) Reset()       { o.buf = make(map[*Param][]float64) }

// RMSProp scales each coordinate's step by a running mean of squared
// gradients.
type RMSProp struct {
	LR  float64
	Rho float64
	Eps float64
	sq  map[*Param][]float64
}

// NewRMSProp creates an RMSProp optimizer with the usual rho=0.9, eps=1e-8.
func NewRMSProp(lr float64) *RMSProp {
	return &RMSProp{LR: lr, Rho: 0.9, Eps: 1e-8, sq: make(map[*Param][]float64)}
}

func (o *RMSProp) Step(params []*Param) error {
	if o.LR <= 0 {
		return fmt.Errorf("rmsprop: learning rate must be positive, got %g", o.LR)
	}
	if o.sq == nil {
		o.sq = make(map[*Param][]float64)
	}
	for _, p := range params {
		s, ok := o.sq[p]
		if !ok {
			s = make([]float64, len(p.W.Data))
			o.sq[p] = s
		}
		for i := range p.W.Data {
			g := p.Grad.Data[i]
			s[i] = o.Rho*s[i] + (1-o.Rho)*g*g
			p.W.Data[i] -= o.LR * g / (math.Sqrt(s[i]) + o.Eps)
		}
	}
	return nil
}

func (o *RMSProp) Name() string { return "rmsprop" }
func (o *RMSProp) Reset()       { o.sq = make(map[*Param][]float64) }

// Adam keeps bias-corrected first and second moment estimates per parameter.
type Adam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	t int
	m map[*Param][]float64
	v map[*Param][]float64
}

// NewAdam creates an Adam optimizer with the standard beta1=0.9,
// beta2=0.999, eps=1e-8.
func NewAdam(lr float64) *Adam {
	return &Adam{
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
		m:     make(map[*Param][]float64),
		v:     make(map[*Param][]float64),
	}
}

func (o *Adam) Step(params []*Param) error {
	if o.LR <= 0 {
		return fmt.Errorf("adam: learning rate must be positive, got %g", o.LR)
	}
	if o.m == nil {
		o.m = make(map[*Param][]float64)
		o.v = make(map[*Param][]float64)
	}
	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))
	for _, p := range params {
		m, ok := o.m[p]
		if !ok {
			m = make([]float64, len(p.W.Data))
			o.m[p] = m
		}
		v, ok := o.v[p]
		if !ok {
			v = make([]float64, len(p.W.Data))
			o.v[p] = v
		}
		for i := range p.W.Data {
			g := p.Grad.Data[i]
			m[i] = o.Beta1*m[i] + (1-o.Beta1)*g
			v[i] = o.Beta2*v[i] + (1-o.Beta2)*g*g
			mHat := m[i] / c1
			vHat := v[i] / c2
			p.W.Data[i] -= o.LR * mHat / (math.Sqrt(vHat) + o.Eps)
		}
	}
	return nil
}

func (o *Adam) Name() string { return "adam" }

func (o *Adam) Reset() {
	o.t = 0
	o.m = make(map[*Param][]float64)
	o.v = make(map[*Param][]float64)
}
