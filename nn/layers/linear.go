package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// Linear is a fully-connected layer: y = Wx + B for a 1-D input vector.
type Linear struct {
	W, B         *tensor.Tensor
	GradW, GradB *tensor.Tensor

	lastInput *tensor.Tensor
	params    []*optim.Param
}

// NewLinear(inDim→outDim) sets up W, B and their gradient buffers.
func NewLinear(inDim, outDim int) *Linear {
	l := &Linear{
		W:     tensor.New(outDim, inDim),
		B:     tensor.New(outDim),
		GradW: tensor.New(outDim, inDim),
		GradB: tensor.New(outDim),
	}
	l.params = []*optim.Param{
		{Name: "weight", W: l.W, Grad: l.GradW},
		{Name: "bias", W: l.B, Grad: l.GradB},
	}
	return l
}

// InDim returns the input width.
func (l *Linear) InDim() int { return l.W.Shape[1] }

// OutDim returns the output width.
func (l *Linear) OutDim() int { return l.W.Shape[0] }

// Forward computes y = Wx + B and caches x for the backward pass.
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	inDim, outDim := l.W.Shape[1], l.W.Shape[0]
	if len(x.Data) != inDim {
		return nil, fmt.Errorf("linear: expected input of length %d, got %d", inDim, len(x.Data))
	}
	l.lastInput = x.Clone()
	y := tensor.New(outDim)
	for j := 0; j < outDim; j++ {
		sum := l.B.Data[j]
		for i := 0; i < inDim; i++ {
			sum += l.W.Data[j*inDim+i] * x.Data[i]
		}
		y.Data[j] = sum
	}
	return y, nil
}

// Backward accumulates dL/dW = g·xᵀ and dL/dB = g, and returns dL/dx = Wᵀg.
// Gradients add up across calls until the optimizer's ZeroGrad.
func (l *Linear) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	inDim, outDim := l.W.Shape[1], l.W.Shape[0]
	if l.lastInput == nil {
		return nil, fmt.Errorf("linear: no cached input for backward pass")
	}
	if len(gradOut.Data) != outDim {
		return nil, fmt.Errorf("linear: expected gradient of length %d, got %d", outDim, len(gradOut.Data))
	}
	for j := 0; j < outDim; j++ {
		g := gradOut.Data[j]
		l.GradB.Data[j] += g
		for i := 0; i < inDim; i++ {
			l.GradW.Data[j*inDim+i] += g * l.lastInput.Data[i]
		}
	}
	gradIn := tensor.New(inDim)
	for i := 0; i < inDim; i++ {
		sum := 0.0
		for j := 0; j < outDim; j++ {
			sum += l.W.Data[j*inDim+i] * gradOut.Data[j]
		}
		gradIn.Data[i] = sum
	}
	return gradIn, nil
}

// Params exposes weight and bias for the optimizer.
func (l *Linear) Params() []*optim.Param { return l.params }

func (l *Linear) Tag() string {
	return fmt.Sprintf("Linear_%d_%d", l.W.Shape[1], l.W.Shape[0])
}
