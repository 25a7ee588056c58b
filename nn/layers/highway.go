package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// Highway is a highway layer: y = t⊙h + (1−t)⊙x with transform
// h = relu(H(x)) and gate t = sigmoid(T(x)). Input and output widths are
// equal.
type Highway struct {
	H *Linear
	T *Linear

	lastInput *tensor.Tensor
	lastHPre  *tensor.Tensor
	lastH     *tensor.Tensor
	lastGate  *tensor.Tensor
}

// NewHighway creates a highway layer of the given width. The gate bias
// starts at -1 so early training mostly carries the input through.
func NewHighway(dim int) *Highway {
	hw := &Highway{
		H: NewLinear(dim, dim),
		T: NewLinear(dim, dim),
	}
	for i := range hw.T.B.Data {
		hw.T.B.Data[i] = -1
	}
	return hw
}

func (hw *Highway) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	dim := hw.H.InDim()
	if len(x.Data) != dim {
		return nil, fmt.Errorf("highway: expected input of length %d, got %d", dim, len(x.Data))
	}
	hPre, err := hw.H.Forward(x)
	if err != nil {
		return nil, err
	}
	tPre, err := hw.T.Forward(x)
	if err != nil {
		return nil, err
	}

	relu := ActivatorLookup["relu"]
	sigmoid := ActivatorLookup["sigmoid"]
	h := tensor.New(dim)
	gate := tensor.New(dim)
	y := tensor.New(dim)
	for i := 0; i < dim; i++ {
		h.Data[i] = relu.Activate(hPre.Data[i])
		gate.Data[i] = sigmoid.Activate(tPre.Data[i])
		y.Data[i] = gate.Data[i]*h.Data[i] + (1-gate.Data[i])*x.Data[i]
	}

	hw.lastInput = x.Clone()
	hw.lastHPre = hPre
	hw.lastH = h
	hw.lastGate = gate
	return y, nil
}

func (hw *Highway) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if hw.lastInput == nil {
		return nil, fmt.Errorf("highway: no cached input for backward pass")
	}
	dim := hw.H.InDim()
	if len(gradOut.Data) != dim {
		return nil, fmt.Errorf("highway: expected gradient of length %d, got %d", dim, len(gradOut.Data))
	}

	relu := ActivatorLookup["relu"]
	gradHPre := tensor.New(dim)
	gradTPre := tensor.New(dim)
	gradIn := tensor.New(dim)
	for i := 0; i < dim; i++ {
		g := gradOut.Data[i]
		t := hw.lastGate.Data[i]
		// dL/dh through the relu, dL/dt through the sigmoid, plus the
		// direct carry path (1-t).
		gradHPre.Data[i] = g * t * relu.Derivative(hw.lastHPre.Data[i])
		gradTPre.Data[i] = g * (hw.lastH.Data[i] - hw.lastInput.Data[i]) * t * (1 - t)
		gradIn.Data[i] = g * (1 - t)
	}

	gH, err := hw.H.Backward(gradHPre)
	if err != nil {
		return nil, err
	}
	gT, err := hw.T.Backward(gradTPre)
	if err != nil {
		return nil, err
	}
	for i := 0; i < dim; i++ {
		gradIn.Data[i] += gH.Data[i] + gT.Data[i]
	}
	return gradIn, nil
}

func (hw *Highway) Params() []*optim.Param {
	return append(hw.H.Params(), hw.T.Params()...)
}

func (hw *Highway) Tag() string {
	return fmt.Sprintf("Highway_%d", hw.H.InDim())
}
