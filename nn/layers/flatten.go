package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// Flatten reshapes any tensor to 1-D; Backward restores the cached shape.
type Flatten struct {
	lastShape []int
}

func NewFlatten() *Flatten { return &Flatten{} }

func (f *Flatten) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	f.lastShape = append([]int(nil), x.Shape...)
	return x.Reshape(len(x.Data))
}

func (f *Flatten) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if f.lastShape == nil {
		return nil, fmt.Errorf("flatten: no cached shape for backward pass")
	}
	return gradOut.Reshape(f.lastShape...)
}

func (f *Flatten) Params() []*optim.Param { return nil }

func (f *Flatten) Tag() string { return "Flatten" }
