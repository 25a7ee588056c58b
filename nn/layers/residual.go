package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// SubModule is the contract a layer must satisfy to sit on a residual main
// path.
type SubModule interface {
	Forward(x *tensor.Tensor) (*tensor.Tensor, error)
	Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error)
	Params() []*optim.Param
	Tag() string
}

// ResidualBlock computes main(x) + skip(x), where skip is the identity or,
// when the main path changes widths, a linear projection.
type ResidualBlock struct {
	Main []SubModule
	Proj *Linear // nil for an identity skip
}

func NewResidualBlock(mods []SubModule, proj *Linear) *ResidualBlock {
	return &ResidualBlock{Main: mods, Proj: proj}
}

func (r *ResidualBlock) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out := x
	var err error
	for _, m := range r.Main {
		out, err = m.Forward(out)
		if err != nil {
			return nil, err
		}
	}
	skip := x
	if r.Proj != nil {
		skip, err = r.Proj.Forward(x)
		if err != nil {
			return nil, err
		}
	}
	sum, err := tensor.Add(out, skip)
	if err != nil {
		return nil, fmt.Errorf("residual: main and skip outputs differ: %w", err)
	}
	return sum, nil
}

func (r *ResidualBlock) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	grad := gradOut
	var err error
	for i := len(r.Main) - 1; i >= 0; i-- {
		grad, err = r.Main[i].Backward(grad)
		if err != nil {
			return nil, err
		}
	}
	skipGrad := gradOut
	if r.Proj != nil {
		skipGrad, err = r.Proj.Backward(gradOut)
		if err != nil {
			return nil, err
		}
	}
	return tensor.Add(grad, skipGrad)
}

func (r *ResidualBlock) Params() []*optim.Param {
	var params []*optim.Param
	for _, m := range r.Main {
		params = append(params, m.Params()...)
	}
	if r.Proj != nil {
		params = append(params, r.Proj.Params()...)
	}
	return params
}

func (r *ResidualBlock) Tag() string {
	tags := "ResidualBlock["
	for i, m := range r.Main {
		if i > 0 {
			tags += ","
		}
		tags += m.Tag()
	}
	tags += "]"
	return tags
}
