package nn

import (
	"langevin/optim"
	"langevin/tensor"
)

// Module defines a single layer/unit in the network.
type Module interface {
	Forward(x *tensor.Tensor) (*tensor.Tensor, error)
	// Backward computes gradients and propagates them.
	// It takes the gradient of the loss with respect to the module's output,
	// and returns the gradient of the loss with respect to the module's input.
	Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error)
	// Params exposes the module's trainable state, if any.
	Params() []*optim.Param
}

// Sequential chains multiple Modules in order.
type Sequential struct {
	Layers []Module
}

// Forward applies each layer in sequence.
func (s *Sequential) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	out := x
	for _, layer := range s.Layers {
		out, err = layer.Forward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Backward applies Backward in reverse order.
func (s *Sequential) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	out := grad
	for i := len(s.Layers) - 1; i >= 0; i-- {
		out, err = s.Layers[i].Backward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Params collects the params of all layers.
func (s *Sequential) Params() []*optim.Param {
	var params []*optim.Param
	for _, layer := range s.Layers {
		params = append(params, layer.Params()...)
	}
	return params
}

// Model is a Sequential plus the metadata the trainer needs: the shape the
// first layer expects and the number of output classes.
type Model struct {
	*Sequential
	InputShape []int
	OutputDim  int
}

// Forward reshapes a flat input vector to the model's input shape (for
// convolutional models fed flattened image rows) and runs the network.
func (m *Model) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(m.InputShape) > 1 && len(x.Shape) == 1 {
		shaped, err := x.Reshape(m.InputShape...)
		if err != nil {
			return nil, err
		}
		x = shaped
	}
	return m.Sequential.Forward(x)
}
