package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// DenseBlock is a DenseNet-style block over vectors: each sublayer sees the
// concatenation of the block input and all previous sublayer outputs, and
// contributes growth more features. Output width is inDim + n*growth.
type DenseBlock struct {
	growth int
	Subs   []*Linear

	lastPre    []*tensor.Tensor // pre-activation output of each sublayer
	lastWidths []int            // input width of each sublayer
}

// NewDenseBlock creates a block of n sublayers on an inDim-wide input, each
// adding growth features.
func NewDenseBlock(inDim, growth, n int) *DenseBlock {
	b := &DenseBlock{growth: growth}
	for i := 0; i < n; i++ {
		b.Subs = append(b.Subs, NewLinear(inDim+i*growth, growth))
	}
	return b
}

// OutDim returns the width of the concatenated output.
func (b *DenseBlock) OutDim() int {
	if len(b.Subs) == 0 {
		return 0
	}
	return b.Subs[0].InDim() + len(b.Subs)*b.growth
}

func (b *DenseBlock) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(b.Subs) == 0 {
		return nil, fmt.Errorf("denseblock: no sublayers")
	}
	if len(x.Data) != b.Subs[0].InDim() {
		return nil, fmt.Errorf("denseblock: expected input of length %d, got %d", b.Subs[0].InDim(), len(x.Data))
	}

	relu := ActivatorLookup["relu"]
	b.lastPre = b.lastPre[:0]
	b.lastWidths = b.lastWidths[:0]

	cur := x
	for _, sub := range b.Subs {
		b.lastWidths = append(b.lastWidths, len(cur.Data))
		pre, err := sub.Forward(cur)
		if err != nil {
			return nil, err
		}
		b.lastPre = append(b.lastPre, pre)
		out := tensor.New(b.growth)
		for i, v := range pre.Data {
			out.Data[i] = relu.Activate(v)
		}
		cur, err = tensor.Concat(cur, out)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (b *DenseBlock) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if len(b.lastPre) != len(b.Subs) {
		return nil, fmt.Errorf("denseblock: no cached forward pass")
	}
	if len(gradOut.Data) != b.OutDim() {
		return nil, fmt.Errorf("denseblock: expected gradient of length %d, got %d", b.OutDim(), len(gradOut.Data))
	}

	relu := ActivatorLookup["relu"]
	grad := gradOut
	for i := len(b.Subs) - 1; i >= 0; i-- {
		width := b.lastWidths[i]
		gradPrev := tensor.NewWithData(grad.Data[:width])
		gradOutSub := grad.Data[width:]

		gradPre := tensor.New(b.growth)
		for j := 0; j < b.growth; j++ {
			gradPre.Data[j] = gradOutSub[j] * relu.Derivative(b.lastPre[i].Data[j])
		}
		gSub, err := b.Subs[i].Backward(gradPre)
		if err != nil {
			return nil, err
		}
		// The sublayer input is the same concatenation the grad slice
		// refers to, so the two contributions add.
		for j := 0; j < width; j++ {
			gradPrev.Data[j] += gSub.Data[j]
		}
		grad = gradPrev
	}
	return grad, nil
}

func (b *DenseBlock) Params() []*optim.Param {
	var params []*optim.Param
	for _, sub := range b.Subs {
		params = append(params, sub.Params()...)
	}
	return params
}

func (b *DenseBlock) Tag() string {
	return fmt.Sprintf("DenseBlock_%dx%d", len(b.Subs), b.growth)
}
