package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// AvgPool2D averages non-overlapping p×p windows of a [chan, h, w] tensor.
type AvgPool2D struct {
	p         int
	lastShape []int
}

func NewAvgPool2D(p int) *AvgPool2D { return &AvgPool2D{p: p} }

func (a *AvgPool2D) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 3 {
		return nil, fmt.Errorf("avgpool2d: input must be a 3-D [chan, h, w] tensor, got %v", x.Shape)
	}
	chans, h, w := x.Shape[0], x.Shape[1], x.Shape[2]
	if h%a.p != 0 || w%a.p != 0 {
		return nil, fmt.Errorf("avgpool2d: input %dx%d not divisible by pool size %d", h, w, a.p)
	}
	a.lastShape = append([]int(nil), x.Shape...)

	outH, outW := h/a.p, w/a.p
	out := tensor.New(chans, outH, outW)
	norm := 1.0 / float64(a.p*a.p)
	for c := 0; c < chans; c++ {
		for y := 0; y < outH; y++ {
			for xo := 0; xo < outW; xo++ {
				sum := 0.0
				for dy := 0; dy < a.p; dy++ {
					for dx := 0; dx < a.p; dx++ {
						sum += x.Data[c*h*w+(y*a.p+dy)*w+(xo*a.p+dx)]
					}
				}
				out.Data[c*outH*outW+y*outW+xo] = sum * norm
			}
		}
	}
	return out, nil
}

// Backward spreads each output gradient evenly over its pooling window.
func (a *AvgPool2D) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if a.lastShape == nil {
		return nil, fmt.Errorf("avgpool2d: no cached input shape for backward pass")
	}
	chans, h, w := a.lastShape[0], a.lastShape[1], a.lastShape[2]
	outH, outW := h/a.p, w/a.p
	if len(gradOut.Data) != chans*outH*outW {
		return nil, fmt.Errorf("avgpool2d: gradient has %d elements, want %d", len(gradOut.Data), chans*outH*outW)
	}

	gradIn := tensor.New(chans, h, w)
	norm := 1.0 / float64(a.p*a.p)
	for c := 0; c < chans; c++ {
		for y := 0; y < outH; y++ {
			for xo := 0; xo < outW; xo++ {
				g := gradOut.Data[c*outH*outW+y*outW+xo] * norm
				for dy := 0; dy < a.p; dy++ {
					for dx := 0; dx < a.p; dx++ {
						gradIn.Data[c*h*w+(y*a.p+dy)*w+(xo*a.p+dx)] = g
					}
				}
			}
		}
	}
	return gradIn, nil
}

func (a *AvgPool2D) Params() []*optim.Param { return nil }

func (a *AvgPool2D) Tag() string { return fmt.Sprintf("AvgPool2D_%d", a.p) }
