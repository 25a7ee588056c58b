package layers

import (
	"fmt"

	"langevin/optim"
	"langevin/tensor"
)

// Conv2D is a valid (no padding, stride 1) 2-D convolution over a single
// [inChan, height, width] sample.
type Conv2D struct {
	inChan, outChan int
	kh, kw          int

	W *tensor.Tensor // weights: [outChan, inChan, kh, kw]
	B *tensor.Tensor // bias: [outChan]

	GradW *tensor.Tensor
	GradB *tensor.Tensor

	lastInput *tensor.Tensor
	params    []*optim.Param
}

// NewConv2D creates a new Conv2D layer.
func NewConv2D(inChan, outChan, kh, kw int) *Conv2D {
	c := &Conv2D{
		inChan:  inChan,
		outChan: outChan,
		kh:      kh,
		kw:      kw,
		W:       tensor.New(outChan, inChan, kh, kw),
		B:       tensor.New(outChan),
		GradW:   tensor.New(outChan, inChan, kh, kw),
		GradB:   tensor.New(outChan),
	}
	c.params = []*optim.Param{
		{Name: "weight", W: c.W, Grad: c.GradW},
		{Name: "bias", W: c.B, Grad: c.GradB},
	}
	return c
}

// OutputShape returns the spatial output dimensions for a given input size.
func (c *Conv2D) OutputShape(inH, inW int) (outH, outW int) {
	return inH - c.kh + 1, inW - c.kw + 1
}

func (c *Conv2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(input.Shape) != 3 {
		return nil, fmt.Errorf("conv2d: input must be a 3-D [chan, h, w] tensor, got %v", input.Shape)
	}
	if input.Shape[0] != c.inChan {
		return nil, fmt.Errorf("conv2d: expected %d input channels, got %d", c.inChan, input.Shape[0])
	}
	height, width := input.Shape[1], input.Shape[2]
	outHeight, outWidth := c.OutputShape(height, width)
	if outHeight <= 0 || outWidth <= 0 {
		return nil, fmt.Errorf("conv2d: kernel %dx%d larger than input %dx%d", c.kh, c.kw, height, width)
	}

	c.lastInput = input.Clone()
	output := tensor.New(c.outChan, outHeight, outWidth)

	for oc := 0; oc < c.outChan; oc++ {
		for y := 0; y < outHeight; y++ {
			for x := 0; x < outWidth; x++ {
				sum := c.B.Data[oc]
				for ic := 0; ic < c.inChan; ic++ {
					for dy := 0; dy < c.kh; dy++ {
						for dx := 0; dx < c.kw; dx++ {
							wIdx := oc*c.inChan*c.kh*c.kw + ic*c.kh*c.kw + dy*c.kw + dx
							inIdx := ic*height*width + (y+dy)*width + (x + dx)
							sum += input.Data[inIdx] * c.W.Data[wIdx]
						}
					}
				}
				output.Data[oc*outHeight*outWidth+y*outWidth+x] = sum
			}
		}
	}
	return output, nil
}

// Backward accumulates weight and bias gradients and returns the input
// gradient (a transposed convolution of gradOut with the kernel).
func (c *Conv2D) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if c.lastInput == nil {
		return nil, fmt.Errorf("conv2d: no cached input for backward pass")
	}
	if len(gradOut.Shape) != 3 || gradOut.Shape[0] != c.outChan {
		return nil, fmt.Errorf("conv2d: gradient must be [%d, h, w], got %v", c.outChan, gradOut.Shape)
	}
	inHeight, inWidth := c.lastInput.Shape[1], c.lastInput.Shape[2]
	outHeight, outWidth := gradOut.Shape[1], gradOut.Shape[2]

	for oc := 0; oc < c.outChan; oc++ {
		for y := 0; y < outHeight; y++ {
			for x := 0; x < outWidth; x++ {
				c.GradB.Data[oc] += gradOut.Data[oc*outHeight*outWidth+y*outWidth+x]
			}
		}
	}

	for oc := 0; oc < c.outChan; oc++ {
		for ic := 0; ic < c.inChan; ic++ {
			for dy := 0; dy < c.kh; dy++ {
				for dx := 0; dx < c.kw; dx++ {
					wGradIdx := oc*c.inChan*c.kh*c.kw + ic*c.kh*c.kw + dy*c.kw + dx
					for y := 0; y < outHeight; y++ {
						for x := 0; x < outWidth; x++ {
							inIdx := ic*inHeight*inWidth + (y+dy)*inWidth + (x + dx)
							gradIdx := oc*outHeight*outWidth + y*outWidth + x
							c.GradW.Data[wGradIdx] += c.lastInput.Data[inIdx] * gradOut.Data[gradIdx]
						}
					}
				}
			}
		}
	}

	inputGrad := tensor.New(c.inChan, inHeight, inWidth)
	for ic := 0; ic < c.inChan; ic++ {
		for y := 0; y < inHeight; y++ {
			for x := 0; x < inWidth; x++ {
				sum := 0.0
				for oc := 0; oc < c.outChan; oc++ {
					for dy := 0; dy < c.kh; dy++ {
						for dx := 0; dx < c.kw; dx++ {
							oy := y - dy
							ox := x - dx
							if oy >= 0 && oy < outHeight && ox >= 0 && ox < outWidth {
								wIdx := oc*c.inChan*c.kh*c.kw + ic*c.kh*c.kw + dy*c.kw + dx
								gradIdx := oc*outHeight*outWidth + oy*outWidth + ox
								sum += c.W.Data[wIdx] * gradOut.Data[gradIdx]
							}
						}
					}
				}
				inputGrad.Data[ic*inHeight*inWidth+y*inWidth+x] = sum
			}
		}
	}
	return inputGrad, nil
}

func (c *Conv2D) Params() []*optim.Param { return c.params }

func (c *Conv2D) Tag() string {
	return fmt.Sprintf("Conv2D_%d_%d_%dx%d", c.inChan, c.outChan, c.kh, c.kw)
}
