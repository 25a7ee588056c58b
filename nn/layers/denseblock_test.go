package layers

import (
	"testing"

	"langevin/tensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseBlockWidths(t *testing.T) {
	b := NewDenseBlock(4, 3, 2)
	assert.Equal(t, 10, b.OutDim())
	require.Len(t, b.Subs, 2)
	assert.Equal(t, 4, b.Subs[0].InDim())
	assert.Equal(t, 7, b.Subs[1].InDim())
}

func TestDenseBlockForwardConcatenatesInput(t *testing.T) {
	b := NewDenseBlock(2, 1, 1)
	out, err := b.Forward(tensor.NewWithData([]float64{0.5, -0.5}))
	require.NoError(t, err)
	require.Equal(t, []int{3}, out.Shape)
	// Zero weights: the new feature is relu(0) = 0, input passes through.
	assert.Equal(t, []float64{0.5, -0.5, 0}, out.Data)
}

func TestDenseBlockGradientNumeric(t *testing.T) {
	b := NewDenseBlock(2, 2, 2)
	vals := []float64{0.3, -0.1, 0.2, 0.4, -0.3, 0.1, 0.5, -0.2, 0.1, 0.3, -0.4, 0.2}
	k := 0
	for _, p := range b.Params() {
		for i := range p.W.Data {
			p.W.Data[i] = vals[k%len(vals)]
			k++
		}
	}

	x := tensor.NewWithData([]float64{0.8, -0.6})
	loss := func() float64 {
		out, err := b.Forward(x)
		require.NoError(t, err)
		s := 0.0
		for _, v := range out.Data {
			s += v
		}
		return s
	}

	loss()
	gradOnes := tensor.New(b.OutDim())
	for i := range gradOnes.Data {
		gradOnes.Data[i] = 1
	}
	_, err := b.Backward(gradOnes)
	require.NoError(t, err)

	const eps = 1e-6
	for _, p := range b.Params() {
		for i := range p.W.Data {
			orig := p.W.Data[i]
			p.W.Data[i] = orig + eps
			up := loss()
			p.W.Data[i] = orig - eps
			down := loss()
			p.W.Data[i] = orig

			numeric := (up - down) / (2 * eps)
			assert.InDeltaf(t, numeric, p.Grad.Data[i], 1e-5,
				"param %s index %d", p.Name, i)
		}
	}
}

func TestDenseBlockBadGradientWidth(t *testing.T) {
	b := NewDenseBlock(2, 1, 1)
	_, err := b.Forward(tensor.New(2))
	require.NoError(t, err)
	_, err = b.Backward(tensor.New(5))
	assert.Error(t, err)
}
