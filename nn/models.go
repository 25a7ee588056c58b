package nn

import (
	"fmt"
	"math"

	"langevin/nn/layers"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// initializer draws Gaussian weights from a seeded source so a model build
// is reproducible.
type initializer struct {
	normal distuv.Normal
}

func newInitializer(seed uint64) *initializer {
	return &initializer{normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}}
}

// glorot scales by sqrt(2/(fanIn+fanOut)); biases stay zero.
func (in *initializer) glorot(l *layers.Linear) {
	scale := math.Sqrt(2.0 / float64(l.InDim()+l.OutDim()))
	for i := range l.W.Data {
		l.W.Data[i] = in.normal.Rand() * scale
	}
}

// he scales by sqrt(2/fanIn), the usual choice ahead of a relu.
func (in *initializer) he(c *layers.Conv2D) {
	fanIn := c.W.Shape[1] * c.W.Shape[2] * c.W.Shape[3]
	scale := math.Sqrt(2.0 / float64(fanIn))
	for i := range c.W.Data {
		c.W.Data[i] = in.normal.Rand() * scale
	}
}

func mustAct(name string) *layers.Activation {
	act, err := layers.NewActivation(name)
	if err != nil {
		panic(err)
	}
	return act
}

// NewDense builds a fully-connected network with relu between layers.
// arch lists the widths, input first, classes last.
func NewDense(arch []int, seed uint64) (*Model, error) {
	if len(arch) < 2 {
		return nil, fmt.Errorf("dense: architecture needs at least input and output widths, got %v", arch)
	}
	init := newInitializer(seed)
	var mods []Module
	for i := 0; i < len(arch)-1; i++ {
		lin := layers.NewLinear(arch[i], arch[i+1])
		init.glorot(lin)
		mods = append(mods, lin)
		if i < len(arch)-2 {
			mods = append(mods, mustAct("relu"))
		}
	}
	return &Model{
		Sequential: &Sequential{Layers: mods},
		InputShape: []int{arch[0]},
		OutputDim:  arch[len(arch)-1],
	}, nil
}

// NewConv builds a small two-stage convolutional classifier for single
// channel inH×inW images: conv3 → pool2 → conv4 → pool2 → linear.
func NewConv(inH, inW, classes int, seed uint64) (*Model, error) {
	h1, w1 := inH-2, inW-2 // 3x3 valid conv
	if h1%2 != 0 || w1%2 != 0 {
		return nil, fmt.Errorf("conv: %dx%d input does not pool evenly after the first conv", inH, inW)
	}
	h2, w2 := h1/2-3, w1/2-3 // 4x4 valid conv
	if h2 <= 0 || w2 <= 0 || h2%2 != 0 || w2%2 != 0 {
		return nil, fmt.Errorf("conv: %dx%d input does not pool evenly after the second conv", inH, inW)
	}
	flat := 16 * (h2 / 2) * (w2 / 2)

	init := newInitializer(seed)
	conv1 := layers.NewConv2D(1, 8, 3, 3)
	conv2 := layers.NewConv2D(8, 16, 4, 4)
	out := layers.NewLinear(flat, classes)
	init.he(conv1)
	init.he(conv2)
	init.glorot(out)

	return &Model{
		Sequential: &Sequential{Layers: []Module{
			conv1,
			mustAct("relu"),
			layers.NewAvgPool2D(2),
			conv2,
			mustAct("relu"),
			layers.NewAvgPool2D(2),
			layers.NewFlatten(),
			out,
		}},
		InputShape: []int{1, inH, inW},
		OutputDim:  classes,
	}, nil
}

// NewHighway builds an input projection followed by depth highway layers
// and a linear classifier head.
func NewHighway(inDim, hidden, depth, classes int, seed uint64) (*Model, error) {
	if depth < 1 {
		return nil, fmt.Errorf("highway: depth must be at least 1, got %d", depth)
	}
	init := newInitializer(seed)
	proj := layers.NewLinear(inDim, hidden)
	init.glorot(proj)
	mods := []Module{proj, mustAct("relu")}
	for i := 0; i < depth; i++ {
		hw := layers.NewHighway(hidden)
		init.glorot(hw.H)
		init.glorot(hw.T)
		mods = append(mods, hw)
	}
	head := layers.NewLinear(hidden, classes)
	init.glorot(head)
	mods = append(mods, head)

	return &Model{
		Sequential: &Sequential{Layers: mods},
		InputShape: []int{inDim},
		OutputDim:  classes,
	}, nil
}

// NewResNet builds an input projection followed by identity-skip residual
// blocks (linear → relu → linear) and a classifier head.
func NewResNet(inDim, hidden, blocks, classes int, seed uint64) (*Model, error) {
	if blocks < 1 {
		return nil, fmt.Errorf("resnet: needs at least 1 block, got %d", blocks)
	}
	init := newInitializer(seed)
	proj := layers.NewLinear(inDim, hidden)
	init.glorot(proj)
	mods := []Module{proj, mustAct("relu")}
	for i := 0; i < blocks; i++ {
		l1 := layers.NewLinear(hidden, hidden)
		l2 := layers.NewLinear(hidden, hidden)
		init.glorot(l1)
		init.glorot(l2)
		mods = append(mods, layers.NewResidualBlock(
			[]layers.SubModule{l1, mustAct("relu"), l2}, nil))
		mods = append(mods, mustAct("relu"))
	}
	head := layers.NewLinear(hidden, classes)
	init.glorot(head)
	mods = append(mods, head)

	return &Model{
		Sequential: &Sequential{Layers: mods},
		InputShape: []int{inDim},
		OutputDim:  classes,
	}, nil
}

// NewDenseNet builds a single dense block (each sublayer sees everything
// before it) and a classifier head on the concatenated features.
func NewDenseNet(inDim, growth, sublayers, classes int, seed uint64) (*Model, error) {
	if sublayers < 1 {
		return nil, fmt.Errorf("densenet: needs at least 1 sublayer, got %d", sublayers)
	}
	init := newInitializer(seed)
	block := layers.NewDenseBlock(inDim, growth, sublayers)
	for _, sub := range block.Subs {
		init.glorot(sub)
	}
	head := layers.NewLinear(block.OutDim(), classes)
	init.glorot(head)

	return &Model{
		Sequential: &Sequential{Layers: []Module{block, head}},
		InputShape: []int{inDim},
		OutputDim:  classes,
	}, nil
}

// ModelNames lists the architectures Build understands.
var ModelNames = []string{"dense", "conv", "highway", "resnet", "densenet"}

// Build constructs a named architecture for flat inputs of width inputDim.
// The conv model requires a square single-channel image input.
func Build(name string, inputDim, classes int, seed uint64) (*Model, error) {
	switch name {
	case "dense":
		return NewDense([]int{inputDim, 128, 64, classes}, seed)
	case "conv":
		side := int(math.Round(math.Sqrt(float64(inputDim))))
		if side*side != inputDim {
			return nil, fmt.Errorf("conv: input width %d is not a square image", inputDim)
		}
		return NewConv(side, side, classes, seed)
	case "highway":
		return NewHighway(inputDim, 64, 4, classes, seed)
	case "resnet":
		return NewResNet(inputDim, 64, 3, classes, seed)
	case "densenet":
		return NewDenseNet(inputDim, 16, 4, classes, seed)
	default:
		return nil, fmt.Errorf("unknown model: %s", name)
	}
}
