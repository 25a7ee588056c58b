package dataset

import (
	"langevin/tensor"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthetic generates n samples from one Gaussian cluster per class.
// Class k is centred at 2k on a rotating subset of the features, which
// keeps the classes linearly separable enough to train on in tests.
func Synthetic(inputDim, classes, n int, seed uint64) Lines {
	src := rand.NewSource(seed)
	noise := distuv.Normal{Mu: 0, Sigma: 0.5, Src: src}
	rng := rand.New(rand.NewSource(seed + 1))

	lines := make(Lines, 0, n)
	for i := 0; i < n; i++ {
		label := rng.Intn(classes)
		x := tensor.New(inputDim)
		for j := range x.Data {
			x.Data[j] = noise.Rand()
		}
		x.Data[label%inputDim] += 2.0
		lines = append(lines, Line{Input: x, Label: label})
	}
	return lines
}
