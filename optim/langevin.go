package optim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseSchedule controls the standard deviation of the Langevin perturbation
// as training progresses: sigma_t = Scale / (1+t)^Decay. Decay 0 keeps the
// noise constant.
type NoiseSchedule struct {
	Scale float64
	Decay float64
}

// At returns the noise standard deviation for step t (t starts at 0).
func (s NoiseSchedule) At(t int) float64 {
	if s.Scale == 0 {
		return 0
	}
	if s.Decay == 0 {
		return s.Scale
	}
	return s.Scale / math.Pow(1+float64(t), s.Decay)
}

// noiser draws standard Gaussian samples from a seeded source, so two
// optimizers built with the same seed inject identical noise.
type noiser struct {
	normal distuv.Normal
}

func newNoiser(seed uint64) noiser {
	return noiser{normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}}
}

// perturb adds sigma*N(0,1) to every weight coordinate.
func (n noiser) perturb(params []*Param, sigma float64) {
	if sigma == 0 {
		return
	}
	for _, p := range params {
		for i := range p.W.Data {
			p.W.Data[i] += sigma * n.normal.Rand()
		}
	}
}

// LangevinSGD is stochastic gradient Langevin dynamics: a plain SGD step
// followed by an additive Gaussian perturbation of sqrt(lr)*sigma_t per
// coordinate.
type LangevinSGD struct {
	SGD
	Noise NoiseSchedule

	seed  uint64
	step  int
	noise noiser
}

// NewLangevinSGD creates a Langevin SGD optimizer. scale is the initial
// noise standard deviation, decay the annealing exponent.
func NewLangevinSGD(lr, scale, decay float64, seed uint64) *LangevinSGD {
	return &LangevinSGD{
		SGD:   SGD{LR: lr},
		Noise: NoiseSchedule{Scale: scale, Decay: decay},
		seed:  seed,
		noise: newNoiser(seed),
	}
}

func (o *LangevinSGD) Step(params []*Param) error {
	if err := o.SGD.Step(params); err != nil {
		return err
	}
	o.noise.perturb(params, math.Sqrt(o.LR)*o.Noise.At(o.step))
	o.step++
	return nil
}

func (o *LangevinSGD) Name() string { return "langevin-sgd" }

func (o *LangevinSGD) Reset() {
	o.SGD.Reset()
	o.step = 0
	o.noise = newNoiser(o.seed)
}

// LangevinMomentum perturbs a momentum update with annealed Gaussian noise.
type LangevinMomentum struct {
	Momentum
	Noise NoiseSchedule

	seed  uint64
	step  int
	noise noiser
}

// NewLangevinMomentum creates a noise-injected momentum optimizer.
func NewLangevinMomentum(lr, momentum, scale, decay float64, seed uint64) *LangevinMomentum {
	return &LangevinMomentum{
		Momentum: Momentum{LR: lr, Momentum: momentum, buf: make(map[*Param][]float64)},
		Noise:    NoiseSchedule{Scale: scale, Decay: decay},
		seed:     seed,
		noise:    newNoiser(seed),
	}
}

func (o *LangevinMomentum) Step(params []*Param) error {
	if err := o.Momentum.Step(params); err != nil {
		return err
	}
	o.noise.perturb(params, math.Sqrt(o.LR)*o.Noise.At(o.step))
	o.step++
	return nil
}

func (o *LangevinMomentum) Name() string { return "langevin-momentum" }

func (o *LangevinMomentum) Reset() {
	o.Momentum.Reset()
	o.step = 0
	o.noise = newNoiser(o.seed)
}

// LangevinAdam perturbs an Adam update with annealed Gaussian noise.
type LangevinAdam struct {
	Adam
	Noise NoiseSchedule

	seed  uint64
	step  int
	noise noiser
}

// NewLangevinAdam creates a noise-injected Adam optimizer.
func NewLangevinAdam(lr, scale, decay float64, seed uint64) *LangevinAdam {
	la := &LangevinAdam{
		Noise: NoiseSchedule{Scale: scale, Decay: decay},
		seed:  seed,
		noise: newNoiser(seed),
	}
	la.Adam = *NewAdam(lr)
	return la
}

func (o *LangevinAdam) Step(params []*Param) error {
	if err := o.Adam.Step(params); err != nil {
		return err
	}
	o.noise.perturb(params, math.Sqrt(o.LR)*o.Noise.At(o.step))
	o.step++
	return nil
}

func (o *LangevinAdam) Name() string { return "langevin-adam" }

func (o *LangevinAdam) Reset() {
	o.Adam.Reset()
	o.step = 0
	o.noise = newNoiser(o.seed)
}
