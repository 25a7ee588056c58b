package optim

import "fmt"

// Names lists the optimizers New understands, in a stable order.
var Names = []string{
	"sgd",
	"momentum",
	"rmsprop",
	"adam",
	"langevin-sgd",
	"langevin-momentum",
	"langevin-adam",
}

// New builds an optimizer by name. noiseScale and noiseDecay only apply to
// the langevin variants; seed controls their noise stream.
func New(name string, lr, noiseScale, noiseDecay float64, seed uint64) (Optimizer, error) {
	switch name {
	case "sgd":
		return NewSGD(lr), nil
	case "momentum":
		return NewMomentum(lr, 0.9), nil
	case "rmsprop":
		return NewRMSProp(lr), nil
	case "adam":
		return NewAdam(lr), nil
	case "langevin-sgd":
		return NewLangevinSGD(lr, noiseScale, noiseDecay, seed), nil
	case "langevin-momentum":
		return NewLangevinMomentum(lr, 0.9, noiseScale, noiseDecay, seed), nil
	case "langevin-adam":
		return NewLangevinAdam(lr, noiseScale, noiseDecay, seed), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", name)
	}
}
