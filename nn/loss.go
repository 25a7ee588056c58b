package nn

import (
	"langevin/tensor"
	"math"
)

type CrossEntropyLoss struct{}

// Loss computes -sum(label * log(p)) with clamping against log(0).
func (c *CrossEntropyLoss) Loss(softmaxOut, oneHotLabel *tensor.Tensor) float64 {
	loss := 0.0
	for i := range oneHotLabel.Data {
		if oneHotLabel.Data[i] > 0 {
			p := softmaxOut.Data[i]
			if p < 1e-10 {
				p = 1e-10
			}
			loss -= oneHotLabel.Data[i] * math.Log(p)
		}
	}
	return loss
}

// Backward computes the gradient of the cross-entropy loss with softmax.
// grad = (softmax_output - one_hot_label)
func (c *CrossEntropyLoss) Backward(softmaxOut, oneHotLabel *tensor.Tensor) *tensor.Tensor {
	grad := tensor.New(len(softmaxOut.Data))
	for i := range grad.Data {
		grad.Data[i] = softmaxOut.Data[i] - oneHotLabel.Data[i]
	}
	return grad
}

// Softmax applies the softmax function to a tensor.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	maxLogit := logits.Data[0]
	for _, v := range logits.Data {
		if v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	exps := make([]float64, len(logits.Data))
	for i, v := range logits.Data {
		e := math.Exp(v - maxLogit)
		exps[i] = e
		expSum += e
	}
	softmax := tensor.New(len(logits.Data))
	for i, e := range exps {
		softmax.Data[i] = e / expSum
	}
	return softmax
}

type MSELoss struct{}

// Loss computes the mean squared error between prediction and target.
func (m *MSELoss) Loss(pred, target *tensor.Tensor) float64 {
	sum := 0.0
	for i := range pred.Data {
		d := pred.Data[i] - target.Data[i]
		sum += d * d
	}
	return sum / float64(len(pred.Data))
}

// Backward returns dL/dpred = 2*(pred-target)/n.
func (m *MSELoss) Backward(pred, target *tensor.Tensor) *tensor.Tensor {
	grad := tensor.New(len(pred.Data))
	n := float64(len(pred.Data))
	for i := range grad.Data {
		grad.Data[i] = 2 * (pred.Data[i] - target.Data[i]) / n
	}
	return grad
}
