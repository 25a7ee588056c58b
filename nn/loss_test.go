package nn

import (
	"math"
	"testing"

	"langevin/tensor"
)

func TestSoftmaxSumsToOne(t *testing.T) {
	logits := tensor.NewWithData([]float64{1, 2, 3})
	p := Softmax(logits)
	sum := 0.0
	for _, v := range p.Data {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("expected probabilities to sum to 1, got %v", sum)
	}
	if !(p.Data[2] > p.Data[1] && p.Data[1] > p.Data[0]) {
		t.Errorf("expected monotone probabilities, got %v", p.Data)
	}
}

func TestSoftmaxLargeLogits(t *testing.T) {
	logits := tensor.NewWithData([]float64{1000, 1000})
	p := Softmax(logits)
	if math.Abs(p.Data[0]-0.5) > 1e-12 || math.Abs(p.Data[1]-0.5) > 1e-12 {
		t.Errorf("expected [0.5 0.5], got %v", p.Data)
	}
}

func TestCrossEntropyLoss(t *testing.T) {
	ce := &CrossEntropyLoss{}
	p := tensor.NewWithData([]float64{0.25, 0.75})
	label := tensor.NewWithData([]float64{0, 1})
	got := ce.Loss(p, label)
	want := -math.Log(0.75)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCrossEntropyLossClampsZero(t *testing.T) {
	ce := &CrossEntropyLoss{}
	p := tensor.NewWithData([]float64{1, 0})
	label := tensor.NewWithData([]float64{0, 1})
	got := ce.Loss(p, label)
	if math.IsInf(got, 1) || math.IsNaN(got) {
		t.Errorf("expected finite loss, got %v", got)
	}
}

func TestCrossEntropyBackward(t *testing.T) {
	ce := &CrossEntropyLoss{}
	p := tensor.NewWithData([]float64{0.25, 0.75})
	label := tensor.NewWithData([]float64{0, 1})
	grad := ce.Backward(p, label)
	if math.Abs(grad.Data[0]-0.25) > 1e-12 || math.Abs(grad.Data[1]+0.25) > 1e-12 {
		t.Errorf("expected [0.25 -0.25], got %v", grad.Data)
	}
}

func TestMSELoss(t *testing.T) {
	mse := &MSELoss{}
	pred := tensor.NewWithData([]float64{1, 2})
	target := tensor.NewWithData([]float64{0, 4})
	got := mse.Loss(pred, target)
	if math.Abs(got-2.5) > 1e-12 {
		t.Errorf("expected 2.5, got %v", got)
	}
	grad := mse.Backward(pred, target)
	if math.Abs(grad.Data[0]-1) > 1e-12 || math.Abs(grad.Data[1]+2) > 1e-12 {
		t.Errorf("expected [1 -2], got %v", grad.Data)
	}
}
