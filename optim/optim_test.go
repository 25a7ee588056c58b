package optim

import (
	"math"
	"testing"
)

func newTestParam(w, g []float64) *Param {
	p := NewParam("w", len(w))
	copy(p.W.Data, w)
	copy(p.Grad.Data, g)
	return p
}

func TestSGDStep(t *testing.T) {
	p := newTestParam([]float64{1, 2}, []float64{0.5, -1})
	opt := NewSGD(0.1)
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	want := []float64{0.95, 2.1}
	for i := range want {
		if math.Abs(p.W.Data[i]-want[i]) > 1e-12 {
			t.Errorf("at %d, got %f, want %f", i, p.W.Data[i], want[i])
		}
	}
}

func TestSGDWeightDecay(t *testing.T) {
	p := newTestParam([]float64{1}, []float64{0})
	opt := &SGD{LR: 0.1, WeightDecay: 0.5}
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	// w -= lr * wd * w
	if math.Abs(p.W.Data[0]-0.95) > 1e-12 {
		t.Errorf("got %f, want 0.95", p.W.Data[0])
	}
}

func TestSGDBadLR(t *testing.T) {
	opt := NewSGD(0)
	if err := opt.Step(nil); err == nil {
		t.Fatal("expected error for zero learning rate")
	}
}

func TestMomentumAccumulates(t *testing.T) {
	p := newTestParam([]float64{0}, []float64{1})
	opt := NewMomentum(1, 0.5)
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	// v=1, w=-1
	if math.Abs(p.W.Data[0]+1) > 1e-12 {
		t.Fatalf("after first step got %f, want -1", p.W.Data[0])
	}
	p.Grad.Data[0] = 1
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	// v=0.5+1=1.5, w=-2.5
	if math.Abs(p.W.Data[0]+2.5) > 1e-12 {
		t.Fatalf("after second step got %f, want -2.5", p.W.Data[0])
	}
}

func TestMomentumReset(t *testing.T) {
	p := newTestParam([]float64{0}, []float64{1})
	opt := NewMomentum(1, 0.9)
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	opt.Reset()
	if len(opt.buf) != 0 {
		t.Fatal("Reset did not clear the velocity buffer")
	}
}

func TestAdamFirstStep(t *testing.T) {
	p := newTestParam([]float64{1}, []float64{0.3})
	opt := NewAdam(0.01)
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	// With bias correction the first step is close to -lr*sign(g).
	if math.Abs(p.W.Data[0]-(1-0.01)) > 1e-6 {
		t.Errorf("got %f, want about 0.99", p.W.Data[0])
	}
}

func TestRMSPropStepDirection(t *testing.T) {
	p := newTestParam([]float64{1}, []float64{2})
	opt := NewRMSProp(0.1)
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	if p.W.Data[0] >= 1 {
		t.Errorf("positive gradient should decrease weight, got %f", p.W.Data[0])
	}
}

func TestNoiseScheduleAnnealing(t *testing.T) {
	s := NoiseSchedule{Scale: 1, Decay: 0.5}
	if s.At(0) != 1 {
		t.Errorf("At(0)=%f, want 1", s.At(0))
	}
	if s.At(3) != 0.5 {
		t.Errorf("At(3)=%f, want 0.5", s.At(3))
	}
	constant := NoiseSchedule{Scale: 0.1}
	if constant.At(100) != 0.1 {
		t.Errorf("constant schedule should not decay, got %f", constant.At(100))
	}
}

func TestLangevinZeroNoiseMatchesBase(t *testing.T) {
	cases := []struct {
		name     string
		base     Optimizer
		langevin Optimizer
	}{
		{"sgd", NewSGD(0.05), NewLangevinSGD(0.05, 0, 0, 1)},
		{"momentum", NewMomentum(0.05, 0.9), NewLangevinMomentum(0.05, 0.9, 0, 0, 1)},
		{"adam", NewAdam(0.05), NewLangevinAdam(0.05, 0, 0, 1)},
	}
	for _, tc := range cases {
		a := newTestParam([]float64{1, -2, 0.5}, []float64{0.1, 0.2, -0.3})
		b := newTestParam([]float64{1, -2, 0.5}, []float64{0.1, 0.2, -0.3})

		// two steps so stateful buffers diverge if they differ
		for step := 0; step < 2; step++ {
			if err := tc.base.Step([]*Param{a}); err != nil {
				t.Fatal(err)
			}
			if err := tc.langevin.Step([]*Param{b}); err != nil {
				t.Fatal(err)
			}
		}
		for i := range a.W.Data {
			if a.W.Data[i] != b.W.Data[i] {
				t.Errorf("%s: at %d, base=%f langevin=%f", tc.name, i, a.W.Data[i], b.W.Data[i])
			}
		}
	}
}

func TestStepZeroGradIsNoOp(t *testing.T) {
	for _, name := range Names {
		opt, err := New(name, 0.1, 0, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		p := newTestParam([]float64{1, -2, 0.5}, []float64{0, 0, 0})
		if err := opt.Step([]*Param{p}); err != nil {
			t.Fatal(err)
		}
		want := []float64{1, -2, 0.5}
		for i := range want {
			if p.W.Data[i] != want[i] {
				t.Errorf("%s: weight %d moved to %f on zero gradient", name, i, p.W.Data[i])
			}
		}
	}
}

func TestLangevinNoiseIsReproducible(t *testing.T) {
	a := newTestParam([]float64{1, 1, 1, 1}, []float64{0, 0, 0, 0})
	b := newTestParam([]float64{1, 1, 1, 1}, []float64{0, 0, 0, 0})

	o1 := NewLangevinSGD(0.1, 0.5, 0, 42)
	o2 := NewLangevinSGD(0.1, 0.5, 0, 42)
	if err := o1.Step([]*Param{a}); err != nil {
		t.Fatal(err)
	}
	if err := o2.Step([]*Param{b}); err != nil {
		t.Fatal(err)
	}
	moved := false
	for i := range a.W.Data {
		if a.W.Data[i] != b.W.Data[i] {
			t.Errorf("same seed produced different weights at %d: %f vs %f", i, a.W.Data[i], b.W.Data[i])
		}
		if a.W.Data[i] != 1 {
			moved = true
		}
	}
	if !moved {
		t.Fatal("noise injection left all weights untouched")
	}
}

func TestLangevinResetRestartsNoiseStream(t *testing.T) {
	p := newTestParam([]float64{1}, []float64{0})
	opt := NewLangevinSGD(0.1, 0.5, 0, 7)
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	first := p.W.Data[0]

	opt.Reset()
	p.W.Data[0] = 1
	if err := opt.Step([]*Param{p}); err != nil {
		t.Fatal(err)
	}
	if p.W.Data[0] != first {
		t.Errorf("after Reset expected identical first perturbation, got %f vs %f", p.W.Data[0], first)
	}
}

func TestZeroGradAndScaleGrads(t *testing.T) {
	p := newTestParam([]float64{0, 0}, []float64{4, 8})
	ScaleGrads([]*Param{p}, 0.25)
	if p.Grad.Data[0] != 1 || p.Grad.Data[1] != 2 {
		t.Fatalf("unexpected scaled grads: %v", p.Grad.Data)
	}
	ZeroGrad([]*Param{p})
	if p.Grad.Data[0] != 0 || p.Grad.Data[1] != 0 {
		t.Fatalf("grads not cleared: %v", p.Grad.Data)
	}
}

func TestNewByName(t *testing.T) {
	for _, name := range Names {
		opt, err := New(name, 0.01, 0.1, 0.5, 1)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if opt.Name() != name {
			t.Errorf("Name()=%q, want %q", opt.Name(), name)
		}
	}
	if _, err := New("nope", 0.01, 0, 0, 1); err == nil {
		t.Fatal("expected error for unknown optimizer")
	}
}
