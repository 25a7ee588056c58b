package experiment

import (
	"fmt"
	"time"

	"langevin/dataset"
	"langevin/nn"
	"langevin/optim"

	"gonum.org/v1/gonum/floats"
)

// Experiment trains one architecture under several optimizers on the same
// data so their loss curves can be compared side by side.
type Experiment struct {
	Name       string
	Builder    func(seed uint64) (*nn.Model, error)
	Optimizers []optim.Optimizer
	Train      dataset.Lines
	Test       dataset.Lines
	Epochs     int
	BatchSize  int
	Seed       uint64
}

// EpochMetrics is one row of an optimizer's training history.
type EpochMetrics struct {
	Epoch     int
	TrainLoss float64
	TestLoss  float64
	Accuracy  float64
	Seconds   float64
}

// Result is the full history of one optimizer run.
type Result struct {
	Optimizer string
	History   []EpochMetrics
}

// Run trains a fresh model per optimizer. Every run starts from the same
// seed so all optimizers see identical initial weights and data order, and
// every history has exactly Epochs entries.
func (e *Experiment) Run() ([]Result, error) {
	if e.Builder == nil {
		return nil, fmt.Errorf("experiment %s: no model builder", e.Name)
	}
	if len(e.Optimizers) == 0 {
		return nil, fmt.Errorf("experiment %s: no optimizers", e.Name)
	}
	if e.Epochs <= 0 {
		return nil, fmt.Errorf("experiment %s: epochs must be positive", e.Name)
	}
	if len(e.Train) == 0 {
		return nil, fmt.Errorf("experiment %s: empty training set", e.Name)
	}

	var results []Result
	for _, opt := range e.Optimizers {
		opt.Reset()
		model, err := e.Builder(e.Seed)
		if err != nil {
			return nil, fmt.Errorf("building model for %s: %w", opt.Name(), err)
		}

		history := make([]EpochMetrics, 0, e.Epochs)
		for epoch := 0; epoch < e.Epochs; epoch++ {
			start := time.Now()
			trainLoss, err := e.trainEpoch(model, opt, epoch)
			if err != nil {
				return nil, fmt.Errorf("%s epoch %d: %w", opt.Name(), epoch, err)
			}
			testLoss, accuracy, err := Evaluate(model, e.Test)
			if err != nil {
				return nil, fmt.Errorf("%s epoch %d eval: %w", opt.Name(), epoch, err)
			}
			history = append(history, EpochMetrics{
				Epoch:     epoch,
				TrainLoss: trainLoss,
				TestLoss:  testLoss,
				Accuracy:  accuracy,
				Seconds:   time.Since(start).Seconds(),
			})
		}
		results = append(results, Result{Optimizer: opt.Name(), History: history})
	}
	return results, nil
}

// trainEpoch runs one pass over the training set with mini-batch updates
// and returns the mean per-sample loss.
func (e *Experiment) trainEpoch(model *nn.Model, opt optim.Optimizer, epoch int) (float64, error) {
	shuffled := make(dataset.Lines, len(e.Train))
	copy(shuffled, e.Train)
	shuffled.Shuffle(e.Seed + uint64(epoch))

	ce := &nn.CrossEntropyLoss{}
	params := model.Params()
	totalLoss := 0.0

	for _, batch := range shuffled.Batches(e.BatchSize) {
		optim.ZeroGrad(params)
		for _, line := range batch {
			logits, err := model.Forward(line.Input)
			if err != nil {
				return 0, err
			}
			probs := nn.Softmax(logits)
			label := dataset.OneHot(line.Label, model.OutputDim)
			totalLoss += ce.Loss(probs, label)
			if _, err := model.Backward(ce.Backward(probs, label)); err != nil {
				return 0, err
			}
		}
		optim.ScaleGrads(params, 1/float64(len(batch)))
		if err := opt.Step(params); err != nil {
			return 0, err
		}
	}
	return totalLoss / float64(len(shuffled)), nil
}

// Evaluate computes mean cross-entropy loss and argmax accuracy over lines.
func Evaluate(model *nn.Model, lines dataset.Lines) (loss, accuracy float64, err error) {
	if len(lines) == 0 {
		return 0, 0, nil
	}
	ce := &nn.CrossEntropyLoss{}
	correct := 0
	for _, line := range lines {
		logits, err := model.Forward(line.Input)
		if err != nil {
			return 0, 0, err
		}
		probs := nn.Softmax(logits)
		loss += ce.Loss(probs, dataset.OneHot(line.Label, model.OutputDim))
		if floats.MaxIdx(probs.Data) == line.Label {
			correct++
		}
	}
	n := float64(len(lines))
	return loss / n, float64(correct) / n, nil
}
