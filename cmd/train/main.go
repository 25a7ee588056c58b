// langevin-train: Standalone single-process trainer
//
// Usage:
//
//	langevin-train --model=dense --optimizer=langevin-sgd --epochs=10 --lr=0.01
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"langevin/dataset"
	"langevin/experiment"
	"langevin/nn"
	"langevin/optim"
	"langevin/utils"
)

var (
	modelType     = flag.String("model", "dense", "Model type: dense, conv, highway, resnet, densenet")
	archStr       = flag.String("arch", "", "Dense layer widths, e.g. \"784 128 10\" (overrides model defaults)")
	optimizerName = flag.String("optimizer", "sgd", "Optimizer: sgd, momentum, rmsprop, adam, langevin-sgd, langevin-momentum, langevin-adam")
	epochs        = flag.Int("epochs", 5, "Number of training epochs")
	learningRate  = flag.Float64("lr", 0.01, "Learning rate")
	noiseScale    = flag.Float64("noise", 0.01, "Langevin noise scale")
	noiseDecay    = flag.Float64("noise-decay", 0.55, "Langevin noise annealing exponent")
	batchSize     = flag.Int("batch", 32, "Mini-batch size")
	verbose       = flag.Bool("verbose", true, "Verbose output")
	seed          = flag.Uint64("seed", 42, "Random seed")
	samples       = flag.Int("samples", 1000, "Number of synthetic samples when no data file is given")
	dataPath      = flag.String("data", "", "Training CSV, label-first rows")
	testPath      = flag.String("test", "", "Test CSV; without it 10% of the training data is held out")
	mnistScale    = flag.Bool("mnist", false, "Rescale features as MNIST pixel values")
	classes       = flag.Int("classes", 10, "Number of classes for synthetic data")
	inputDim      = flag.Int("input-dim", 784, "Feature width for synthetic data")
	outputFile    = flag.String("output", "", "Output weights file (JSON)")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("=== Langevin Trainer ===")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Model:         %s\n", *modelType)
	fmt.Printf("  Optimizer:     %s\n", *optimizerName)
	fmt.Printf("  Epochs:        %d\n", *epochs)
	fmt.Printf("  Learning Rate: %.4f\n", *learningRate)
	fmt.Printf("  Noise:         %.4f (decay %.2f)\n", *noiseScale, *noiseDecay)
	fmt.Printf("  Batch Size:    %d\n", *batchSize)
	fmt.Println()

	stats := &utils.TimingStats{}

	// Load or synthesize data
	start := time.Now()
	train, test, err := loadData()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}
	stats.DataLoadingTime = time.Since(start)
	if len(train) == 0 {
		fmt.Fprintln(os.Stderr, "Error: training set is empty")
		os.Exit(1)
	}
	fmt.Printf("Data: %d train / %d test samples, %d features, %d classes\n",
		len(train), len(test), train.InputDim(), train.Classes())

	// Build model
	start = time.Now()
	model, err := buildModel(train)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building model: %v\n", err)
		os.Exit(1)
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Model: %d layers, %d parameters\n", len(model.Layers), countParams(model))

	opt, err := optim.New(*optimizerName, *learningRate, *noiseScale, *noiseDecay, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Training loop
	fmt.Println("\nStarting training...")
	totalStart := time.Now()
	steps := 0

	for epoch := 0; epoch < *epochs; epoch++ {
		epochStart := time.Now()
		epochLoss, epochSteps, err := trainEpoch(model, opt, train, *batchSize, *seed+uint64(epoch), stats)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in epoch %d: %v\n", epoch, err)
			os.Exit(1)
		}
		steps += epochSteps

		testLoss, accuracy, err := experiment.Evaluate(model, test)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error evaluating: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Epoch %d/%d | Loss: %.6f | Test Loss: %.6f | Accuracy: %.2f%% | Time: %.2fs\n",
			epoch+1, *epochs, epochLoss, testLoss, accuracy*100, time.Since(epochStart).Seconds())
	}

	stats.TotalTime = time.Since(totalStart)
	fmt.Printf("\nTraining complete! Total time: %.2fs\n", stats.TotalTime.Seconds())

	if *verbose && steps > 0 {
		utils.PrintTimingStats(stats, steps)
	}

	// Save weights
	if *outputFile != "" {
		fmt.Printf("\nSaving weights to %s...\n", *outputFile)
		if err := saveWeights(model, *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Done!")
	}
}

func loadData() (dataset.Lines, dataset.Lines, error) {
	if *dataPath == "" {
		fmt.Printf("Generating %d synthetic samples...\n", *samples)
		lines := dataset.Synthetic(*inputDim, *classes, *samples, *seed)
		return splitOrLoadTest(lines)
	}

	load := dataset.LoadCSV
	if *mnistScale {
		load = dataset.LoadMNISTCSV
	}
	lines, err := load(*dataPath)
	if err != nil {
		return nil, nil, err
	}
	return splitOrLoadTest(lines)
}

func splitOrLoadTest(train dataset.Lines) (dataset.Lines, dataset.Lines, error) {
	if *testPath != "" {
		load := dataset.LoadCSV
		if *mnistScale {
			load = dataset.LoadMNISTCSV
		}
		test, err := load(*testPath)
		if err != nil {
			return nil, nil, err
		}
		return train, test, nil
	}
	train.Shuffle(*seed)
	return splitNine(train)
}

func splitNine(lines dataset.Lines) (dataset.Lines, dataset.Lines, error) {
	train, test, err := lines.Split(0.9)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func buildModel(train dataset.Lines) (*nn.Model, error) {
	if *archStr != "" {
		arch, err := utils.ParseArchitecture(*archStr)
		if err != nil {
			return nil, fmt.Errorf("parsing architecture: %w", err)
		}
		return nn.NewDense(arch, *seed)
	}
	return nn.Build(*modelType, train.InputDim(), train.Classes(), *seed)
}

func trainEpoch(model *nn.Model, opt optim.Optimizer, train dataset.Lines, batch int, seed uint64, stats *utils.TimingStats) (float64, int, error) {
	if len(train) == 0 {
		return 0, 0, fmt.Errorf("empty training set")
	}
	shuffled := make(dataset.Lines, len(train))
	copy(shuffled, train)
	shuffled.Shuffle(seed)

	ce := &nn.CrossEntropyLoss{}
	params := model.Params()
	totalLoss := 0.0
	steps := 0

	for _, b := range shuffled.Batches(batch) {
		optim.ZeroGrad(params)
		for _, line := range b {
			start := time.Now()
			logits, err := model.Forward(line.Input)
			if err != nil {
				return 0, steps, err
			}
			stats.ForwardPassTime += time.Since(start)

			start = time.Now()
			probs := nn.Softmax(logits)
			label := dataset.OneHot(line.Label, model.OutputDim)
			totalLoss += ce.Loss(probs, label)
			stats.LossComputationTime += time.Since(start)

			start = time.Now()
			if _, err := model.Backward(ce.Backward(probs, label)); err != nil {
				return 0, steps, err
			}
			stats.BackwardPassTime += time.Since(start)
		}

		start := time.Now()
		optim.ScaleGrads(params, 1/float64(len(b)))
		if err := opt.Step(params); err != nil {
			return 0, steps, err
		}
		stats.UpdateTime += time.Since(start)
		steps++
	}
	return totalLoss / float64(len(shuffled)), steps, nil
}

func countParams(model *nn.Model) int {
	total := 0
	for _, p := range model.Params() {
		total += p.W.NumElements()
	}
	return total
}

func saveWeights(model *nn.Model, filepath string) error {
	weights := &utils.ModelWeights{
		Version: "1.0",
		Layers:  make(map[string]utils.LayerWeight),
	}
	for i, p := range model.Params() {
		weights.Layers[fmt.Sprintf("param_%d_%s", i, p.Name)] = utils.LayerWeight{
			Weight: utils.TensorToWeightData(p.Name, p.W),
		}
	}
	return utils.SaveWeights(filepath, weights)
}
