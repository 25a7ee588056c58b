// langevin-experiment: Trains one model under several optimizers and
// exports a metrics CSV plus loss and accuracy curves.
//
// Usage:
//
//	langevin-experiment --model=dense --optimizers=sgd,langevin-sgd --epochs=20 --out=data/out
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"langevin/dataset"
	"langevin/experiment"
	"langevin/nn"
	"langevin/optim"
	"langevin/utils"
)

var (
	name           = flag.String("name", "langevin-vs-baseline", "Experiment name recorded in the CSV")
	modelType      = flag.String("model", "dense", "Model type: dense, conv, highway, resnet, densenet")
	optimizerNames = flag.String("optimizers", strings.Join(optim.Names, ","), "Comma-separated optimizer list")
	epochs         = flag.Int("epochs", 10, "Number of training epochs")
	learningRate   = flag.Float64("lr", 0.01, "Learning rate")
	noiseScale     = flag.Float64("noise", 0.01, "Langevin noise scale")
	noiseDecay     = flag.Float64("noise-decay", 0.55, "Langevin noise annealing exponent")
	batchSize      = flag.Int("batch", 32, "Mini-batch size")
	seed           = flag.Uint64("seed", 42, "Random seed shared by every run")
	samples        = flag.Int("samples", 1000, "Number of synthetic samples when no data file is given")
	dataPath       = flag.String("data", "", "Training CSV, label-first rows")
	mnistScale     = flag.Bool("mnist", false, "Rescale features as MNIST pixel values")
	classes        = flag.Int("classes", 10, "Number of classes for synthetic data")
	inputDim       = flag.Int("input-dim", 64, "Feature width for synthetic data")
	outDir         = flag.String("out", filepath.Join("data", "out"), "Output directory for CSV and plots")
)

func main() {
	flag.Parse()

	cfg := &utils.Config{
		Model:        *modelType,
		Optimizers:   utils.ParseOptimizers(*optimizerNames),
		DataPath:     *dataPath,
		OutDir:       *outDir,
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		LearningRate: *learningRate,
		NoiseScale:   *noiseScale,
		NoiseDecay:   *noiseDecay,
		Seed:         *seed,
	}
	if err := utils.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var (
		data dataset.Lines
		err  error
	)
	if cfg.DataPath == "" {
		fmt.Printf("Generating %d synthetic samples...\n", *samples)
		data = dataset.Synthetic(*inputDim, *classes, *samples, cfg.Seed)
	} else {
		load := dataset.LoadCSV
		if *mnistScale {
			load = dataset.LoadMNISTCSV
		}
		if data, err = load(cfg.DataPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
			os.Exit(1)
		}
	}
	data.Shuffle(cfg.Seed)
	train, test, err := data.Split(0.9)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error splitting data: %v\n", err)
		os.Exit(1)
	}

	opts := make([]optim.Optimizer, 0, len(cfg.Optimizers))
	for _, optName := range cfg.Optimizers {
		opt, err := optim.New(optName, cfg.LearningRate, cfg.NoiseScale, cfg.NoiseDecay, cfg.Seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, opt)
	}

	dim, numClasses := train.InputDim(), train.Classes()
	e := &experiment.Experiment{
		Name: *name,
		Builder: func(s uint64) (*nn.Model, error) {
			return nn.Build(cfg.Model, dim, numClasses, s)
		},
		Optimizers: opts,
		Train:      train,
		Test:       test,
		Epochs:     cfg.Epochs,
		BatchSize:  cfg.BatchSize,
		Seed:       cfg.Seed,
	}

	fmt.Printf("Experiment %q: %s model, %d optimizers, %d epochs\n",
		*name, cfg.Model, len(opts), cfg.Epochs)

	results, err := e.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Experiment failed: %v\n", err)
		os.Exit(1)
	}

	for _, res := range results {
		last := res.History[len(res.History)-1]
		fmt.Printf("  %-18s final loss %.6f, accuracy %.2f%%\n",
			res.Optimizer, last.TestLoss, last.Accuracy*100)
	}

	csvPath := filepath.Join(cfg.OutDir, "metrics.csv")
	if err := experiment.WriteCSV(csvPath, *name, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
		os.Exit(1)
	}
	if err := experiment.PlotLoss(filepath.Join(cfg.OutDir, "loss.png"), *name, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error plotting loss: %v\n", err)
		os.Exit(1)
	}
	if err := experiment.PlotAccuracy(filepath.Join(cfg.OutDir, "accuracy.png"), *name, results); err != nil {
		fmt.Fprintf(os.Stderr, "Error plotting accuracy: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s, loss.png and accuracy.png\n", csvPath)
}
