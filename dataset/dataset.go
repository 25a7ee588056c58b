package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"langevin/tensor"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// Line is a single labelled sample.
type Line struct {
	Input *tensor.Tensor
	Label int
}

// Lines is an in-memory dataset.
type Lines []Line

type errInvalidLine struct {
	lineNum int
	reason  string
}

func (e *errInvalidLine) Error() string {
	return fmt.Sprintf("invalid line %d: %s", e.lineNum, e.reason)
}

// OneHot encodes a label as a one-hot tensor of the given width.
func OneHot(label, classes int) *tensor.Tensor {
	t := tensor.New(classes)
	if label >= 0 && label < classes {
		t.Data[label] = 1
	}
	return t
}

// LoadCSV reads label-first rows: the first column is an integer class
// label, the remaining columns are the features.
func LoadCSV(path string) (Lines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var lines Lines
	width := 0
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, &errInvalidLine{lineNum: i + 1, reason: "needs a label and at least one feature"}
		}
		if width == 0 {
			width = len(rec)
		} else if len(rec) != width {
			return nil, &errInvalidLine{lineNum: i + 1, reason: fmt.Sprintf("has %d fields, want %d", len(rec), width)}
		}
		label, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, &errInvalidLine{lineNum: i + 1, reason: fmt.Sprintf("bad label %q", rec[0])}
		}
		x := tensor.New(len(rec) - 1)
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &errInvalidLine{lineNum: i + 1, reason: fmt.Sprintf("bad feature %q", field)}
			}
			x.Data[j] = v
		}
		lines = append(lines, Line{Input: x, Label: label})
	}
	return lines, nil
}

// LoadMNISTCSV reads the Kaggle-style MNIST CSV, label first then 784
// pixel columns, and rescales pixels from [0,255] into [0.01, 1.0].
func LoadMNISTCSV(path string) (Lines, error) {
	lines, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		for i, v := range l.Input.Data {
			l.Input.Data[i] = v/255.0*0.99 + 0.01
		}
	}
	return lines, nil
}

// InputDim reports the feature width, 0 for an empty dataset.
func (ls Lines) InputDim() int {
	if len(ls) == 0 {
		return 0
	}
	return len(ls[0].Input.Data)
}

// Classes reports one past the largest label seen.
func (ls Lines) Classes() int {
	max := -1
	for _, l := range ls {
		if l.Label > max {
			max = l.Label
		}
	}
	return max + 1
}

// FeatureStats computes per-feature mean and standard deviation.
func (ls Lines) FeatureStats() (mean, std []float64) {
	dim := ls.InputDim()
	mean = make([]float64, dim)
	std = make([]float64, dim)
	col := make([]float64, len(ls))
	for j := 0; j < dim; j++ {
		for i, l := range ls {
			col[i] = l.Input.Data[j]
		}
		mean[j] = stat.Mean(col, nil)
		std[j] = stat.StdDev(col, nil)
	}
	return mean, std
}

// Normalize shifts every feature to zero mean and unit variance in place.
// Constant features are left centred at zero.
func (ls Lines) Normalize() {
	mean, std := ls.FeatureStats()
	for _, l := range ls {
		for j := range l.Input.Data {
			l.Input.Data[j] -= mean[j]
			if std[j] > 0 {
				l.Input.Data[j] /= std[j]
			}
		}
	}
}

// Shuffle permutes the dataset in place, deterministically per seed.
func (ls Lines) Shuffle(seed uint64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ls), func(i, j int) {
		ls[i], ls[j] = ls[j], ls[i]
	})
}

// Split cuts the dataset at frac, returning (train, test). frac is the
// training share and must sit in (0, 1].
func (ls Lines) Split(frac float64) (Lines, Lines, error) {
	if frac <= 0 || frac > 1 {
		return nil, nil, fmt.Errorf("split fraction must be in (0,1], got %v", frac)
	}
	cut := int(float64(len(ls)) * frac)
	return ls[:cut], ls[cut:], nil
}

// Batches slices the dataset into mini-batches of at most size samples.
// A short final batch is kept.
func (ls Lines) Batches(size int) []Lines {
	if size <= 0 {
		size = 1
	}
	var batches []Lines
	for i := 0; i < len(ls); i += size {
		end := i + size
		if end > len(ls) {
			end = len(ls)
		}
		batches = append(batches, ls[i:end])
	}
	return batches
}
