package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "0,1.5,2.5\n2,3.0,4.0\n")
	lines, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Label != 0 || lines[1].Label != 2 {
		t.Errorf("bad labels: %d %d", lines[0].Label, lines[1].Label)
	}
	if lines[1].Input.Data[1] != 4.0 {
		t.Errorf("expected feature 4.0, got %v", lines[1].Input.Data[1])
	}
	if lines.InputDim() != 2 || lines.Classes() != 3 {
		t.Errorf("expected dim 2 classes 3, got %d %d", lines.InputDim(), lines.Classes())
	}
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	lines, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected empty dataset, got %d lines", len(lines))
	}
}

func TestLoadCSVShortRow(t *testing.T) {
	path := writeCSV(t, "1,2.0\n3\n")
	_, err := LoadCSV(path)
	var lineErr *errInvalidLine
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected line error, got %v", err)
	}
	if lineErr.lineNum != 2 {
		t.Errorf("expected line 2, got %d", lineErr.lineNum)
	}
}

func TestLoadCSVRaggedRows(t *testing.T) {
	path := writeCSV(t, "0,1.0,2.0\n1,3.0\n")
	_, err := LoadCSV(path)
	var lineErr *errInvalidLine
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected line error, got %v", err)
	}
	if lineErr.lineNum != 2 {
		t.Errorf("expected line 2, got %d", lineErr.lineNum)
	}
}

func TestLoadCSVBadLabel(t *testing.T) {
	path := writeCSV(t, "x,1.0\n")
	if _, err := LoadCSV(path); err == nil {
		t.Errorf("expected error for non-integer label")
	}
}

func TestLoadCSVBadFeature(t *testing.T) {
	path := writeCSV(t, "1,oops\n")
	if _, err := LoadCSV(path); err == nil {
		t.Errorf("expected error for non-numeric feature")
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV("/does/not/exist.csv"); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoadMNISTCSVScaling(t *testing.T) {
	path := writeCSV(t, "7,0,255\n")
	lines, err := LoadMNISTCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(lines[0].Input.Data[0]-0.01) > 1e-12 {
		t.Errorf("expected 0.01 for pixel 0, got %v", lines[0].Input.Data[0])
	}
	if math.Abs(lines[0].Input.Data[1]-1.0) > 1e-12 {
		t.Errorf("expected 1.0 for pixel 255, got %v", lines[0].Input.Data[1])
	}
}

func TestOneHot(t *testing.T) {
	h := OneHot(2, 4)
	want := []float64{0, 0, 1, 0}
	for i, v := range want {
		if h.Data[i] != v {
			t.Errorf("expected %v, got %v", want, h.Data)
			break
		}
	}
}

func TestNormalize(t *testing.T) {
	lines := Synthetic(3, 2, 200, 11)
	lines.Normalize()
	mean, std := lines.FeatureStats()
	for j := range mean {
		if math.Abs(mean[j]) > 1e-9 {
			t.Errorf("feature %d mean not centred: %v", j, mean[j])
		}
		if math.Abs(std[j]-1) > 1e-9 {
			t.Errorf("feature %d std not unit: %v", j, std[j])
		}
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a := Synthetic(2, 2, 50, 3)
	b := Synthetic(2, 2, 50, 3)
	a.Shuffle(9)
	b.Shuffle(9)
	for i := range a {
		if a[i].Label != b[i].Label || a[i].Input.Data[0] != b[i].Input.Data[0] {
			t.Fatalf("shuffles diverge at %d", i)
		}
	}
}

func TestSplit(t *testing.T) {
	lines := Synthetic(2, 2, 10, 1)
	train, test, err := lines.Split(0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(train) != 8 || len(test) != 2 {
		t.Errorf("expected 8/2 split, got %d/%d", len(train), len(test))
	}
	if _, _, err := lines.Split(0); err == nil {
		t.Errorf("expected error for zero fraction")
	}
}

func TestBatchesKeepsRemainder(t *testing.T) {
	lines := Synthetic(2, 2, 10, 1)
	batches := lines.Batches(4)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[2]) != 2 {
		t.Errorf("expected final batch of 2, got %d", len(batches[2]))
	}
}

func TestSyntheticShape(t *testing.T) {
	lines := Synthetic(5, 3, 30, 2)
	if len(lines) != 30 {
		t.Fatalf("expected 30 samples, got %d", len(lines))
	}
	if lines.InputDim() != 5 {
		t.Errorf("expected dim 5, got %d", lines.InputDim())
	}
	for _, l := range lines {
		if l.Label < 0 || l.Label >= 3 {
			t.Fatalf("label out of range: %d", l.Label)
		}
	}
}
