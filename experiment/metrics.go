package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV appends every epoch row of every result to a metrics log,
// writing headers only when the file is new.
func WriteCSV(path string, name string, results []Result) error {
	var needsHeaders bool
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeaders = true
	}
	file, err := os.OpenFile(path,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if needsHeaders {
		err = w.Write([]string{
			"Experiment", "Optimizer", "Epoch", "TrainLoss", "TestLoss", "Accuracy", "Seconds",
		})
		if err != nil {
			return fmt.Errorf("writing csv headers: %w", err)
		}
	}

	for _, res := range results {
		for _, m := range res.History {
			record := make([]string, 7)
			record[0] = name
			record[1] = res.Optimizer
			record[2] = strconv.Itoa(m.Epoch)
			record[3] = strconv.FormatFloat(m.TrainLoss, 'f', 6, 64)
			record[4] = strconv.FormatFloat(m.TestLoss, 'f', 6, 64)
			record[5] = strconv.FormatFloat(m.Accuracy, 'f', 5, 64)
			record[6] = strconv.FormatFloat(m.Seconds, 'f', 3, 64)
			if err := w.Write(record); err != nil {
				return fmt.Errorf("error writing csv: %s", err.Error())
			}
		}
	}
	w.Flush()
	return w.Error()
}
