package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds training configuration
type Config struct {
	Model        string
	Architecture []int
	Optimizers   []string
	DataPath     string
	TestPath     string
	OutDir       string
	Epochs       int
	BatchSize    int
	LearningRate float64
	NoiseScale   float64
	NoiseDecay   float64
	Seed         uint64
}

// ParseArchitecture parses architecture string into slice of integers
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.Fields(archStr)
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		arch[i] = n
	}
	return arch, nil
}

// ParseOptimizers parses a comma-separated optimizer list
func ParseOptimizers(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) > 0 && len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if config.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}

	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.NoiseScale < 0 {
		return fmt.Errorf("noise scale must be non-negative")
	}

	if config.NoiseDecay < 0 {
		return fmt.Errorf("noise decay must be non-negative")
	}

	if len(config.Optimizers) == 0 {
		return fmt.Errorf("at least one optimizer is required")
	}

	return nil
}
