package domain

import (
	"fmt"
	"math"
)

// Weights are the three signal weights the store applies when computing
// combined_score. The engine passes them through as configuration and
// never recomputes scores itself.
type Weights struct {
	Keyword  float64
	Fuzzy    float64
	Semantic float64
}

// DefaultWeights returns the fixed production weighting.
func DefaultWeights() Weights {
	return Weights{Keyword: 0.4, Fuzzy: 0.2, Semantic: 0.4}
}

// Validate checks that all weights are non-negative and sum to 1.0
// within a small tolerance.
func (w Weights) Validate() error {
	if w.Keyword < 0 || w.Fuzzy < 0 || w.Semantic < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", w)
	}
	sum := w.Keyword + w.Fuzzy + w.Semantic
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", sum)
	}
	return nil
}
