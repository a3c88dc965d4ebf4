package matching

import (
	"fmt"
	"math"
)

// Weights is the fixed convex combination over the five component scores.
// The default ordering is a product decision: major-field relevance
// dominates, followed by academic performance.
type Weights struct {
	Major      float64 `mapstructure:"major" json:"major"`
	GPA        float64 `mapstructure:"gpa" json:"gpa"`
	Tier       float64 `mapstructure:"tier" json:"tier"`
	Language   float64 `mapstructure:"language" json:"language"`
	Experience float64 `mapstructure:"experience" json:"experience"`
}

// DefaultWeights returns the hand-tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		Major:      0.30,
		GPA:        0.25,
		Tier:       0.20,
		Language:   0.15,
		Experience: 0.10,
	}
}

// Validate checks that every weight is non-negative and the vector sums to
// one, keeping the total similarity inside [0,1].
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"major":      w.Major,
		"gpa":        w.GPA,
		"tier":       w.Tier,
		"language":   w.Language,
		"experience": w.Experience,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %v", name, v)
		}
	}

	sum := w.Major + w.GPA + w.Tier + w.Language + w.Experience
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}
