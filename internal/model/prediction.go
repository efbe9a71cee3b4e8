package model

import (
	"fmt"
	"math"
	"sort"
)

// Prediction is a single label/score pair returned by a model backend.
type Prediction struct {
	Label string
	Score float64
}

// scoreTolerance absorbs the rounding overshoot fastText applies to near-certain labels.
const scoreTolerance = 1e-4

// Validate ensures the prediction has a label and a score in [0,1].
func (p Prediction) Validate() error {
	if p.Label == "" {
		return fmt.Errorf("prediction label is required")
	}
	if math.IsNaN(p.Score) || p.Score < 0.0 || p.Score > 1.0+scoreTolerance {
		return fmt.Errorf("score must be between 0.0 and 1.0, got %.2f", p.Score)
	}
	return nil
}

// Predictions is a slice of Prediction with ranking helpers.
type Predictions []Prediction

// Len implements sort.Interface.
func (p Predictions) Len() int { return len(p) }

// Less implements sort.Interface (higher score first).
func (p Predictions) Less(i, j int) bool { return p[i].Score > p[j].Score }

// Swap implements sort.Interface.
func (p Predictions) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

// Sort orders predictions by score, highest first. Equal scores keep backend order.
func (p Predictions) Sort() {
	sort.Stable(p)
}

// Top returns the highest scoring prediction, or nil if there are none.
func (p Predictions) Top() *Prediction {
	if len(p) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i].Score > p[best].Score {
			best = i
		}
	}
	return &p[best]
}
