package scorer

import (
	"math"
)

// Probability caps. Clamping prevents false certainty from a handful of
// games; no prediction is ever stored outside [0.05, 0.95].
const (
	MinProbability = 0.05
	MaxProbability = 0.95
)

// ProbabilityModel maps the signed difference between the point estimate and
// the line to an over probability. Implementations must be monotonically
// increasing in the delta and return values in (0, 1); the scorer applies the
// [0.05, 0.95] clamp afterwards, so swapping in an exact CDF or an empirical
// distribution needs no changes elsewhere in the pipeline.
type ProbabilityModel interface {
	Probability(delta, variance float64) float64
}

// TanhNormalModel approximates a normal CDF with a tanh curve. The variance
// parameter controls steepness: a smaller variance gives a sharper probability
// swing per unit of difference from the line.
type TanhNormalModel struct{}

// NewTanhNormalModel returns the default probability model
func NewTanhNormalModel() *TanhNormalModel {
	return &TanhNormalModel{}
}

// Probability maps delta through 0.5*(1+tanh(delta/sqrt(2*variance)))
func (m *TanhNormalModel) Probability(delta, variance float64) float64 {
	if variance <= 0 {
		variance = 1.0
	}
	scale := math.Sqrt(2.0 * variance)
	return 0.5 * (1.0 + math.Tanh(delta/scale))
}

// clampProbability bounds a probability to the storable range
func clampProbability(p float64) float64 {
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}
