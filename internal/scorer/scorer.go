// Package scorer combines aggregated player form with market odds to produce
// calibrated probability estimates and value scores for prop outcomes.
package scorer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/oddsmath"
)

// Sample size at which the confidence heuristic saturates
const confidenceSaturationGames = 20

// Weights blend the four averages into a single point estimate. Absent inputs
// redistribute their weight proportionally across the present ones.
type Weights struct {
	Recent7  float64
	Recent14 float64
	Recent30 float64
	Season   float64
}

// DefaultWeights returns the standard recency-weighted blend
func DefaultWeights() Weights {
	return Weights{Recent7: 0.4, Recent14: 0.3, Recent30: 0.2, Season: 0.1}
}

// Scorer turns a stats snapshot plus a market quote into an unsaved prediction
type Scorer struct {
	weights      Weights
	variance     float64
	model        ProbabilityModel
	modelVersion string
}

// NewScorer creates a scorer. A nil model falls back to the tanh default.
func NewScorer(weights Weights, variance float64, model ProbabilityModel, modelVersion string) *Scorer {
	if model == nil {
		model = NewTanhNormalModel()
	}
	if variance <= 0 {
		variance = 25.0
	}
	return &Scorer{
		weights:      weights,
		variance:     variance,
		model:        model,
		modelVersion: modelVersion,
	}
}

// ModelVersion returns the version string stamped on every prediction
func (s *Scorer) ModelVersion() string {
	return s.modelVersion
}

// Score produces an unsaved prediction for one (game, player, prop) market.
// It returns models.ErrInsufficientData when the snapshot holds no usable
// average for the prop type; callers should skip the player, not retry.
func (s *Scorer) Score(snapshot *models.PlayerStatsSnapshot, quote *models.OddsQuote, predictionDate time.Time) (*models.Prediction, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	if quote == nil {
		return nil, fmt.Errorf("odds quote is required")
	}
	if !quote.PropType.IsValid() {
		return nil, fmt.Errorf("unsupported prop type %q", quote.PropType)
	}

	inputs, estimate, err := s.pointEstimate(snapshot, quote.PropType)
	if err != nil {
		return nil, err
	}

	delta := estimate - quote.Line
	probOver := clampProbability(s.model.Probability(delta, s.variance))

	prediction := &models.Prediction{
		ID:                uuid.New(),
		GameID:            quote.GameID,
		PlayerID:          quote.PlayerID,
		PropType:          quote.PropType,
		PredictionDate:    predictionDate.UTC().Truncate(24 * time.Hour),
		Line:              quote.Line,
		BestOverPrice:     quote.Best.OverPrice,
		OverVendor:        quote.Best.OverVendor,
		BestUnderPrice:    quote.Best.UnderPrice,
		UnderVendor:       quote.Best.UnderVendor,
		PredictedProbOver: probOver,
		Confidence:        sampleConfidence(snapshot.WidestWindowGames()),
		ModelVersion:      s.modelVersion,
	}

	if quote.Best.OverPrice != nil {
		implied, err := oddsmath.AmericanToImpliedProbability(*quote.Best.OverPrice)
		if err != nil {
			return nil, fmt.Errorf("over price: %w", err)
		}
		value := probOver - implied
		prediction.ImpliedProbOver = &implied
		prediction.ValueOver = &value
	}

	if quote.Best.UnderPrice != nil {
		implied, err := oddsmath.AmericanToImpliedProbability(*quote.Best.UnderPrice)
		if err != nil {
			return nil, fmt.Errorf("under price: %w", err)
		}
		value := prediction.PredictedProbUnder() - implied
		prediction.ImpliedProbUnder = &implied
		prediction.ValueUnder = &value
	}

	inputs.PointEstimate = estimate
	frozen, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze scoring inputs: %w", err)
	}
	prediction.Inputs = frozen

	return prediction, nil
}

// pointEstimate computes the weighted blend of the four averages for the prop
// type, renormalizing weights over only the averages that exist.
func (s *Scorer) pointEstimate(snapshot *models.PlayerStatsSnapshot, prop models.PropType) (*models.ScoringInputs, float64, error) {
	inputs := &models.ScoringInputs{
		Games7:       snapshot.Window7.GamesCounted,
		Games14:      snapshot.Window14.GamesCounted,
		Games30:      snapshot.Window30.GamesCounted,
		SeasonGames:  snapshot.SeasonGames,
		Weight7:      s.weights.Recent7,
		Weight14:     s.weights.Recent14,
		Weight30:     s.weights.Recent30,
		WeightSeason: s.weights.Season,
		Variance:     s.variance,
	}

	var weightedSum, totalWeight float64

	if avg, ok := snapshot.WindowAverage(models.Window7, prop); ok {
		inputs.Avg7 = &avg
		weightedSum += avg * s.weights.Recent7
		totalWeight += s.weights.Recent7
	}
	if avg, ok := snapshot.WindowAverage(models.Window14, prop); ok {
		inputs.Avg14 = &avg
		weightedSum += avg * s.weights.Recent14
		totalWeight += s.weights.Recent14
	}
	if avg, ok := snapshot.WindowAverage(models.Window30, prop); ok {
		inputs.Avg30 = &avg
		weightedSum += avg * s.weights.Recent30
		totalWeight += s.weights.Recent30
	}
	if avg, ok := snapshot.SeasonAverage(prop); ok {
		inputs.SeasonAvg = &avg
		weightedSum += avg * s.weights.Season
		totalWeight += s.weights.Season
	}

	if totalWeight == 0 {
		return nil, 0, models.ErrInsufficientData
	}

	return inputs, weightedSum / totalWeight, nil
}

// sampleConfidence maps a window sample size to [0, 1], saturating at 20
// games. Any replacement must stay monotonic in sample size.
func sampleConfidence(games int) float64 {
	if games >= confidenceSaturationGames {
		return 1.0
	}
	if games <= 0 {
		return 0.0
	}
	return float64(games) / float64(confidenceSaturationGames)
}
