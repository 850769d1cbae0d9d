package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies a settled prop against its line
type Outcome string

// Possible outcome classifications
const (
	OutcomeOver  Outcome = "over"
	OutcomeUnder Outcome = "under"
	OutcomePush  Outcome = "push"
)

// Side identifies one side of an over/under market
type Side string

// Market sides
const (
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// ScoringInputs is the frozen copy of every aggregator output that fed the
// scorer, stored on the prediction so it can be reproduced after the live
// snapshot has moved on.
type ScoringInputs struct {
	Avg7          *float64 `json:"avg_7,omitempty"`
	Games7        int      `json:"games_7"`
	Avg14         *float64 `json:"avg_14,omitempty"`
	Games14       int      `json:"games_14"`
	Avg30         *float64 `json:"avg_30,omitempty"`
	Games30       int      `json:"games_30"`
	SeasonAvg     *float64 `json:"season_avg,omitempty"`
	SeasonGames   int      `json:"season_games"`
	Weight7       float64  `json:"weight_7"`
	Weight14      float64  `json:"weight_14"`
	Weight30      float64  `json:"weight_30"`
	WeightSeason  float64  `json:"weight_season"`
	Variance      float64  `json:"variance"`
	PointEstimate float64  `json:"point_estimate"`
}

// Prediction is the central persisted entity: one row per
// (game, player, prop type, prediction date). Scoring fields are owned by the
// scan pipeline and overwritten on re-score; outcome fields are owned by the
// reconciler and survive any re-score.
type Prediction struct {
	ID             uuid.UUID `db:"id" json:"id"`
	GameID         string    `db:"game_id" json:"game_id" validate:"required"`
	PlayerID       string    `db:"player_id" json:"player_id" validate:"required"`
	PropType       PropType  `db:"prop_type" json:"prop_type" validate:"required"`
	PredictionDate time.Time `db:"prediction_date" json:"prediction_date" validate:"required"`

	Line             float64  `db:"line" json:"line"`
	BestOverPrice    *int     `db:"best_over_price" json:"best_over_price"`
	OverVendor       *string  `db:"over_vendor" json:"over_vendor"`
	BestUnderPrice   *int     `db:"best_under_price" json:"best_under_price"`
	UnderVendor      *string  `db:"under_vendor" json:"under_vendor"`
	ImpliedProbOver  *float64 `db:"implied_prob_over" json:"implied_prob_over"`
	ImpliedProbUnder *float64 `db:"implied_prob_under" json:"implied_prob_under"`

	// Only the over probability is stored; the under side is derived so the
	// two always sum to exactly 1.0.
	PredictedProbOver float64 `db:"predicted_prob_over" json:"predicted_prob_over" validate:"gte=0.05,lte=0.95"`

	ValueOver    *float64        `db:"value_over" json:"value_over"`
	ValueUnder   *float64        `db:"value_under" json:"value_under"`
	Confidence   float64         `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	ModelVersion string          `db:"model_version" json:"model_version" validate:"required"`
	Inputs       json.RawMessage `db:"inputs" json:"inputs"`

	ActualValue  *float64   `db:"actual_value" json:"actual_value"`
	ActualResult *Outcome   `db:"actual_result" json:"actual_result"`
	ReconciledAt *time.Time `db:"reconciled_at" json:"reconciled_at"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PredictedProbUnder derives the under probability from the stored over side
func (p *Prediction) PredictedProbUnder() float64 {
	return 1.0 - p.PredictedProbOver
}

// IsReconciled reports whether the game outcome has been written back
func (p *Prediction) IsReconciled() bool {
	return p.ActualResult != nil
}

// BestSideValue returns the larger of the two side values. The boolean is
// false when neither side has a priced market.
func (p *Prediction) BestSideValue() (float64, bool) {
	switch {
	case p.ValueOver != nil && p.ValueUnder != nil:
		if *p.ValueOver >= *p.ValueUnder {
			return *p.ValueOver, true
		}
		return *p.ValueUnder, true
	case p.ValueOver != nil:
		return *p.ValueOver, true
	case p.ValueUnder != nil:
		return *p.ValueUnder, true
	}
	return 0, false
}

// ValueSide returns the side with the larger edge and that edge. Ties go to
// the over side for determinism.
func (p *Prediction) ValueSide() (Side, float64, bool) {
	switch {
	case p.ValueOver != nil && p.ValueUnder != nil:
		if *p.ValueOver >= *p.ValueUnder {
			return SideOver, *p.ValueOver, true
		}
		return SideUnder, *p.ValueUnder, true
	case p.ValueOver != nil:
		return SideOver, *p.ValueOver, true
	case p.ValueUnder != nil:
		return SideUnder, *p.ValueUnder, true
	}
	return "", 0, false
}

// IsValueBet reports whether either side's edge meets the threshold
func (p *Prediction) IsValueBet(threshold float64) bool {
	v, ok := p.BestSideValue()
	return ok && v >= threshold
}

// UnmarshalInputs decodes the frozen scoring inputs
func (p *Prediction) UnmarshalInputs() (*ScoringInputs, error) {
	if p.Inputs == nil {
		return nil, nil
	}
	var inputs ScoringInputs
	if err := json.Unmarshal(p.Inputs, &inputs); err != nil {
		return nil, err
	}
	return &inputs, nil
}
