package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModelPerformanceMetric aggregates reconciled predictions for one
// (model version, prop type, evaluation period). Rows are replaced wholesale
// on every recomputation, never partially updated.
type ModelPerformanceMetric struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ModelVersion string    `db:"model_version" json:"model_version" validate:"required"`
	PropType     PropType  `db:"prop_type" json:"prop_type" validate:"required"`
	PeriodStart  time.Time `db:"period_start" json:"period_start" validate:"required"`
	PeriodEnd    time.Time `db:"period_end" json:"period_end" validate:"required"`

	TotalPredictions    int `db:"total_predictions" json:"total_predictions" validate:"gte=0"`
	ResolvedPredictions int `db:"resolved_predictions" json:"resolved_predictions" validate:"gte=0"`
	CorrectPredictions  int `db:"correct_predictions" json:"correct_predictions" validate:"gte=0"`
	ValueBets           int `db:"value_bets" json:"value_bets" validate:"gte=0"`
	ValueBetsCorrect    int `db:"value_bets_correct" json:"value_bets_correct" validate:"gte=0"`
	Pushes              int `db:"pushes" json:"pushes" validate:"gte=0"`

	// Ratios are nil when their denominator is zero ("no data" is a valid
	// result, not a zero-accuracy model).
	Accuracy         *float64 `db:"accuracy" json:"accuracy"`
	ValueBetAccuracy *float64 `db:"value_bet_accuracy" json:"value_bet_accuracy"`

	// Calibration: mean stated probability versus observed frequency.
	AvgPredictedProbOver *float64 `db:"avg_predicted_prob_over" json:"avg_predicted_prob_over"`
	ActualOverRate       *float64 `db:"actual_over_rate" json:"actual_over_rate"`

	// Flat-stake wagering simulation over identified value bets.
	UnitsWagered  decimal.Decimal `db:"units_wagered" json:"units_wagered"`
	UnitsReturned decimal.Decimal `db:"units_returned" json:"units_returned"`

	ComputedAt time.Time `db:"computed_at" json:"computed_at"`
}

// ROI returns net units won per unit wagered. The boolean is false when no
// value bets settled in the period.
func (m *ModelPerformanceMetric) ROI() (decimal.Decimal, bool) {
	if m.UnitsWagered.IsZero() {
		return decimal.Zero, false
	}
	return m.UnitsReturned.Sub(m.UnitsWagered).Div(m.UnitsWagered), true
}

// CalibrationGap returns the divergence between stated probability and
// observed hit rate. Large gaps signal miscalibration.
func (m *ModelPerformanceMetric) CalibrationGap() (float64, bool) {
	if m.AvgPredictedProbOver == nil || m.ActualOverRate == nil {
		return 0, false
	}
	return *m.AvgPredictedProbOver - *m.ActualOverRate, true
}
