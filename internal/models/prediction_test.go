package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestPredictedProbUnder(t *testing.T) {
	p := &Prediction{PredictedProbOver: 0.63}
	assert.InDelta(t, 0.37, p.PredictedProbUnder(), 1e-12)
}

func TestValueSide(t *testing.T) {
	t.Run("LargerEdgeWins", func(t *testing.T) {
		p := &Prediction{ValueOver: floatPtr(0.02), ValueUnder: floatPtr(0.07)}
		side, edge, ok := p.ValueSide()
		require.True(t, ok)
		assert.Equal(t, SideUnder, side)
		assert.InDelta(t, 0.07, edge, 1e-12)
	})

	t.Run("TieGoesToOver", func(t *testing.T) {
		p := &Prediction{ValueOver: floatPtr(0.05), ValueUnder: floatPtr(0.05)}
		side, _, ok := p.ValueSide()
		require.True(t, ok)
		assert.Equal(t, SideOver, side)
	})

	t.Run("SingleSidedMarket", func(t *testing.T) {
		p := &Prediction{ValueUnder: floatPtr(-0.01)}
		side, edge, ok := p.ValueSide()
		require.True(t, ok)
		assert.Equal(t, SideUnder, side)
		assert.InDelta(t, -0.01, edge, 1e-12)
	})

	t.Run("NoPricedSides", func(t *testing.T) {
		p := &Prediction{}
		_, _, ok := p.ValueSide()
		assert.False(t, ok)
	})
}

func TestIsValueBet(t *testing.T) {
	p := &Prediction{ValueOver: floatPtr(0.05)}
	assert.True(t, p.IsValueBet(0.05), "edge equal to threshold qualifies")
	assert.False(t, p.IsValueBet(0.06))

	unpriced := &Prediction{}
	assert.False(t, unpriced.IsValueBet(0.0))
}

func TestIsReconciled(t *testing.T) {
	p := &Prediction{}
	assert.False(t, p.IsReconciled())

	result := OutcomeOver
	p.ActualResult = &result
	assert.True(t, p.IsReconciled())
}

func TestUnmarshalInputs(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		p := &Prediction{Inputs: []byte(`{"avg_7": 24.1, "games_7": 7, "point_estimate": 23.45}`)}
		inputs, err := p.UnmarshalInputs()
		require.NoError(t, err)
		require.NotNil(t, inputs.Avg7)
		assert.InDelta(t, 24.1, *inputs.Avg7, 1e-9)
		assert.Equal(t, 7, inputs.Games7)
		assert.InDelta(t, 23.45, inputs.PointEstimate, 1e-9)
	})

	t.Run("NilInputs", func(t *testing.T) {
		p := &Prediction{}
		inputs, err := p.UnmarshalInputs()
		require.NoError(t, err)
		assert.Nil(t, inputs)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		p := &Prediction{Inputs: []byte(`{`)}
		_, err := p.UnmarshalInputs()
		assert.Error(t, err)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewPersistenceError("prediction upsert", errors.New("connection reset"))))
	assert.True(t, IsRetryable(fmt.Errorf("scan: %w", NewPersistenceError("snapshot upsert", errors.New("timeout")))))
	assert.False(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(ErrInsufficientData))
}
