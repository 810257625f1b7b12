package engine

import (
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WithSplicing(t *testing.T) {
	s := defaultTestSettings()
	s.EnableSplicing = true
	s.ToleranceMM = 5

	plan, err := Run([]model.Requirement{model.NewRequirement("C", 16, 13.0, 1)}, s, quietLogger())

	require.NoError(t, err)
	require.NotNil(t, plan.SpliceStats)
	assert.Equal(t, 1, plan.SpliceStats.AdditionalPieces)
	assert.Len(t, plan.Requirements, 2)
	assert.Equal(t, 2, plan.Result.TotalStockUsed)
	for _, bar := range plan.Result.CuttingPlan {
		assert.False(t, bar.SpecialOrder)
	}

	require.Len(t, plan.Estimates, 1)
	assert.InDelta(t, 13.64, plan.Estimates[0].RequiredLength, 1e-9)
	assert.Equal(t, 2, plan.MinimumBars())
}

func TestRun_WithoutSplicingKeepsOversized(t *testing.T) {
	plan, err := Run([]model.Requirement{model.NewRequirement("D", 20, 15.0, 1)}, defaultTestSettings(), quietLogger())

	require.NoError(t, err)
	assert.Nil(t, plan.SpliceStats)
	require.Len(t, plan.Result.CuttingPlan, 1)
	assert.True(t, plan.Result.CuttingPlan[0].SpecialOrder)
	assert.Equal(t, 1, plan.Estimates[0].OversizedPieces)
}

func TestRun_InvalidRequirement(t *testing.T) {
	reqs := []model.Requirement{
		model.NewRequirement("A", 12, 3, 1),
		model.NewRequirement("B", 12, -1, 1),
	}

	plan, err := Run(reqs, defaultTestSettings(), quietLogger())

	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidRequirement))
	assert.Empty(t, plan.Result.CuttingPlan)
	assert.Contains(t, err.Error(), "row 2")
}

func TestRun_DegenerateSplicingReturnsNothing(t *testing.T) {
	s := defaultTestSettings()
	s.StockLength = 1
	s.EnableSplicing = true

	plan, err := Run([]model.Requirement{model.NewRequirement("X", 32, 2.0, 1)}, s, nil)

	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindDegenerateSplicing))
	assert.Nil(t, plan.Requirements)
}

func TestRun_EmptySchedule(t *testing.T) {
	plan, err := Run(nil, model.DefaultSettings(), quietLogger())

	require.NoError(t, err)
	assert.NotNil(t, plan.Requirements)
	assert.Equal(t, 0, plan.Result.TotalStockUsed)
	assert.Equal(t, 0, plan.MinimumBars())
}
