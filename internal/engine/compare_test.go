package engine

import (
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Current Settings", "Stock 10m", "Splicing On", "Tolerance 2mm (half)"}, names)
	assert.Equal(t, 10.0, scenarios[1].Settings.StockLength)
	assert.True(t, scenarios[2].Settings.EnableSplicing)
	assert.Equal(t, 2, scenarios[3].Settings.ToleranceMM)
}

func TestBuildDefaultScenarios_NoHalfToleranceForThinBlade(t *testing.T) {
	s := model.DefaultSettings()
	s.ToleranceMM = 1
	s.EnableSplicing = true

	scenarios := BuildDefaultScenarios(s)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Splicing Off", scenarios[2].Name)
}

func TestCompareScenarios(t *testing.T) {
	reqs := []model.Requirement{
		model.NewRequirement("A", 12, 3.5, 10),
		model.NewRequirement("B", 16, 13.0, 2),
	}

	results := CompareScenarios(BuildDefaultScenarios(model.DefaultSettings()), reqs, quietLogger())

	require.Len(t, results, 4)
	for _, r := range results {
		require.NoError(t, r.Err, r.Scenario.Name)
		require.NotNil(t, r.Plan)
		assert.Equal(t, r.Plan.Result.TotalStockUsed, r.BarsUsed)
	}
	assert.Equal(t, 2, results[0].SpecialOrders, "13 m bars are special orders without splicing")
	assert.Equal(t, 0, results[2].SpecialOrders, "splicing removes special orders")
}

func TestCompareScenarios_FailedScenario(t *testing.T) {
	bad := defaultTestSettings()
	bad.StockLength = 1
	bad.EnableSplicing = true

	results := CompareScenarios([]ComparisonScenario{
		{Name: "ok", Settings: defaultTestSettings()},
		{Name: "degenerate", Settings: bad},
	}, []model.Requirement{model.NewRequirement("X", 32, 2.0, 1)}, quietLogger())

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Plan)
	assert.NotEmpty(t, results[1].Error)
}
