package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemnantOf(t *testing.T) {
	_, ok := RemnantOf(StockBar{ID: 1, Diameter: 12, NominalLength: 10, Remaining: 0}, 0.888)
	assert.False(t, ok, "fully used bar has no remnant")

	_, ok = RemnantOf(StockBar{ID: 1, Diameter: 12, NominalLength: 10, Remaining: 1e-12}, 0.888)
	assert.False(t, ok, "remaining within epsilon has no remnant")

	rem, ok := RemnantOf(StockBar{ID: 2, Diameter: 12, NominalLength: 10, Remaining: 2}, 0.888)
	require.True(t, ok)
	assert.Equal(t, 2, rem.StockID)
	assert.InDelta(t, 1.776, rem.Weight, 1e-9)
}

func TestRemnantIsReusableBoundary(t *testing.T) {
	assert.True(t, Remnant{Length: 1.0}.IsReusable())
	assert.False(t, Remnant{Length: 0.999}.IsReusable())
}

func TestClassifyRemnants(t *testing.T) {
	bars := []StockBar{
		{ID: 1, Diameter: 12, NominalLength: 12, Remaining: 0},
		{ID: 2, Diameter: 12, NominalLength: 12, Remaining: 0.4},
		{ID: 3, Diameter: 12, NominalLength: 12, Remaining: 3.5},
		{ID: 1, Diameter: 16, NominalLength: 12, Remaining: 1.0},
	}

	summary := ClassifyRemnants(bars, DefaultSettings())

	require.Len(t, summary.Reusable, 2)
	require.Len(t, summary.Scrap, 1)
	assert.Equal(t, 3, summary.Reusable[0].StockID)
	assert.Equal(t, 16, summary.Reusable[1].Diameter)
	assert.InDelta(t, 4.5, TotalLength(summary.Reusable), 1e-9)
	assert.InDelta(t, 3.5*0.888+1.578, TotalWeight(summary.Reusable), 1e-9)
	assert.InDelta(t, 0.4, TotalLength(summary.Scrap), 1e-9)
}

func TestClassifyRemnantsEmpty(t *testing.T) {
	summary := ClassifyRemnants(nil, DefaultSettings())
	assert.NotNil(t, summary.Reusable)
	assert.NotNil(t, summary.Scrap)
}
