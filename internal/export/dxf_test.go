package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

func TestExportDXF_Entities(t *testing.T) {
	result := model.OptimizeResult{CuttingPlan: []model.StockBar{
		{ID: 1, Diameter: 12, NominalLength: 10, Cuts: []model.Cut{
			{Identifier: "B1", Length: 3.5, Start: 0, End: 3.5},
			{Identifier: "B1", Length: 3.5, Start: 3.5, End: 7},
		}},
		{ID: 2, Diameter: 12, NominalLength: 10, Cuts: []model.Cut{
			{Identifier: "B2", Length: 6, Start: 0, End: 6},
		}},
	}}
	path := filepath.Join(t.TempDir(), "plan.dxf")

	require.NoError(t, ExportDXF(path, result))

	drawing, err := dxf.Open(path)
	require.NoError(t, err)

	var lines, texts int
	for _, ent := range drawing.Entities() {
		switch ent.(type) {
		case *entity.Line:
			lines++
		case *entity.Text:
			texts++
		}
	}
	// 2 bar lines + 2 ticks per cut (3 cuts)
	assert.Equal(t, 2+6, lines)
	// 2 bar labels + 3 cut labels
	assert.Equal(t, 2+3, texts)
}

func TestExportDXF_EmptyResult(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "empty.dxf"), model.NewOptimizeResult())
	assert.Error(t, err)
}
