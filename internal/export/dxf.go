package export

import (
	"fmt"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// DXF layout, in drawing units of millimetres.
const (
	dxfRowSpacing = 400.0
	dxfTickHeight = 80.0
	dxfTextHeight = 50.0
	dxfLabelX     = -1500.0
)

// DXF layer names.
const (
	LayerBars   = "BARS"
	LayerCuts   = "CUTS"
	LayerLabels = "LABELS"
)

// ExportDXF draws each stock bar as a horizontal line, one row per bar, with
// a tick at every cut boundary and the identifier above each piece.
func ExportDXF(path string, result model.OptimizeResult) error {
	if len(result.CuttingPlan) == 0 {
		return fmt.Errorf("no bars to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerBars, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerCuts, color.Red, table.LT_CONTINUOUS, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerLabels, color.Blue, table.LT_CONTINUOUS, false); err != nil {
		return err
	}

	for i, bar := range result.CuttingPlan {
		y := -float64(i) * dxfRowSpacing
		end := bar.NominalLength * 1000

		if err := d.ChangeLayer(LayerBars); err != nil {
			return err
		}
		if _, err := d.Line(0, y, 0, end, y, 0); err != nil {
			return fmt.Errorf("bar %s: %w", bar.Label(), err)
		}

		if err := d.ChangeLayer(LayerCuts); err != nil {
			return err
		}
		for _, c := range bar.Cuts {
			for _, x := range []float64{c.Start * 1000, c.End * 1000} {
				if _, err := d.Line(x, y-dxfTickHeight/2, 0, x, y+dxfTickHeight/2, 0); err != nil {
					return fmt.Errorf("bar %s: %w", bar.Label(), err)
				}
			}
		}

		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		label := fmt.Sprintf("%s %.2fm", bar.Label(), bar.NominalLength)
		if _, err := d.Text(label, dxfLabelX, y, 0, dxfTextHeight); err != nil {
			return err
		}
		for _, c := range bar.Cuts {
			text := fmt.Sprintf("%s %.3f", c.Identifier, c.Length)
			if _, err := d.Text(text, c.Start*1000+20, y+dxfTickHeight/2+10, 0, dxfTextHeight*0.6); err != nil {
				return err
			}
		}
	}

	return d.SaveAs(path)
}
