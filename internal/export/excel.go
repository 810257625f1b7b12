package export

import (
	"fmt"
	"io"

	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetProcurement  = "Procurement"
	SheetCuttingPlan  = "Cutting Plan"
	SheetRemnants     = "Remnants"
	SheetRequirements = "Requirements"
)

// ExportXLSX writes the plan as a workbook to path.
func ExportXLSX(path string, plan engine.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteXLSX streams the workbook to w.
func WriteXLSX(w io.Writer, plan engine.Plan) error {
	f, err := buildWorkbook(plan)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

type sheetWriter struct {
	f     *excelize.File
	name  string
	row   int
	bold  int
	err   error
	width int
}

func (s *sheetWriter) header(cells ...interface{}) {
	s.write(cells)
	if s.err == nil {
		last, _ := excelize.CoordinatesToCellName(len(cells), s.row-1)
		s.err = s.f.SetCellStyle(s.name, fmt.Sprintf("A%d", s.row-1), last, s.bold)
	}
	if len(cells) > s.width {
		s.width = len(cells)
	}
}

func (s *sheetWriter) write(cells []interface{}) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetSheetRow(s.name, fmt.Sprintf("A%d", s.row), &cells)
	s.row++
}

func (s *sheetWriter) finish() error {
	if s.err == nil && s.width > 0 {
		last, _ := excelize.ColumnNumberToName(s.width)
		s.err = s.f.SetColWidth(s.name, "A", last, 15)
	}
	return s.err
}

func buildWorkbook(plan engine.Plan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetProcurement); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetCuttingPlan, SheetRemnants, SheetRequirements} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	result := plan.Result
	writers := []func(*sheetWriter){
		func(s *sheetWriter) {
			s.header("Diameter", "Stock Length (m)", "Mixed Lengths", "Special Orders", "Bars", "Total Length (m)", "Waste (m)", "Waste %", "Weight (kg)")
			for _, l := range result.ProcurementSummary {
				s.write([]interface{}{model.DiameterLabel(l.Diameter), l.StockLength, l.MixedLengths, l.SpecialOrderCount,
					l.BarCount, l.TotalStockLength, l.TotalWaste, l.WastePercent, l.TotalWeight})
			}
			s.header("Total", "", "", "", result.TotalStockUsed, result.TotalStockLength, result.TotalWaste, result.WastePercent(), result.TotalWeight)
		},
		func(s *sheetWriter) {
			s.header("Diameter", "Bar", "Nominal (m)", "Special Order", "Cut #", "Identifier", "Length (m)", "Start (m)", "End (m)", "Remaining (m)", "Utilization %")
			for _, b := range result.CuttingPlan {
				for i, c := range b.Cuts {
					s.write([]interface{}{model.DiameterLabel(b.Diameter), b.ID, b.NominalLength, b.SpecialOrder, i + 1,
						c.Identifier, c.Length, c.Start, c.End, b.Remaining, b.Utilization})
				}
			}
		},
		func(s *sheetWriter) {
			s.header("Kind", "Diameter", "Bar", "Length (m)", "Weight (kg)")
			for _, r := range result.Remnants.Reusable {
				s.write([]interface{}{"reusable", model.DiameterLabel(r.Diameter), r.StockID, r.Length, r.Weight})
			}
			for _, r := range result.Remnants.Scrap {
				s.write([]interface{}{"scrap", model.DiameterLabel(r.Diameter), r.StockID, r.Length, r.Weight})
			}
		},
		func(s *sheetWriter) {
			s.header("Bar Mark", "Diameter (mm)", "Cut Length (m)", "Quantity", "Note")
			for _, r := range plan.Requirements {
				s.write([]interface{}{r.Identifier, r.Diameter, r.Length, r.Quantity, r.Note})
			}
		},
	}

	names := []string{SheetProcurement, SheetCuttingPlan, SheetRemnants, SheetRequirements}
	for i, fill := range writers {
		s := &sheetWriter{f: f, name: names[i], row: 1, bold: bold}
		fill(s)
		if err := s.finish(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", names[i], err)
		}
	}
	return f, nil
}
