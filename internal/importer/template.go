package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the sheet name of the sample schedule.
const TemplateSheet = "Bar Cutting List"

var templateHeader = []string{"Bar Mark", "Diameter (mm)", "Cut Length (m)", "Quantity"}

var templateRows = [][]interface{}{
	{"A1", 12, 3.5, 10},
	{"A2", 16, 4.2, 15},
	{"B1", 12, 6.0, 8},
	{"B2", 20, 5.5, 12},
	{"C1", 16, 3.0, 20},
	{"C2", 25, 4.8, 6},
	{"D1", 12, 7.2, 5},
}

func newTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(TemplateSheet, "A1", &templateHeader); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.SetCellStyle(TemplateSheet, "A1", "D1", bold)
	_ = f.SetColWidth(TemplateSheet, "A", "D", 16)

	for i, row := range templateRows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(TemplateSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteTemplate saves a sample schedule workbook to path.
func WriteTemplate(path string) error {
	f, err := newTemplate()
	if err != nil {
		return fmt.Errorf("build template: %w", err)
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteTemplateTo streams the sample schedule workbook to w.
func WriteTemplateTo(w io.Writer) error {
	f, err := newTemplate()
	if err != nil {
		return fmt.Errorf("build template: %w", err)
	}
	defer f.Close()
	return f.Write(w)
}
