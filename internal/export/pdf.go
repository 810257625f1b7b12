// Package export renders cutting plans to PDF, Excel, CSV and DXF.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
)

// cutColor represents an RGB color for a cut segment.
type cutColor struct {
	R, G, B int
}

var cutColors = []cutColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 18.0
	contentWidth = pageWidth - marginLeft - marginRight
	barHeight    = 6.0
	rowHeight    = 6.0
)

// ExportPDF writes the cutting report for a plan to path.
func ExportPDF(path string, plan engine.Plan, title string) error {
	pdf, err := buildReport(plan, title)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF streams the cutting report to w.
func WritePDF(w io.Writer, plan engine.Plan, title string) error {
	pdf, err := buildReport(plan, title)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildReport(plan engine.Plan, title string) (*fpdf.Fpdf, error) {
	if len(plan.Result.CuttingPlan) == 0 {
		return nil, fmt.Errorf("no bars to export")
	}
	if title == "" {
		title = "Untitled"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(marginLeft, pageHeight-marginBottom+6)
		footer := fmt.Sprintf("BarCut  |  run %s  |  page %d/{nb}", plan.Result.RunID, pdf.PageNo())
		pdf.CellFormat(contentWidth, 4, footer, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	y := renderHeader(pdf, plan, title)
	y = renderProcurement(pdf, plan, y)
	y = renderCuttingPlan(pdf, plan.Result, y)
	renderRemnants(pdf, plan.Result.Remnants, y)

	return pdf, pdf.Error()
}

// ensureSpace starts a new page when fewer than need mm remain.
func ensureSpace(pdf *fpdf.Fpdf, y, need float64) float64 {
	if y+need > pageHeight-marginBottom {
		pdf.AddPage()
		return marginTop
	}
	return y
}

func sectionTitle(pdf *fpdf.Fpdf, y float64, text string) float64 {
	y = ensureSpace(pdf, y, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, text, "", 0, "L", false, 0, "")
	return y + 9
}

func renderHeader(pdf *fpdf.Fpdf, plan engine.Plan, title string) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentWidth, 10, "Bar Cutting Report: "+title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	s := plan.Settings
	splicing := "off"
	if s.EnableSplicing {
		splicing = fmt.Sprintf("on, lap %dd", s.LapFactor)
	}
	items := []struct {
		label string
		value string
	}{
		{"Stock length", fmt.Sprintf("%.2f m", s.StockLength)},
		{"Cutting tolerance", fmt.Sprintf("%d mm", s.ToleranceMM)},
		{"Splicing", splicing},
		{"Generated", time.Now().Format("2006-01-02 15:04")},
	}

	y := marginTop + 16
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 5.5
	}

	if st := plan.SpliceStats; st != nil && st.TotalSpliced > 0 {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(contentWidth, 5, fmt.Sprintf("%d overlength pieces spliced into %d additional segments",
			st.TotalSpliced, st.AdditionalPieces), "", 0, "L", false, 0, "")
		y += 5.5
	}
	return y + 4
}

func tableRow(pdf *fpdf.Fpdf, y float64, widths []float64, cells []string, header bool, shade bool) {
	if header {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
	} else {
		pdf.SetFont("Helvetica", "", 8)
		if shade {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
	}
	x := marginLeft
	for i, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
}

func renderProcurement(pdf *fpdf.Fpdf, plan engine.Plan, y float64) float64 {
	result := plan.Result
	y = sectionTitle(pdf, y, "Procurement Summary")

	widths := []float64{18, 30, 16, 18, 28, 24, 20, 26}
	tableRow(pdf, y, widths, []string{"Diameter", "Stock length", "Bars", "Special", "Total length", "Waste", "Waste %", "Weight"}, true, false)
	y += rowHeight

	for i, line := range result.ProcurementSummary {
		y = ensureSpace(pdf, y, rowHeight)
		stock := fmt.Sprintf("%.2f m", line.StockLength)
		if line.MixedLengths {
			stock += " + special"
		}
		tableRow(pdf, y, widths, []string{
			model.DiameterLabel(line.Diameter),
			stock,
			fmt.Sprintf("%d", line.BarCount),
			fmt.Sprintf("%d", line.SpecialOrderCount),
			fmt.Sprintf("%.2f m", line.TotalStockLength),
			fmt.Sprintf("%.3f m", line.TotalWaste),
			fmt.Sprintf("%.1f%%", line.WastePercent),
			fmt.Sprintf("%.2f kg", line.TotalWeight),
		}, false, i%2 == 0)
		y += rowHeight
	}

	y = ensureSpace(pdf, y, rowHeight)
	tableRow(pdf, y, widths, []string{
		"Total", "",
		fmt.Sprintf("%d", result.TotalStockUsed), "",
		fmt.Sprintf("%.2f m", result.TotalStockLength),
		fmt.Sprintf("%.3f m", result.TotalWaste),
		fmt.Sprintf("%.1f%%", result.WastePercent()),
		fmt.Sprintf("%.2f kg", result.TotalWeight),
	}, true, false)
	y += rowHeight + 3

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 5, fmt.Sprintf("Theoretical minimum: %d bars (kerf ignored). Pieces cut: %d.",
		plan.MinimumBars(), result.TotalCuts()), "", 0, "L", false, 0, "")
	y += 6

	if len(result.Warnings) > 0 {
		pdf.SetTextColor(200, 0, 0)
		for _, w := range result.Warnings {
			y = ensureSpace(pdf, y, 5)
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(contentWidth, 5, "Warning: "+w.Message, "", 0, "L", false, 0, "")
			y += 5
		}
		pdf.SetTextColor(0, 0, 0)
	}
	return y + 4
}

func renderCuttingPlan(pdf *fpdf.Fpdf, result model.OptimizeResult, y float64) float64 {
	y = sectionTitle(pdf, y, "Cutting Plan")

	// One scale for every bar so lengths compare visually.
	longest := 0.0
	for _, b := range result.CuttingPlan {
		if b.NominalLength > longest {
			longest = b.NominalLength
		}
	}
	labelW := 24.0
	drawW := contentWidth - labelW
	scale := drawW / longest

	currentDia := 0
	for _, bar := range result.CuttingPlan {
		if bar.Diameter != currentDia {
			currentDia = bar.Diameter
			y = ensureSpace(pdf, y, 22)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(contentWidth, 6, model.DiameterLabel(currentDia), "", 0, "L", false, 0, "")
			y += 7
		}

		y = ensureSpace(pdf, y, barHeight+9)
		drawBar(pdf, bar, marginLeft+labelW, y, scale, labelW)
		y += barHeight + 1

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(60, 60, 60)
		pdf.SetXY(marginLeft+labelW, y)
		pdf.CellFormat(drawW, 4, cutSummary(bar), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 6
	}
	return y + 2
}

// drawBar renders one stock bar as a strip of coloured cuts with the
// remaining length in grey.
func drawBar(pdf *fpdf.Fpdf, bar model.StockBar, x, y, scale, labelW float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, y)
	label := bar.Label()
	if bar.SpecialOrder {
		label += " *"
	}
	pdf.CellFormat(labelW-2, barHeight, label, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.2)
	pdf.SetFillColor(220, 220, 220)
	pdf.Rect(x, y, bar.NominalLength*scale, barHeight, "FD")

	for i, c := range bar.Cuts {
		col := cutColors[i%len(cutColors)]
		cx := x + c.Start*scale
		cw := c.Length * scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.Rect(cx, y, cw, barHeight, "FD")

		text := fmt.Sprintf("%.2f", c.Length)
		pdf.SetFont("Helvetica", "", 6)
		if tw := pdf.GetStringWidth(text); tw < cw-1 {
			pdf.SetXY(cx+(cw-tw)/2, y+1)
			pdf.CellFormat(tw, barHeight-2, text, "", 0, "C", false, 0, "")
		}
	}
}

func cutSummary(bar model.StockBar) string {
	s := ""
	for i, c := range bar.Cuts {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s %.3f", c.Identifier, c.Length)
	}
	return fmt.Sprintf("%s  |  remaining %.3f m  |  %.1f%%", s, bar.Remaining, bar.Utilization)
}

func renderRemnants(pdf *fpdf.Fpdf, remnants model.RemnantSummary, y float64) {
	groups := []struct {
		title string
		items []model.Remnant
	}{
		{fmt.Sprintf("Reusable Remnants (>= %.1f m)", model.MinReusableLength), remnants.Reusable},
		{fmt.Sprintf("Scrap (< %.1f m)", model.MinReusableLength), remnants.Scrap},
	}

	widths := []float64{40, 40, 50, 50}
	for _, g := range groups {
		y = sectionTitle(pdf, y, g.title)
		if len(g.items) == 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetXY(marginLeft, y)
			pdf.CellFormat(contentWidth, 5, "None", "", 0, "L", false, 0, "")
			y += 8
			continue
		}

		tableRow(pdf, y, widths, []string{"Diameter", "Bar", "Length", "Weight"}, true, false)
		y += rowHeight
		for i, r := range g.items {
			y = ensureSpace(pdf, y, rowHeight)
			tableRow(pdf, y, widths, []string{
				model.DiameterLabel(r.Diameter),
				fmt.Sprintf("%d", r.StockID),
				fmt.Sprintf("%.3f m", r.Length),
				fmt.Sprintf("%.2f kg", r.Weight),
			}, false, i%2 == 0)
			y += rowHeight
		}
		y = ensureSpace(pdf, y, rowHeight)
		tableRow(pdf, y, widths, []string{
			"Total", fmt.Sprintf("%d", len(g.items)),
			fmt.Sprintf("%.3f m", model.TotalLength(g.items)),
			fmt.Sprintf("%.2f kg", model.TotalWeight(g.items)),
		}, true, false)
		y += rowHeight + 4
	}
}
