package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BarCut/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// TagInfo holds the data encoded into each bar tag's QR code.
type TagInfo struct {
	Diameter     int      `json:"diameter"`
	Bar          string   `json:"bar"`
	Length       float64  `json:"length"`
	Cuts         []string `json:"cuts"`
	SpecialOrder bool     `json:"special_order,omitempty"`
}

// Tag layout constants: a 3 x 8 grid of 70 x 37 mm labels on A4.
const (
	tagMarginTop  = 0.5
	tagMarginLeft = 0.0
	tagWidth      = 70.0
	tagHeight     = 37.0
	tagCols       = 3
	tagRows       = 8
	tagsPerPage   = tagCols * tagRows
	qrSize        = 26.0
	tagPadding    = 3.0
)

// CollectTagInfos returns one tag per stock bar in cutting-plan order.
func CollectTagInfos(result model.OptimizeResult) []TagInfo {
	tags := make([]TagInfo, 0, len(result.CuttingPlan))
	for _, bar := range result.CuttingPlan {
		cuts := make([]string, 0, len(bar.Cuts))
		for _, c := range bar.Cuts {
			cuts = append(cuts, fmt.Sprintf("%s@%.3f", c.Identifier, c.Length))
		}
		tags = append(tags, TagInfo{
			Diameter:     bar.Diameter,
			Bar:          bar.Label(),
			Length:       bar.NominalLength,
			Cuts:         cuts,
			SpecialOrder: bar.SpecialOrder,
		})
	}
	return tags
}

// ExportLabels writes a PDF of QR-coded tags, one per stock bar, to path.
func ExportLabels(path string, result model.OptimizeResult) error {
	pdf, err := buildLabels(result)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteLabels streams the tag sheet to w.
func WriteLabels(w io.Writer, result model.OptimizeResult) error {
	pdf, err := buildLabels(result)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildLabels(result model.OptimizeResult) (*fpdf.Fpdf, error) {
	tags := CollectTagInfos(result)
	if len(tags) == 0 {
		return nil, fmt.Errorf("no bars to generate tags for")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, tag := range tags {
		if i%tagsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % tagsPerPage
		x := tagMarginLeft + float64(pos%tagCols)*tagWidth
		y := tagMarginTop + float64(pos/tagCols)*tagHeight

		if err := renderTag(pdf, x, y, i, tag); err != nil {
			return nil, fmt.Errorf("failed to render tag for %q: %w", tag.Bar, err)
		}
	}
	return pdf, pdf.Error()
}

func renderTag(pdf *fpdf.Fpdf, x, y float64, idx int, info TagInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, tagWidth, tagHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal tag info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", idx)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+tagWidth-qrSize-tagPadding, y+(tagHeight-qrSize)/2, qrSize, qrSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + tagPadding
	textW := tagWidth - qrSize - 3*tagPadding

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+tagPadding)
	pdf.CellFormat(textW, 6, info.Bar, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+tagPadding+7)
	length := fmt.Sprintf("%.2f m", info.Length)
	if info.SpecialOrder {
		length += " special"
	}
	pdf.CellFormat(textW, 4, length, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(80, 80, 80)
	lineY := y + tagPadding + 12
	for i, c := range info.Cuts {
		if lineY > y+tagHeight-tagPadding-3 {
			pdf.SetXY(textX, lineY)
			pdf.CellFormat(textW, 3, fmt.Sprintf("+%d more", len(info.Cuts)-i), "", 0, "L", false, 0, "")
			break
		}
		pdf.SetXY(textX, lineY)
		pdf.CellFormat(textW, 3, c, "", 0, "L", false, 0, "")
		lineY += 3
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
