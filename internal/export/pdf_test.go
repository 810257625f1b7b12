package export

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
)

// buildTestPlan runs the pipeline over a realistic schedule, including one
// overlength bar and one unknown diameter.
func buildTestPlan(t *testing.T) engine.Plan {
	t.Helper()
	reqs := []model.Requirement{
		model.NewRequirement("A1", 12, 3.5, 10),
		model.NewRequirement("A2", 16, 4.2, 15),
		model.NewRequirement("B1", 12, 6.0, 8),
		model.NewRequirement("B2", 20, 5.5, 12),
		model.NewRequirement("C1", 16, 3.0, 20),
		model.NewRequirement("C2", 25, 14.0, 2),
		model.NewRequirement("X1", 14, 2.0, 3),
	}
	plan, err := engine.Run(reqs, model.DefaultSettings(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("engine.Run: %v", err)
	}
	return plan
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := ExportPDF(path, buildTestPlan(t), "Tower A"); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 1000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestWritePDF_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, buildTestPlan(t), ""); err != nil {
		t.Fatalf("WritePDF returned error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	plan := engine.Plan{Settings: model.DefaultSettings(), Result: model.NewOptimizeResult()}

	if err := ExportPDF(path, plan, "Empty"); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportPDF_ManyBarsSpansPages(t *testing.T) {
	reqs := []model.Requirement{model.NewRequirement("M", 12, 7.0, 120)}
	plan, err := engine.Run(reqs, model.DefaultSettings(), nil)
	if err != nil {
		t.Fatal(err)
	}

	pdf, err := buildReport(plan, "Many")
	if err != nil {
		t.Fatalf("buildReport returned error: %v", err)
	}
	if pdf.PageCount() < 2 {
		t.Errorf("expected several pages, got %d", pdf.PageCount())
	}
}

func TestCutSummary(t *testing.T) {
	bar := model.StockBar{
		ID: 1, Diameter: 12, NominalLength: 10, Remaining: 3, Utilization: 70,
		Cuts: []model.Cut{{Identifier: "B1", Length: 3.5}, {Identifier: "B1", Length: 3.5}},
	}
	want := "B1 3.500, B1 3.500  |  remaining 3.000 m  |  70.0%"
	if got := cutSummary(bar); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
