package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRequirementTotalLength(t *testing.T) {
	r := NewRequirement("B1", 12, 3.5, 4)
	if got := r.TotalLength(); got != 14.0 {
		t.Errorf("expected total length 14.0, got %f", got)
	}
}

func TestStockBarLengths(t *testing.T) {
	b := StockBar{
		ID:            3,
		Diameter:      16,
		NominalLength: 10,
		Cuts: []Cut{
			{Identifier: "A", Length: 4, Start: 0, End: 4},
			{Identifier: "B", Length: 3, Start: 4.005, End: 7.005},
		},
		Remaining: 2.995,
	}
	if got := b.CutLength(); got != 7 {
		t.Errorf("expected cut length 7, got %f", got)
	}
	if got := b.UsedLength(); got < 7.004 || got > 7.006 {
		t.Errorf("expected used length 7.005, got %f", got)
	}
	if got := b.Label(); got != "DB16-3" {
		t.Errorf("expected label DB16-3, got %s", got)
	}
}

func TestNewOptimizeResultIsWellFormed(t *testing.T) {
	r := NewOptimizeResult()
	if len(r.RunID) != 8 {
		t.Errorf("expected 8 character run id, got %q", r.RunID)
	}
	if r.CuttingPlan == nil || r.ProcurementSummary == nil {
		t.Error("slices should not be nil")
	}
	if r.Remnants.Reusable == nil || r.Remnants.Scrap == nil {
		t.Error("remnant slices should not be nil")
	}
	if r.WastePercent() != 0 {
		t.Errorf("expected 0 waste percent on empty result, got %f", r.WastePercent())
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"remnant_summary":{"reusable":[],"scrap":[]}`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestWastePercent(t *testing.T) {
	r := OptimizeResult{TotalWaste: 3, TotalStockLength: 24}
	if got := r.WastePercent(); got != 12.5 {
		t.Errorf("expected 12.5%%, got %f", got)
	}
}

func TestSpliceFinal(t *testing.T) {
	if (Splice{Index: 1, Count: 2}).Final() {
		t.Error("first of two segments should not be final")
	}
	if !(Splice{Index: 2, Count: 2}).Final() {
		t.Error("second of two segments should be final")
	}
}

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject("")
	if p.Name != "Untitled" {
		t.Errorf("expected Untitled, got %s", p.Name)
	}
	if p.ID == "" || p.CreatedAt == "" {
		t.Error("expected ID and CreatedAt to be set")
	}
	if p.Settings.StockLength != 12 || p.Settings.ToleranceMM != 5 || p.Settings.Weights != nil {
		t.Errorf("expected default settings, got %+v", p.Settings)
	}
}
