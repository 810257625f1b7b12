package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Epsilon is the length tolerance (m) used when comparing bar capacities.
const Epsilon = 1e-9

// Requirement is one aggregated line of a bar schedule: a bar mark that needs
// Quantity pieces of the given diameter cut to Length.
type Requirement struct {
	Identifier string  `json:"identifier"`
	Diameter   int     `json:"diameter"` // mm
	Length     float64 `json:"length"`   // m
	Quantity   int     `json:"quantity"`

	Note   string  `json:"note,omitempty"`
	Splice *Splice `json:"splice,omitempty"` // Set on segments produced by the splicer
}

func NewRequirement(identifier string, diameter int, length float64, qty int) Requirement {
	return Requirement{
		Identifier: identifier,
		Diameter:   diameter,
		Length:     length,
		Quantity:   qty,
	}
}

// TotalLength returns Length × Quantity.
func (r Requirement) TotalLength() float64 {
	return r.Length * float64(r.Quantity)
}

// Splice records where a spliced segment came from.
type Splice struct {
	Parent          string  `json:"parent"`
	Index           int     `json:"index"` // 1-based
	Count           int     `json:"count"`
	LapLength       float64 `json:"lap_length"`       // m
	EffectiveLength float64 `json:"effective_length"` // Net bar length this segment contributes (m)
}

// Final reports whether this is the last segment of its parent.
func (s Splice) Final() bool {
	return s.Index == s.Count
}

// SpliceStats summarises a splicing pass.
type SpliceStats struct {
	OriginalCount    int `json:"original_count"`    // Requirement lines before splicing
	TotalSpliced     int `json:"total_spliced"`     // Sum of quantities that needed splicing
	AdditionalPieces int `json:"additional_pieces"` // Extra pieces introduced by splicing
	FinalCount       int `json:"final_count"`       // Requirement lines after splicing
}

// Cut is a single piece placed on a stock bar.
type Cut struct {
	Identifier string  `json:"identifier"`
	Length     float64 `json:"length"` // m
	Start      float64 `json:"start"`  // m from the bar origin
	End        float64 `json:"end"`    // m from the bar origin
}

// StockBar is one purchased bar and the cuts assigned to it.
type StockBar struct {
	ID            int     `json:"id"` // Sequential within its diameter, starting at 1
	Diameter      int     `json:"diameter"`
	NominalLength float64 `json:"nominal_length"` // m
	Cuts          []Cut   `json:"cuts"`
	Remaining     float64 `json:"remaining"`   // m
	Utilization   float64 `json:"utilization"` // percent
	SpecialOrder  bool    `json:"special_order,omitempty"`
}

// UsedLength returns the length consumed by cuts and kerf.
func (b StockBar) UsedLength() float64 {
	return b.NominalLength - b.Remaining
}

// CutLength returns the sum of the cut lengths only.
func (b StockBar) CutLength() float64 {
	var total float64
	for _, c := range b.Cuts {
		total += c.Length
	}
	return total
}

// Label returns the display name used in reports, e.g. "DB12-3".
func (b StockBar) Label() string {
	return fmt.Sprintf("%s-%d", DiameterLabel(b.Diameter), b.ID)
}

// DiameterLabel formats a diameter in deformed-bar notation.
func DiameterLabel(diameter int) string {
	return fmt.Sprintf("DB%d", diameter)
}

// ProcurementLine aggregates the bars to purchase for one diameter.
type ProcurementLine struct {
	Diameter          int     `json:"diameter"`
	StockLength       float64 `json:"stock_length"`        // Standard stock length (m)
	MixedLengths      bool    `json:"mixed_lengths"`       // True when special-order bars are included
	SpecialOrderCount int     `json:"special_order_count"` // Bars bought at a custom length
	BarCount          int     `json:"bar_count"`
	TotalStockLength  float64 `json:"total_stock_length"` // m
	TotalWaste        float64 `json:"total_waste"`        // m
	WastePercent      float64 `json:"waste_percent"`
	TotalWeight       float64 `json:"total_weight"` // kg
}

// Remnant is the leftover of a finalized stock bar.
type Remnant struct {
	StockID  int     `json:"stock_id"`
	Diameter int     `json:"diameter"`
	Length   float64 `json:"length"` // m
	Weight   float64 `json:"weight"` // kg
}

// RemnantSummary splits remnants into reusable and scrap.
type RemnantSummary struct {
	Reusable []Remnant `json:"reusable"`
	Scrap    []Remnant `json:"scrap"`
}

// OptimizeResult holds the full cutting solution.
type OptimizeResult struct {
	RunID              string            `json:"run_id"`
	ProcurementSummary []ProcurementLine `json:"procurement_summary"`
	CuttingPlan        []StockBar        `json:"cutting_plan"`
	TotalWaste         float64           `json:"total_waste"`        // m
	TotalStockUsed     int               `json:"total_stock_used"`   // bars
	TotalStockLength   float64           `json:"total_stock_length"` // m
	Remnants           RemnantSummary    `json:"remnant_summary"`
	TotalWeight        float64           `json:"total_weight"` // kg
	Warnings           []Warning         `json:"warnings,omitempty"`
}

// NewOptimizeResult returns an empty, well-formed result.
func NewOptimizeResult() OptimizeResult {
	return OptimizeResult{
		RunID:              uuid.New().String()[:8],
		ProcurementSummary: []ProcurementLine{},
		CuttingPlan:        []StockBar{},
		Remnants:           RemnantSummary{Reusable: []Remnant{}, Scrap: []Remnant{}},
	}
}

// WastePercent returns overall waste as a percentage of purchased length.
func (r OptimizeResult) WastePercent() float64 {
	if r.TotalStockLength == 0 {
		return 0
	}
	return r.TotalWaste / r.TotalStockLength * 100.0
}

// BarsForDiameter returns the cutting plan entries of one diameter in order.
func (r OptimizeResult) BarsForDiameter(diameter int) []StockBar {
	var bars []StockBar
	for _, b := range r.CuttingPlan {
		if b.Diameter == diameter {
			bars = append(bars, b)
		}
	}
	return bars
}

// TotalCuts returns the number of pieces across all bars.
func (r OptimizeResult) TotalCuts() int {
	total := 0
	for _, b := range r.CuttingPlan {
		total += len(b.Cuts)
	}
	return total
}

// Project ties a schedule, its settings and the last result together for save/load.
type Project struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CreatedAt    string          `json:"created_at"`
	Requirements []Requirement   `json:"requirements"`
	Settings     Settings        `json:"settings"`
	Result       *OptimizeResult `json:"result,omitempty"`
}

func NewProject(name string) Project {
	if name == "" {
		name = "Untitled"
	}
	return Project{
		ID:           uuid.New().String()[:8],
		Name:         name,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Requirements: []Requirement{},
		Settings:     DefaultSettings(),
	}
}
