package model

import (
	"math"
	"sort"
)

// Settings holds the optimizer and splicer configuration for one run.
type Settings struct {
	StockLength    float64         `json:"stock_length"`    // m
	ToleranceMM    int             `json:"tolerance_mm"`    // Saw kerf between cuts (mm)
	LapFactor      int             `json:"lap_factor"`      // Lap length as a multiple of diameter
	EnableSplicing bool            `json:"enable_splicing"` // Run the splicer before optimizing
	Weights        map[int]float64 `json:"weights,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		StockLength:    12.0,
		ToleranceMM:    5,
		LapFactor:      40,
		EnableSplicing: false,
	}
}

// Tolerance returns the kerf in metres.
func (s Settings) Tolerance() float64 {
	return float64(s.ToleranceMM) / 1000.0
}

// LapLength returns the lap splice length (m) for a diameter.
func (s Settings) LapLength(diameter int) float64 {
	return float64(s.LapFactor) * float64(diameter) / 1000.0
}

// Validate checks the settings before any work is done.
func (s Settings) Validate() error {
	if s.StockLength <= 0 || math.IsNaN(s.StockLength) || math.IsInf(s.StockLength, 0) {
		return newError(KindInvalidSettings, "stock_length", "stock length must be a positive number, got %v", s.StockLength)
	}
	if s.ToleranceMM < 0 {
		return newError(KindInvalidSettings, "tolerance_mm", "cutting tolerance must not be negative, got %d", s.ToleranceMM)
	}
	if s.LapFactor < 0 {
		return newError(KindInvalidSettings, "lap_factor", "lap factor must not be negative, got %d", s.LapFactor)
	}
	return nil
}

// WeightTable returns the weight table in effect.
func (s Settings) WeightTable() map[int]float64 {
	if s.Weights != nil {
		return s.Weights
	}
	return DefaultWeights
}

// UnitWeight returns kg/m for a diameter and whether the table knows it.
func (s Settings) UnitWeight(diameter int) (float64, bool) {
	w, ok := s.WeightTable()[diameter]
	return w, ok
}

// DefaultWeights maps deformed bar diameter (mm) to linear weight (kg/m).
var DefaultWeights = map[int]float64{
	6:  0.222,
	9:  0.499,
	10: 0.617,
	12: 0.888,
	16: 1.578,
	20: 2.466,
	25: 3.853,
	28: 4.83,
	32: 6.31,
}

// StandardStockLengths are the mill lengths normally available (m).
var StandardStockLengths = []float64{10, 12}

// SortedDiameters returns the diameters of a weight table in ascending order.
func SortedDiameters(weights map[int]float64) []int {
	out := make([]int, 0, len(weights))
	for d := range weights {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
