package model

import "math"

// PurchaseEstimate is the theoretical lower bound on bars for one diameter,
// ignoring kerf and assuming pieces could be joined end to end.
type PurchaseEstimate struct {
	Diameter        int     `json:"diameter"`
	Pieces          int     `json:"pieces"`
	RequiredLength  float64 `json:"required_length"`   // Σ length × quantity (m)
	StockLength     float64 `json:"stock_length"`      // m
	BarsNeededExact float64 `json:"bars_needed_exact"` // Fractional number of bars
	BarsNeededMin   int     `json:"bars_needed_min"`   // Ceiling of exact
	EstimatedWeight float64 `json:"estimated_weight"`  // kg for BarsNeededMin bars
	OversizedPieces int     `json:"oversized_pieces"`  // Pieces longer than one stock bar
}

// EstimatePurchase computes the lower bound per diameter, in order of first
// appearance in the schedule.
func EstimatePurchase(reqs []Requirement, settings Settings) []PurchaseEstimate {
	var order []int
	byDiameter := make(map[int]*PurchaseEstimate)
	for _, r := range reqs {
		est, ok := byDiameter[r.Diameter]
		if !ok {
			est = &PurchaseEstimate{Diameter: r.Diameter, StockLength: settings.StockLength}
			byDiameter[r.Diameter] = est
			order = append(order, r.Diameter)
		}
		est.Pieces += r.Quantity
		est.RequiredLength += r.TotalLength()
		if r.Length > settings.StockLength {
			est.OversizedPieces += r.Quantity
		}
	}

	estimates := make([]PurchaseEstimate, 0, len(order))
	for _, d := range order {
		est := byDiameter[d]
		if settings.StockLength > 0 {
			est.BarsNeededExact = est.RequiredLength / settings.StockLength
			// Guard against 2.0000000001 rounding up to 3.
			est.BarsNeededMin = int(math.Ceil(est.BarsNeededExact - Epsilon))
		}
		w, _ := settings.UnitWeight(d)
		est.EstimatedWeight = float64(est.BarsNeededMin) * settings.StockLength * w
		estimates = append(estimates, *est)
	}
	return estimates
}

// MinimumBars sums BarsNeededMin over all diameters.
func MinimumBars(estimates []PurchaseEstimate) int {
	total := 0
	for _, e := range estimates {
		total += e.BarsNeededMin
	}
	return total
}
