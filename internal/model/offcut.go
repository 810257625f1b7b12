package model

// MinReusableLength is the shortest leftover (m) worth keeping for later jobs.
// Anything shorter, but still longer than zero, is scrap.
const MinReusableLength = 1.0

// RemnantOf returns the remnant of a finalized bar and false when the bar was
// used up completely.
func RemnantOf(b StockBar, unitWeight float64) (Remnant, bool) {
	if b.Remaining <= Epsilon {
		return Remnant{}, false
	}
	return Remnant{
		StockID:  b.ID,
		Diameter: b.Diameter,
		Length:   b.Remaining,
		Weight:   b.Remaining * unitWeight,
	}, true
}

// IsReusable reports whether a remnant meets the reuse threshold.
func (r Remnant) IsReusable() bool {
	return r.Length >= MinReusableLength
}

// ClassifyRemnants buckets every bar with leftover length into reusable or
// scrap. Bars with nothing left produce no entry.
func ClassifyRemnants(bars []StockBar, settings Settings) RemnantSummary {
	summary := RemnantSummary{Reusable: []Remnant{}, Scrap: []Remnant{}}
	for _, b := range bars {
		w, _ := settings.UnitWeight(b.Diameter)
		rem, ok := RemnantOf(b, w)
		if !ok {
			continue
		}
		if rem.IsReusable() {
			summary.Reusable = append(summary.Reusable, rem)
		} else {
			summary.Scrap = append(summary.Scrap, rem)
		}
	}
	return summary
}

// TotalLength returns the summed remnant length in metres.
func TotalLength(remnants []Remnant) float64 {
	var total float64
	for _, r := range remnants {
		total += r.Length
	}
	return total
}

// TotalWeight returns the summed remnant weight in kg.
func TotalWeight(remnants []Remnant) float64 {
	var total float64
	for _, r := range remnants {
		total += r.Weight
	}
	return total
}
