package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/BarCut/internal/model"
)

// segment is one piece of a spliced bar: the length to cut and the net
// length it contributes once lapped onto its neighbour.
type segment struct {
	cut       float64
	effective float64
}

// Splice replaces every requirement longer than the stock length with a chain
// of shorter segments joined by lap splices. Requirements that fit (including
// those exactly equal to the stock length) pass through unchanged.
//
// The lap length is lapFactor × diameter. A configuration where the lap is at
// least as long as a stock bar can never make progress and is rejected before
// any segment is produced.
func Splice(reqs []model.Requirement, stockLength float64, lapFactor int) ([]model.Requirement, model.SpliceStats, error) {
	stats := model.SpliceStats{OriginalCount: len(reqs)}
	if stockLength <= 0 {
		return nil, stats, model.NewError(model.KindInvalidSettings, "stock_length", "stock length must be positive, got %v", stockLength)
	}
	if lapFactor < 0 {
		return nil, stats, model.NewError(model.KindInvalidSettings, "lap_factor", "lap factor must not be negative, got %d", lapFactor)
	}

	// Check every line up front so a failure never leaves a half-built list.
	for _, r := range reqs {
		if r.Length <= stockLength {
			continue
		}
		lap := lapLength(lapFactor, r.Diameter)
		if lap >= stockLength {
			return nil, stats, model.NewError(model.KindDegenerateSplicing, "lap_factor",
				"%s: lap length %.3fm (%dd) is not shorter than stock length %.3fm",
				r.Identifier, lap, lapFactor, stockLength)
		}
	}

	processed := make([]model.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if r.Length <= stockLength {
			processed = append(processed, r)
			continue
		}

		lap := lapLength(lapFactor, r.Diameter)
		segments := splitLength(r.Length, stockLength, lap)
		stats.TotalSpliced += r.Quantity
		stats.AdditionalPieces += (len(segments) - 1) * r.Quantity

		for i, seg := range segments {
			processed = append(processed, model.Requirement{
				Identifier: fmt.Sprintf("%s(%d/%d)", r.Identifier, i+1, len(segments)),
				Diameter:   r.Diameter,
				Length:     seg.cut,
				Quantity:   r.Quantity,
				Note:       fmt.Sprintf("Spliced from %s (Lap: %.3fm)", r.Identifier, lap),
				Splice: &model.Splice{
					Parent:          r.Identifier,
					Index:           i + 1,
					Count:           len(segments),
					LapLength:       lap,
					EffectiveLength: seg.effective,
				},
			})
		}
	}

	stats.FinalCount = len(processed)
	return processed, stats, nil
}

func lapLength(lapFactor, diameter int) float64 {
	return float64(lapFactor) * float64(diameter) / 1000.0
}

// splitLength partitions length into segments no longer than stock. The first
// segment is a full bar; each following one either finishes the run (remaining
// plus one lap) or is another full bar that nets stock − lap.
// Requires lap < stock.
func splitLength(length, stock, lap float64) []segment {
	segments := []segment{{cut: stock, effective: stock}}
	remaining := length - stock

	for remaining > model.Epsilon {
		if remaining+lap <= stock+model.Epsilon {
			segments = append(segments, segment{cut: math.Min(remaining+lap, stock), effective: remaining})
			break
		}
		segments = append(segments, segment{cut: stock, effective: stock - lap})
		remaining -= stock - lap
	}
	return segments
}
