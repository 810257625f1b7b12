package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/BarCut/internal/model"
)

// Optimizer runs the 1D First-Fit-Decreasing cutting-stock heuristic.
type Optimizer struct {
	Settings model.Settings
	Logger   *slog.Logger
}

func New(settings model.Settings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// WithLogger sets the logger used for warnings and per-group debug output.
func (o *Optimizer) WithLogger(l *slog.Logger) *Optimizer {
	o.Logger = l
	return o
}

func (o *Optimizer) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Optimize packs requirements into stock bars. Requirements are grouped by
// diameter and each group is packed independently; the result lists groups
// in order of first appearance. Requirements are assumed valid (see
// model.ValidateRequirements). Only invalid settings produce an error.
//
// Pieces longer than the stock length are not split here; each one becomes
// a special-order bar of its own length. Run Splice first to avoid that.
func (o *Optimizer) Optimize(reqs []model.Requirement) (model.OptimizeResult, error) {
	if err := o.Settings.Validate(); err != nil {
		return model.OptimizeResult{}, err
	}

	groups := groupByDiameter(reqs)

	// Groups share no state, so they can be packed concurrently.
	results := make([]groupResult, len(groups))
	var g errgroup.Group
	for i, grp := range groups {
		g.Go(func() error {
			results[i] = o.optimizeGroup(grp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.OptimizeResult{}, err
	}

	result := model.NewOptimizeResult()
	for _, r := range results {
		result.ProcurementSummary = append(result.ProcurementSummary, r.line)
		result.CuttingPlan = append(result.CuttingPlan, r.bars...)
		result.TotalWaste += r.line.TotalWaste
		result.TotalStockUsed += r.line.BarCount
		result.TotalStockLength += r.line.TotalStockLength
		result.TotalWeight += r.line.TotalWeight
		if r.warning != nil {
			result.Warnings = append(result.Warnings, *r.warning)
		}
	}
	result.Remnants = model.ClassifyRemnants(result.CuttingPlan, o.Settings)

	o.logger().Debug("optimization finished",
		slog.String("run_id", result.RunID),
		slog.Int("diameters", len(groups)),
		slog.Int("bars", result.TotalStockUsed),
		slog.Float64("waste_m", result.TotalWaste))
	return result, nil
}

// diameterGroup holds the expanded pieces of one diameter.
type diameterGroup struct {
	diameter int
	pieces   []piece
}

// groupByDiameter expands quantities into pieces and groups them by diameter,
// preserving first-appearance order of both diameters and pieces.
func groupByDiameter(reqs []model.Requirement) []diameterGroup {
	index := make(map[int]int)
	var groups []diameterGroup
	for _, r := range reqs {
		gi, ok := index[r.Diameter]
		if !ok {
			gi = len(groups)
			index[r.Diameter] = gi
			groups = append(groups, diameterGroup{diameter: r.Diameter})
		}
		for i := 0; i < r.Quantity; i++ {
			groups[gi].pieces = append(groups[gi].pieces, piece{identifier: r.Identifier, length: r.Length})
		}
	}
	return groups
}

type groupResult struct {
	line    model.ProcurementLine
	bars    []model.StockBar
	warning *model.Warning
}

// optimizeGroup packs one diameter: sort descending (stable), first-fit the
// standard pieces, then give each oversized piece a special-order bar.
func (o *Optimizer) optimizeGroup(grp diameterGroup) groupResult {
	stock := o.Settings.StockLength
	kerf := o.Settings.Tolerance()

	pieces := make([]piece, len(grp.pieces))
	copy(pieces, grp.pieces)
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].length > pieces[j].length
	})

	var standard, oversized []piece
	for _, p := range pieces {
		if p.length > stock+model.Epsilon {
			oversized = append(oversized, p)
		} else {
			standard = append(standard, p)
		}
	}

	packer := newFirstFitPacker(stock, kerf)
	for _, p := range standard {
		packer.insert(p)
	}
	for _, p := range oversized {
		packer.insertSpecial(p)
	}

	bars := make([]model.StockBar, 0, len(packer.bars))
	for _, b := range packer.bars {
		bars = append(bars, b.finalize(grp.diameter))
	}

	res := groupResult{bars: bars}
	unitWeight, known := o.Settings.UnitWeight(grp.diameter)
	if !known {
		res.warning = &model.Warning{
			Kind:     model.KindUnknownDiameter,
			Diameter: grp.diameter,
			Message:  fmt.Sprintf("no unit weight for %s; weight reported as 0", model.DiameterLabel(grp.diameter)),
		}
		o.logger().Warn("unknown diameter weight", slog.Int("diameter", grp.diameter))
	}
	res.line = procurementLine(grp.diameter, stock, bars, unitWeight)

	o.logger().Debug("diameter packed",
		slog.Int("diameter", grp.diameter),
		slog.Int("pieces", len(pieces)),
		slog.Int("oversized", len(oversized)),
		slog.Int("bars", len(bars)))
	return res
}

// procurementLine aggregates the finalized bars of one diameter.
func procurementLine(diameter int, stock float64, bars []model.StockBar, unitWeight float64) model.ProcurementLine {
	line := model.ProcurementLine{
		Diameter:    diameter,
		StockLength: stock,
		BarCount:    len(bars),
	}
	for _, b := range bars {
		line.TotalStockLength += b.NominalLength
		line.TotalWaste += b.Remaining
		if b.SpecialOrder {
			line.SpecialOrderCount++
		}
	}
	line.MixedLengths = line.SpecialOrderCount > 0
	if line.TotalStockLength > 0 {
		line.WastePercent = line.TotalWaste / line.TotalStockLength * 100.0
	}
	line.TotalWeight = line.TotalStockLength * unitWeight
	return line
}
