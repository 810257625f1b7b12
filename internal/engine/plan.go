package engine

import (
	"log/slog"

	"github.com/piwi3910/BarCut/internal/model"
)

// Plan is the output of one pipeline run.
type Plan struct {
	Settings     model.Settings           `json:"settings"`
	Requirements []model.Requirement      `json:"requirements"`           // After splicing, when enabled
	SpliceStats  *model.SpliceStats       `json:"splice_stats,omitempty"` // nil when splicing is off
	Result       model.OptimizeResult     `json:"result"`
	Estimates    []model.PurchaseEstimate `json:"estimates"`
}

// MinimumBars returns the theoretical lower bound on bars for this plan.
func (p Plan) MinimumBars() int {
	return model.MinimumBars(p.Estimates)
}

// Run validates the inputs, splices overlength bars when enabled and packs
// the result. Nothing partial is returned on error.
func Run(reqs []model.Requirement, settings model.Settings, logger *slog.Logger) (Plan, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := settings.Validate(); err != nil {
		return Plan{}, err
	}
	if err := model.ValidateRequirements(reqs); err != nil {
		return Plan{}, err
	}

	plan := Plan{Settings: settings, Requirements: reqs}
	if settings.EnableSplicing {
		processed, stats, err := Splice(reqs, settings.StockLength, settings.LapFactor)
		if err != nil {
			return Plan{}, err
		}
		logger.Debug("splicing finished",
			slog.Int("original", stats.OriginalCount),
			slog.Int("spliced", stats.TotalSpliced),
			slog.Int("additional_pieces", stats.AdditionalPieces))
		plan.Requirements = processed
		plan.SpliceStats = &stats
	}
	if plan.Requirements == nil {
		plan.Requirements = []model.Requirement{}
	}

	result, err := New(settings).WithLogger(logger).Optimize(plan.Requirements)
	if err != nil {
		return Plan{}, err
	}
	plan.Result = result
	plan.Estimates = model.EstimatePurchase(plan.Requirements, settings)
	return plan, nil
}
