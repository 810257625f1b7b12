package engine

import (
	"fmt"
	"log/slog"

	"github.com/piwi3910/BarCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// ComparisonResult holds the plan and headline figures for a single scenario.
// Err is set instead of Plan when the scenario could not run, e.g. a
// degenerate splice.
type ComparisonResult struct {
	Scenario       ComparisonScenario `json:"scenario"`
	Plan           *Plan              `json:"plan,omitempty"`
	BarsUsed       int                `json:"bars_used"`
	SpecialOrders  int                `json:"special_orders"`
	WastePercent   float64            `json:"waste_percent"`
	TotalWeight    float64            `json:"total_weight"`
	ReusableLength float64            `json:"reusable_length"`
	Err            error              `json:"-"`
	Error          string             `json:"error,omitempty"`
}

// CompareScenarios runs the pipeline for each scenario, in scenario order.
func CompareScenarios(scenarios []ComparisonScenario, reqs []model.Requirement, logger *slog.Logger) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		plan, err := Run(reqs, scenario.Settings, logger)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err, Error: err.Error()})
			continue
		}

		special := 0
		for _, line := range plan.Result.ProcurementSummary {
			special += line.SpecialOrderCount
		}

		results = append(results, ComparisonResult{
			Scenario:       scenario,
			Plan:           &plan,
			BarsUsed:       plan.Result.TotalStockUsed,
			SpecialOrders:  special,
			WastePercent:   plan.Result.WastePercent(),
			TotalWeight:    plan.Result.TotalWeight,
			ReusableLength: model.TotalLength(plan.Result.Remnants.Reusable),
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// settings: the other standard stock lengths, splicing toggled and a thinner
// blade.
func BuildDefaultScenarios(base model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	for _, length := range model.StandardStockLengths {
		if length == base.StockLength {
			continue
		}
		alt := base
		alt.StockLength = length
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Stock %.0fm", length),
			Settings: alt,
		})
	}

	toggled := base
	toggled.EnableSplicing = !base.EnableSplicing
	name := "Splicing On"
	if base.EnableSplicing {
		name = "Splicing Off"
	}
	scenarios = append(scenarios, ComparisonScenario{Name: name, Settings: toggled})

	// Thinner blade
	if base.ToleranceMM > 1 {
		half := base
		half.ToleranceMM = base.ToleranceMM / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Tolerance %dmm (half)", half.ToleranceMM),
			Settings: half,
		})
	}

	return scenarios
}
