package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
)

var (
	accent  = lipgloss.Color("#E8702A")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	danger  = lipgloss.Color("#FF3B30")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func section(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(accentStyle.Render("▸ " + strings.ToUpper(title)))
	b.WriteString("\n")
}

// renderSummary formats the procurement and remnant figures of a plan.
func renderSummary(plan engine.Plan, title string) string {
	var b strings.Builder
	result := plan.Result

	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("  ")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("run %s · stock %sm · kerf %dmm", result.RunID, f2(plan.Settings.StockLength), plan.Settings.ToleranceMM)))
	b.WriteString("\n")

	if plan.SpliceStats != nil {
		section(&b, "Splicing")
		s := plan.SpliceStats
		fmt.Fprintf(&b, "  %d of %d lines spliced (%d pieces), %d extra pieces, %d lines after splicing (lap %dd)\n",
			countSpliced(plan.Requirements), s.OriginalCount, s.TotalSpliced, s.AdditionalPieces, s.FinalCount, plan.Settings.LapFactor)
	}

	section(&b, "Procurement")
	t := newTable("Diameter", "Stock (m)", "Bars", "Special", "Length (m)", "Waste (m)", "Waste %", "Weight (kg)")
	for _, l := range result.ProcurementSummary {
		stock := f2(l.StockLength)
		if l.MixedLengths {
			stock += " + special"
		}
		t.Row(model.DiameterLabel(l.Diameter), stock, strconv.Itoa(l.BarCount), strconv.Itoa(l.SpecialOrderCount),
			f2(l.TotalStockLength), f3(l.TotalWaste), f2(l.WastePercent), f2(l.TotalWeight))
	}
	t.Row("Total", "", strconv.Itoa(result.TotalStockUsed), "", f2(result.TotalStockLength),
		f3(result.TotalWaste), f2(result.WastePercent()), f2(result.TotalWeight))
	b.WriteString(t.String())
	b.WriteString("\n")

	minBars := plan.MinimumBars()
	gap := result.TotalStockUsed - minBars
	line := fmt.Sprintf("  %d pieces on %d bars (theoretical minimum %d)", result.TotalCuts(), result.TotalStockUsed, minBars)
	if gap <= 0 {
		b.WriteString(successStyle.Render(line))
	} else {
		b.WriteString(line + mutedStyle.Render(fmt.Sprintf(", %d over", gap)))
	}
	b.WriteString("\n")

	section(&b, "Remnants")
	rem := result.Remnants
	fmt.Fprintf(&b, "  Reusable: %d pieces, %sm, %skg\n", len(rem.Reusable),
		f2(model.TotalLength(rem.Reusable)), f2(model.TotalWeight(rem.Reusable)))
	fmt.Fprintf(&b, "  Scrap:    %d pieces, %sm, %skg\n", len(rem.Scrap),
		f2(model.TotalLength(rem.Scrap)), f2(model.TotalWeight(rem.Scrap)))

	if len(result.Warnings) > 0 {
		section(&b, "Warnings")
		for _, w := range result.Warnings {
			b.WriteString("  " + errorStyle.Render("!") + " " + w.Message + "\n")
		}
	}
	return b.String()
}

func countSpliced(reqs []model.Requirement) int {
	parents := map[string]bool{}
	for _, r := range reqs {
		if r.Splice != nil {
			parents[r.Splice.Parent] = true
		}
	}
	return len(parents)
}

// renderCuttingPlan lists every bar with its cuts.
func renderCuttingPlan(result model.OptimizeResult) string {
	var b strings.Builder
	section(&b, "Cutting plan")
	t := newTable("Bar", "Length (m)", "Cuts", "Remaining (m)", "Used %")
	for _, bar := range result.CuttingPlan {
		cuts := make([]string, 0, len(bar.Cuts))
		for _, c := range bar.Cuts {
			cuts = append(cuts, fmt.Sprintf("%s %s", c.Identifier, f3(c.Length)))
		}
		label := bar.Label()
		if bar.SpecialOrder {
			label += "*"
		}
		t.Row(label, f2(bar.NominalLength), strings.Join(cuts, ", "), f3(bar.Remaining), f2(bar.Utilization))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// renderComparison prints one row per scenario.
func renderComparison(results []engine.ComparisonResult) string {
	var b strings.Builder
	section(&b, "Scenarios")
	t := newTable("Scenario", "Bars", "Special", "Waste %", "Weight (kg)", "Reusable (m)")
	best := -1
	for i, r := range results {
		if r.Err != nil {
			t.Row(r.Scenario.Name, "-", "-", "-", "-", r.Error)
			continue
		}
		if best < 0 || r.BarsUsed < results[best].BarsUsed ||
			(r.BarsUsed == results[best].BarsUsed && r.WastePercent < results[best].WastePercent) {
			best = i
		}
		t.Row(r.Scenario.Name, strconv.Itoa(r.BarsUsed), strconv.Itoa(r.SpecialOrders),
			f2(r.WastePercent), f2(r.TotalWeight), f2(r.ReusableLength))
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	if best >= 0 {
		b.WriteString(successStyle.Render("  Best: "+results[best].Scenario.Name) + "\n")
	}
	return b.String()
}

// renderSplice prints a spliced requirement list.
func renderSplice(reqs []model.Requirement, stats model.SpliceStats) string {
	var b strings.Builder
	section(&b, "Requirements")
	t := newTable("Bar Mark", "Diameter", "Length (m)", "Qty", "Note")
	for _, r := range reqs {
		t.Row(r.Identifier, model.DiameterLabel(r.Diameter), f3(r.Length), strconv.Itoa(r.Quantity), r.Note)
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d lines in, %d lines out, %d pieces spliced, %d extra pieces\n",
		stats.OriginalCount, stats.FinalCount, stats.TotalSpliced, stats.AdditionalPieces)
	return b.String()
}
