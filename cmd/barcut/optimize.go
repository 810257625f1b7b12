package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BarCut/internal/archive"
	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/export"
	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
	"github.com/spf13/cobra"
)

const maxRecentProjects = 10

// settingsFlags are shared by optimize, compare and splice.
type settingsFlags struct {
	stock     float64
	tolerance int
	splice    bool
	lap       int
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.stock, "stock", 12, "Stock bar length (m)")
	cmd.Flags().IntVar(&f.tolerance, "tolerance", 5, "Saw kerf between cuts (mm)")
	cmd.Flags().BoolVar(&f.splice, "splice", false, "Lap-splice bars longer than stock")
	cmd.Flags().IntVar(&f.lap, "lap", 40, "Lap length as a multiple of bar diameter")
}

// apply overrides base with the flags the user actually set.
func (f *settingsFlags) apply(cmd *cobra.Command, base model.Settings) model.Settings {
	if cmd.Flags().Changed("stock") {
		base.StockLength = f.stock
	}
	if cmd.Flags().Changed("tolerance") {
		base.ToleranceMM = f.tolerance
	}
	if cmd.Flags().Changed("splice") {
		base.EnableSplicing = f.splice
	}
	if cmd.Flags().Changed("lap") {
		base.LapFactor = f.lap
	}
	return base
}

type outputFlags struct {
	pdf, xlsx, csv, dxf, labels, json, project string
	title                                      string
	archive                                    bool
}

func (a *app) optimizeCmd() *cobra.Command {
	var (
		input    string
		settings settingsFlags
		out      outputFlags
		showPlan bool
	)
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Optimize a bar schedule and write reports",
		Long: `Read a bar schedule (CSV, XLSX or a saved .barcut project), splice overlength
bars when enabled, pack the cuts onto stock bars and print the purchase list.

Examples:
  barcut optimize -i schedule.csv
  barcut optimize -i schedule.xlsx --stock 10 --splice --pdf plan.pdf --labels tags.pdf
  barcut optimize -i job.barcut --xlsx plan.xlsx --archive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, base, err := a.loadSchedule(input)
			if err != nil {
				return err
			}
			s := settings.apply(cmd, base)

			plan, err := engine.Run(reqs, s, a.log)
			if err != nil {
				return err
			}

			title := out.title
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			}
			fmt.Fprint(a.out, renderSummary(plan, title))
			if showPlan {
				fmt.Fprint(a.out, renderCuttingPlan(plan.Result))
			}

			out.title = title
			written, err := a.writeOutputs(plan, reqs, out)
			for _, path := range written {
				fmt.Fprintln(a.out, successStyle.Render("  ✓ ")+path)
			}
			if err != nil {
				return err
			}

			if out.archive {
				return a.archiveFiles(cmd.Context(), plan.Result.RunID, written)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Schedule file (.csv, .xlsx or .barcut)")
	settings.register(cmd)
	cmd.Flags().StringVar(&out.pdf, "pdf", "", "Write the PDF cutting report")
	cmd.Flags().StringVar(&out.xlsx, "xlsx", "", "Write the XLSX workbook")
	cmd.Flags().StringVar(&out.csv, "csv", "", "Write the cutting plan as CSV")
	cmd.Flags().StringVar(&out.dxf, "dxf", "", "Write the DXF cutting diagram")
	cmd.Flags().StringVar(&out.labels, "labels", "", "Write QR bar tags as PDF")
	cmd.Flags().StringVar(&out.json, "json", "", "Write the full plan as JSON")
	cmd.Flags().StringVar(&out.project, "project", "", "Save schedule, settings and result as a project file")
	cmd.Flags().StringVar(&out.title, "title", "", "Report title (default: input file name)")
	cmd.Flags().BoolVar(&out.archive, "archive", false, "Upload written files to the configured archive bucket")
	cmd.Flags().BoolVar(&showPlan, "plan", false, "Print the cutting plan per bar")
	cmd.MarkFlagRequired("input")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var (
		input    string
		settings settingsFlags
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare stock length, splicing and kerf scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, base, err := a.loadSchedule(input)
			if err != nil {
				return err
			}
			s := settings.apply(cmd, base)
			if err := s.Validate(); err != nil {
				return err
			}
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(s), reqs, a.log)
			fmt.Fprint(a.out, renderComparison(results))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Schedule file (.csv, .xlsx or .barcut)")
	settings.register(cmd)
	cmd.MarkFlagRequired("input")
	return cmd
}

func (a *app) spliceCmd() *cobra.Command {
	var (
		input    string
		output   string
		settings settingsFlags
	)
	cmd := &cobra.Command{
		Use:   "splice",
		Short: "Show how overlength bars are split into lap-spliced segments",
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, base, err := a.loadSchedule(input)
			if err != nil {
				return err
			}
			s := settings.apply(cmd, base)
			if err := s.Validate(); err != nil {
				return err
			}
			if err := model.ValidateRequirements(reqs); err != nil {
				return err
			}
			spliced, stats, err := engine.Splice(reqs, s.StockLength, s.LapFactor)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, renderSplice(spliced, stats))

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := export.WriteRequirementsCSV(f, spliced); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintln(a.out, successStyle.Render("  ✓ ")+output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Schedule file (.csv, .xlsx or .barcut)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the spliced schedule as CSV")
	settings.register(cmd)
	cmd.MarkFlagRequired("input")
	return cmd
}

// loadSchedule reads requirements from a schedule file, or requirements and
// settings from a project file. Other inputs use the configured settings.
func (a *app) loadSchedule(path string) ([]model.Requirement, model.Settings, error) {
	if strings.EqualFold(filepath.Ext(path), project.FileExtension) {
		p, err := project.Load(path)
		if err != nil {
			return nil, model.Settings{}, err
		}
		a.log.Debug("project loaded", slog.String("name", p.Name), slog.Int("rows", len(p.Requirements)))
		return p.Requirements, p.Settings, nil
	}

	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		a.log.Info("import note", slog.String("file", path), slog.String("detail", w))
	}
	if !res.OK() {
		return nil, model.Settings{}, fmt.Errorf("import %s: %s", path, strings.Join(res.Errors, "; "))
	}
	a.log.Debug("schedule imported", slog.String("file", path), slog.Int("rows", len(res.Requirements)))
	return res.Requirements, a.cfg.Settings(), nil
}

// writeOutputs writes each requested file and returns the paths written
// before any error.
func (a *app) writeOutputs(plan engine.Plan, original []model.Requirement, out outputFlags) ([]string, error) {
	var written []string
	steps := []struct {
		path  string
		write func(string) error
	}{
		{out.pdf, func(p string) error { return export.ExportPDF(p, plan, out.title) }},
		{out.xlsx, func(p string) error { return export.ExportXLSX(p, plan) }},
		{out.csv, func(p string) error { return export.ExportCSV(p, plan.Result) }},
		{out.dxf, func(p string) error { return export.ExportDXF(p, plan.Result) }},
		{out.labels, func(p string) error { return export.ExportLabels(p, plan.Result) }},
		{out.json, func(p string) error { return writeJSON(p, plan) }},
		{out.project, func(p string) error { return a.saveProject(p, plan, original, out.title) }},
	}
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		if err := step.write(step.path); err != nil {
			return written, fmt.Errorf("write %s: %w", step.path, err)
		}
		written = append(written, step.path)
	}
	return written, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (a *app) saveProject(path string, plan engine.Plan, original []model.Requirement, title string) error {
	p := model.NewProject(title)
	p.Requirements = original
	p.Settings = plan.Settings
	result := plan.Result
	p.Result = &result
	if err := project.Save(path, p); err != nil {
		return err
	}

	a.cfg.AddRecentProject(path, maxRecentProjects)
	if err := project.SaveAppConfig(a.configPath, a.cfg); err != nil {
		a.log.Warn("failed to update recent projects", slog.String("error", err.Error()))
	}
	return nil
}

func (a *app) archiveFiles(ctx context.Context, runID string, paths []string) error {
	if len(paths) == 0 {
		return errors.New("--archive needs at least one output file")
	}
	store, err := archive.New(a.cfg.Archive)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		key, err := store.Put(ctx, runID, filepath.Base(path), data)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, successStyle.Render("  ↑ ")+store.Bucket()+"/"+key)
	}
	return nil
}
