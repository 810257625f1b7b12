package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BarCut/internal/export"
	"github.com/piwi3910/BarCut/internal/extract"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func geminiGenerator(ctx context.Context, cfg model.AppConfig) (extract.Generator, error) {
	return extract.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}

func (a *app) extractCmd() *cobra.Command {
	var (
		inputs  []string
		output  string
		modelID string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a bar schedule from drawings, scans or spreadsheets",
		Long: `Send PDF drawings, photos or loosely formatted spreadsheets to Gemini and
write the recognised bar schedule as CSV, ready for "barcut optimize".

Needs GEMINI_API_KEY in the environment or a .env file.

Examples:
  barcut extract -i drawing.pdf -o schedule.csv
  barcut extract -i sheet1.png -i sheet2.png -o schedule.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs = append(inputs, args...)
			if len(inputs) == 0 {
				return fmt.Errorf("no input files")
			}
			for _, in := range inputs {
				if !extract.Supported(in) {
					return fmt.Errorf("%s: unsupported file type (want pdf, png, jpg, xlsx or csv)", in)
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := a.cfg
			if modelID != "" {
				cfg.GeminiModel = modelID
			}
			gen, err := a.newGenerator(ctx, cfg)
			if err != nil {
				return err
			}
			reqs, err := a.extractFiles(ctx, extract.New(gen, a.log), inputs, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.WriteRequirementsCSV(a.out, reqs)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.WriteRequirementsCSV(f, reqs); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s %s\n", successStyle.Render("  ✓"), output,
				mutedStyle.Render(fmt.Sprintf("(%d rows)", len(reqs))))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "File to extract (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV (default: stdout)")
	cmd.Flags().StringVar(&modelID, "model", "", "Gemini model (default from config)")
	return cmd
}

// extractFiles runs each file through the extractor in order, reporting
// progress on w.
func (a *app) extractFiles(ctx context.Context, ex *extract.Extractor, paths []string, w io.Writer) ([]model.Requirement, error) {
	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	var all []model.Requirement
	for _, path := range paths {
		bar.Describe(filepath.Base(path))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		reqs, warnings, err := ex.Extract(ctx, filepath.Base(path), data)
		if err != nil {
			return nil, err
		}
		for _, warn := range warnings {
			a.log.Warn("extraction dropped a row", slog.String("file", path), slog.String("detail", warn))
		}
		all = append(all, reqs...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return all, nil
}
