// BarCut - rebar cutting list optimizer
//
// Reads a bar schedule, splices bars longer than the stock length, packs the
// cuts onto stock bars per diameter and writes procurement and cutting
// reports.
//
// Build:
//   go build -o barcut ./cmd/barcut
//
// Examples:
//   barcut optimize -i schedule.xlsx --pdf plan.pdf
//   barcut compare -i schedule.csv
//   barcut serve
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/piwi3910/BarCut/internal/extract"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

// app holds state shared by every command once the root pre-run has loaded
// the config.
type app struct {
	configPath string
	verbose    bool

	cfg model.AppConfig
	log *slog.Logger
	out io.Writer

	// newGenerator builds the extraction backend; replaced in tests.
	newGenerator func(ctx context.Context, cfg model.AppConfig) (extract.Generator, error)
}

func newApp() *app {
	return &app{
		out:          os.Stdout,
		log:          slog.Default(),
		newGenerator: geminiGenerator,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "barcut",
		Short: "BarCut - rebar cutting list optimizer",
		Long: `BarCut turns a reinforcement bar schedule into a purchase list and a
cutting plan: bars longer than stock are lap-spliced, cuts are packed onto
stock bars per diameter and leftovers are classified as reusable or scrap.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.barcut/config.json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.optimizeCmd())
	root.AddCommand(a.compareCmd())
	root.AddCommand(a.spliceCmd())
	root.AddCommand(a.extractCmd())
	root.AddCommand(a.templateCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.configCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	// .env is optional; it usually only carries GEMINI_API_KEY.
	_ = godotenv.Load()

	if a.configPath == "" {
		a.configPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.log = setupLogger(cfg.Env, cfg.LogLevel, a.verbose, cmd.ErrOrStderr())
	a.log.Debug("config loaded", slog.String("path", a.configPath))
	return nil
}
