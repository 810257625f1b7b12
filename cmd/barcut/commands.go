package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/BarCut/internal/archive"
	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
	"github.com/piwi3910/BarCut/internal/server"
	"github.com/spf13/cobra"
)

func (a *app) templateCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a sample bar schedule workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := importer.WriteTemplate(output); err != nil {
				return err
			}
			fmt.Fprintln(a.out, successStyle.Render("  ✓ ")+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "bar-schedule.xlsx", "Output workbook")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.HTTPAddress = addr
			}

			var opts []server.Option
			if cfg.Archive.Enabled() {
				store, err := archive.New(cfg.Archive)
				if err != nil {
					return err
				}
				opts = append(opts, server.WithArchiver(store))
			}
			srv, err := server.New(cfg, a.log, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(a.cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, mutedStyle.Render("# "+a.configPath))
			fmt.Fprintln(a.out, string(data))
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := project.SaveAppConfig(a.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, successStyle.Render("  ✓ ")+a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
