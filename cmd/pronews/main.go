package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deusflow/pronews/internal/app"
	"github.com/deusflow/pronews/internal/config"
	"github.com/deusflow/pronews/internal/dashboard"
	"github.com/deusflow/pronews/internal/logger"
)

func main() {
	root := &cobra.Command{
		Use:          "pronews",
		Short:        "pronews: trader news alert dashboard",
		Long:         "Pulls headlines from a news aggregator and RSS feeds, tags them by topic, sentiment and urgency, and shows the filtered list.",
		SilenceUsage: true,
	}

	root.AddCommand(
		serveCmd(),
		scanCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config and builds the app. Logs go to logW.
func setup(ctx context.Context, logW io.Writer) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.InitWithWriter(logW, cfg.Debug)
	return app.New(ctx, cfg)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the auto-refreshing web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx, os.Stdout)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(ctx)
		},
	}
}

func scanCmd() *cobra.Command {
	var categories []string
	var urgent bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one refresh pass and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			filter, err := dashboard.ParseFilter(a.Pipeline.Classifier().Taxonomy(), categories, urgent)
			if err != nil {
				return err
			}
			return app.WriteDisplay(cmd.OutOrStdout(), a.Pipeline.ComputeDisplay(ctx, filter))
		},
	}
	cmd.Flags().StringArrayVar(&categories, "category", nil, "category to include (repeatable; default all)")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "only urgent headlines")
	return cmd
}
