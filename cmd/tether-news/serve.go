package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tether-news-scraper/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline on the configured schedule",
	Long: `Run the pipeline according to scheduler.mode: once for "oneshot",
or immediately and then every scheduler.interval_s seconds for "interval"
until SIGINT or SIGTERM.

Examples:
  tether-news serve --config config.yaml
  tether-news serve --interval 1h          # Override the configured interval`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Duration("interval", 0, "run interval, overrides scheduler settings")
}

func runServe(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 && cfg.Scheduler.Mode == "interval" {
		interval = cfg.GetSchedulerInterval()
	}

	ctx, cancel := app.GracefulShutdown(cmd.Context(), logger)
	defer cancel()

	svc, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeService(svc)

	if interval <= 0 {
		resp := invoke(ctx, svc)
		logger.Info("Oneshot run finished", "status", resp.StatusCode)
		return nil
	}

	logger.Info("Scheduler started", "interval", interval.String())
	app.RunEvery(ctx, interval, logger, func(ctx context.Context) {
		started := time.Now()
		resp := invoke(ctx, svc)
		logger.Info("Scheduled run finished",
			"status", resp.StatusCode,
			"duration", time.Since(started).String(),
		)
	})
	return nil
}
