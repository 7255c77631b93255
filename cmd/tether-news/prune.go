package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tether-news-scraper/internal/app"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old bot messages from the notification channel",
	Long: `Delete bot messages older than discord.delete_after_days from the
configured channel without running the pipeline.`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx, cancel := app.GracefulShutdown(cmd.Context(), logger)
	defer cancel()

	pruner, reason, err := app.NewPruner(cfg, logger)
	if err != nil {
		return err
	}
	if pruner == nil {
		return fmt.Errorf("prune unavailable: %s", reason)
	}

	deleted, res := pruner.Prune(ctx)
	res.Log(logger, "prune", "deleted", deleted)
	if res.IsFailed() {
		return res.Err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d messages\n", deleted)
	return nil
}
