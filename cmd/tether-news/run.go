package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tether-news-scraper/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once",
	Long: `Prune old notifications, run the scraping pipeline once and print the
handler response. Exits non-zero when the run fails.`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, cancel := app.GracefulShutdown(cmd.Context(), logger)
	defer cancel()

	svc, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeService(svc)

	resp := invoke(ctx, svc)
	fmt.Fprintln(cmd.OutOrStdout(), resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("run failed with status %d", resp.StatusCode)
	}
	return nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.Warn("Failed to close service", "error", err.Error())
	}
}

// invoke вызывает обработчик с новым request id
func invoke(ctx context.Context, svc *app.Service) app.Response {
	return svc.Handler.Handle(ctx, uuid.NewString())
}
