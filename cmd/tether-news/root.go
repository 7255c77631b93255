package main

import (
	"github.com/spf13/cobra"

	"tether-news-scraper/internal/config"
	"tether-news-scraper/internal/observability"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tether-news",
	Short: "Scrape the Tether news page into an S3 snapshot",
	Long: `tether-news fetches the Tether news listing, extracts the latest articles
and publishes them as a JSON snapshot to S3 with optional GitHub mirrors,
Discord notifications and a SQL Server archive.

Without --config the configuration comes from environment variables only.

Example usage:
  tether-news run                          # One pipeline run
  tether-news serve --config config.yaml   # Run on the configured schedule
  tether-news inspect --file page.html     # Show what would be extracted`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute запускает CLI и закрывает логгер после команды
func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: environment only)")
}

func initConfig() error {
	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	logger = observability.NewLogger(cfg.Observability.LogPath, cfg.Observability.LogLevel)
	return nil
}
