package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tether-news-scraper/internal/app"
	"tether-news-scraper/internal/fetcher"
	"tether-news-scraper/internal/normalize"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show selector detection and extracted articles without publishing",
	Long: `Fetch the source page (or read a saved copy) and print the resolved
selectors, diagnostic pattern counts and the articles that would be
published. Nothing is written anywhere.

Examples:
  tether-news inspect
  tether-news inspect --file saved-news.html`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("file", "", "read markup from a local file instead of fetching")
}

func runInspect(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	var markup string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		markup = string(data)
	} else {
		resp, err := fetcher.NewFetcher(cfg, logger).Fetch(cmd.Context(), cfg.Source.URL)
		if err != nil {
			return err
		}
		markup = string(resp.Body)
	}

	scr, err := app.NewScraper(cfg)
	if err != nil {
		return err
	}

	listing, err := scr.ParseListing(markup, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := listing.Resolved
	fmt.Fprintf(out, "Container: %s\n", r.Article)
	fmt.Fprintf(out, "Title: %s  Content: %s  Image: %s[%s]  Link: %s[%s]\n\n",
		r.Title, r.Content, r.Image, r.ImageAttr, r.Link, r.LinkAttr)

	fmt.Fprintln(out, "Patterns:")
	for _, p := range listing.Patterns {
		fmt.Fprintf(out, "  %-20s %d\n", p.Pattern, p.Count)
	}

	preview := normalize.NewNormalizer(cfg.NormalizeOptions())
	fmt.Fprintf(out, "\nArticles (%d):\n", len(listing.Articles))
	for i, a := range listing.Articles {
		fmt.Fprintf(out, "[%d] %s\n", i+1, a.Title)
		fmt.Fprintf(out, "    URL: %s\n", a.URL)
		fmt.Fprintf(out, "    Image: %s\n", a.ImageURL)
		fmt.Fprintf(out, "    Date: %s\n", a.Date)
		fmt.Fprintf(out, "    %s\n", preview.TruncatePreview(a.Content))
	}

	return nil
}
