package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/boutique-lumiere/curator/internal/importer"
	"github.com/spf13/cobra"
)

func newScrapeCmd(a *app) *cobra.Command {
	var reportDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "scrape <source>",
		Short: "Scrape a partner storefront and import its products",
		Long: `Scrape a configured partner storefront and import the result.

The Shopify products.json endpoints are tried first; when none answers the
listing pages are crawled and product pages parsed. The source's merge mode,
templates and image hint come from the configuration.`,
		Example: `  # Import the 24s catalog
  curator scrape 24s

  # Replace men's accessories from Faguo, at most 50 products
  curator scrape faguo --limit 50 --report reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.cfg.Source(args[0])
			if err != nil {
				return fmt.Errorf("%w (configured: %s)", err, strings.Join(a.cfg.SourceNames(), ", "))
			}
			if limit > 0 {
				src.Limit = limit
			}

			opts := importer.Options{Source: src.Name, Category: src.Category}
			if src.Mode == config.ModeReplace {
				opts.Subcategory = src.Subcategory
			}

			im, err := a.importer(src)
			if err != nil {
				return err
			}

			if opts.Subcategory == "" {
				if room := im.Merger.Remaining(im.Store.Load()); room <= 0 {
					fmt.Printf("Catalog already holds %d products, limit reached. Nothing scraped.\n", im.Merger.MaxProducts-room)
					return nil
				} else if src.Limit <= 0 || room < src.Limit {
					src.Limit = room
				}
			}

			slog.Info("Scraping source", "source", src.Name, "url", src.BaseURL, "limit", src.Limit)
			records, err := a.scraperFor(src).Scrape(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to scrape %s: %w", src.Name, err)
			}
			fmt.Printf("%d products scraped from %s\n", len(records), src.BaseURL)

			sum, err := im.Run(cmd.Context(), records, opts)
			if errors.Is(err, importer.ErrLimitReached) {
				fmt.Printf("Catalog already holds %d products, limit reached. Nothing imported.\n", sum.Existing)
				return nil
			}
			if err != nil {
				return err
			}
			return finish(sum, reportDir)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum products to scrape (defaults to the source limit)")
	cmd.Flags().StringVar(&reportDir, "report", "", "Directory for a YAML run report")

	return cmd
}
