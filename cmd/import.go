package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/boutique-lumiere/curator/internal/importer"
	"github.com/boutique-lumiere/curator/internal/sources"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var replace string
	var category string
	var imageHint string
	var reportDir string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import products from a JSON, JSONL or Parquet feed",
		Long: `Import products from a feed file into the catalog.

In append mode the batch is trimmed to the room left under the size cap and
the command refuses to run when the catalog is already full. With --replace
the products of one subcategory are removed first and only feed records that
belong in it are imported.`,
		Example: `  # Append a JSON feed
  curator import products.json

  # Replace every men's accessory with the ones in a feed
  curator import accessoires.json --replace accessoires-homme

  # Import a Parquet feed and keep a YAML run report
  curator import feed.parquet --report reports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("feed file not found: %s", path)
			}

			records, err := sources.NewLoader(path).Load()
			if err != nil {
				return err
			}
			fmt.Printf("%d products found in %s\n", len(records), path)

			src := config.Source{Name: "import", Subcategory: replace}
			if replace != "" {
				if owner, ok := a.cfg.ReplaceSource(replace); ok {
					src.Templates = owner.Templates
					src.ImageHint = owner.ImageHint
					src.FemmeKeywords = owner.FemmeKeywords
					src.HommeKeywords = owner.HommeKeywords
				}
			}
			if imageHint != "" {
				src.ImageHint = imageHint
			}
			im, err := a.importer(src)
			if err != nil {
				return err
			}

			sum, err := im.Run(cmd.Context(), records, importer.Options{
				Source:      src.Name,
				Subcategory: replace,
				Category:    category,
			})
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

	cmd.Flags().StringVar(&replace, "replace", "", "Replace every product of this subcategory (e.g. accessoires-homme)")
	cmd.Flags().StringVar(&category, "category", "", "Raw category written onto every record before classification")
	cmd.Flags().StringVar(&imageHint, "image-hint", "", "Image hint for new registry entries")
	cmd.Flags().StringVar(&reportDir, "report", "", "Directory for a YAML run report")

	return cmd
}
