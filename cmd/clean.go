package cmd

import (
	"fmt"
	"log/slog"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/spf13/cobra"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove invalid products and orphaned images",
		Long: `Remove products whose name is navigation text, noise or too short, then drop
registry images no remaining product references.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := a.classifier(config.Source{})
			res, err := catalog.Clean(a.store(), func(p models.ProductRecord) bool {
				name := p.Name
				if name == "" {
					name = p.NameFR
				}
				return classifier.Valid(name, p.Slug)
			})
			if err != nil {
				return err
			}
			if !res.Found {
				fmt.Printf("No product file at %s, nothing to clean.\n", a.cfg.ProductsFile)
				return nil
			}

			for _, p := range res.Removed {
				slog.Debug("Removed invalid product", "id", p.ID, "name", p.Name)
			}
			fmt.Printf("\nClean complete!\n")
			fmt.Printf("  Invalid products removed: %d\n", len(res.Removed))
			fmt.Printf("  Orphan images removed: %d\n", res.ImagesRemoved)
			fmt.Printf("  Products remaining: %d\n", res.Remaining)
			return nil
		},
	}
}
