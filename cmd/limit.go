package cmd

import (
	"fmt"

	"github.com/boutique-lumiere/curator/internal/catalog"
	"github.com/spf13/cobra"
)

func newLimitCmd(a *app) *cobra.Command {
	var maxProducts int

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Truncate the catalog to the size cap",
		Long: `Keep the first products up to the size cap and drop registry images that
only the removed products referenced.`,
		Example: `  curator limit
  curator limit --max 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.merger()
			if maxProducts > 0 {
				m = catalog.NewMerger(maxProducts)
			}

			res, err := m.Limit(a.store())
			if err != nil {
				return err
			}
			if !res.Found {
				fmt.Printf("No product file at %s: 0 existing products.\n", a.cfg.ProductsFile)
				return nil
			}
			if res.Before == res.After {
				fmt.Printf("%d products, within the limit of %d.\n", res.Before, m.MaxProducts)
				return nil
			}

			fmt.Printf("\nLimit applied!\n")
			fmt.Printf("  Products removed: %d\n", res.Before-res.After)
			fmt.Printf("  Orphan images removed: %d\n", res.ImagesRemoved)
			fmt.Printf("  Products remaining: %d\n", res.After)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxProducts, "max", 0, "Cap to apply (defaults to max_products)")
	return cmd
}
