package cmd

import (
	"fmt"

	"github.com/boutique-lumiere/curator/internal/pgsync"
	"github.com/spf13/cobra"
)

func newPushCmd(a *app) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Publish the catalog to the storefront database",
		Long: `Upsert every product and registry image into Postgres in one transaction.
The connection string comes from DATABASE_URL or database_url in the config.`,
		Example: `  DATABASE_URL=postgres://shop@localhost/shop?sslmode=disable curator push --prune`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := pgsync.Open(cmd.Context(), a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pub.Close()

			res, err := pub.Publish(cmd.Context(), a.store().Load(), prune)
			if err != nil {
				return err
			}
			fmt.Printf("Published %d products and %d images", res.Products, res.Images)
			if prune {
				fmt.Printf(", pruned %d products", res.Pruned)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Delete database rows no longer in the catalog")
	return cmd
}
