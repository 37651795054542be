package cmd

import (
	"fmt"

	"github.com/boutique-lumiere/curator/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "export <file.parquet>",
		Short:   "Export the catalog as a Parquet file",
		Example: `  curator export out/catalog.parquet`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := export.WriteParquet(args[0], a.store().Load())
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d products to %s\n", n, args[0])
			return nil
		},
	}
}
