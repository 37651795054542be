package cmd

import (
	"log/slog"
	"os"

	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// app carries the loaded configuration into every subcommand
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "curator",
		Short: "Product catalog curation for the storefront",
		Long: `Curator imports partner product feeds into the storefront catalog.

Each record is classified into the category taxonomy, normalized into the
trilingual product schema, and merged into new_products.json and the image
registry under a fixed catalog size cap.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.Debug("Configuration loaded", "products", cfg.ProductsFile, "images", cfg.ImagesFile, "max", cfg.MaxProducts)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default curator.yaml if present)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newScrapeCmd(a))
	cmd.AddCommand(newCleanCmd(a))
	cmd.AddCommand(newLimitCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newPushCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}
