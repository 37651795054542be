package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/boutique-lumiere/curator/internal/config"
	"github.com/boutique-lumiere/curator/internal/models"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report catalog consistency without changing it",
		Long: `Report duplicate ids, products over the cap, images referenced but not
registered, registry entries no product uses, and products that fail the
name rules.`,
		Example: `  # Print the report
  curator check

  # Fail with a non-zero status when anything is found (for CI)
  curator check --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := a.classifier(config.Source{})
			report := a.merger().Check(a.store().Load(), func(p models.ProductRecord) string {
				name := p.Name
				if name == "" {
					name = p.NameFR
				}
				return classifier.Reject(name, p.Slug)
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Products\t%d / %d\n", report.Products, report.MaxProducts)
			fmt.Fprintf(w, "Images\t%d\n", report.Images)
			fmt.Fprintf(w, "Over cap\t%d\n", report.OverCap())
			fmt.Fprintf(w, "Duplicate product ids\t%s\n", list(report.DuplicateIDs))
			fmt.Fprintf(w, "Duplicate image ids\t%s\n", list(report.DuplicateImageIDs))
			fmt.Fprintf(w, "Images without registry entry\t%s\n", list(report.Dangling))
			fmt.Fprintf(w, "Unreferenced images\t%s\n", list(report.Orphans))
			fmt.Fprintf(w, "Invalid products\t%d\n", len(report.Invalid))
			for _, issue := range report.Invalid {
				fmt.Fprintf(w, "  %s\t%s\n", issue.ID, issue.Reason)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if strict && !report.OK() {
				return fmt.Errorf("catalog check found problems")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any problem is found")
	return cmd
}

func list(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	const shown = 10
	if len(ids) > shown {
		return fmt.Sprintf("%d (%s, ...)", len(ids), strings.Join(ids[:shown], ", "))
	}
	return fmt.Sprintf("%d (%s)", len(ids), strings.Join(ids, ", "))
}
