// Package cmd - price command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pc-builder/core/build"
	"pc-builder/core/catalog"
	"pc-builder/core/pricing"
	"pc-builder/internal/config"
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price <build.json>",
	Short: "Price an exported build against the catalog",
	Long: `Read a portable build document and print a per-component price
breakdown plus the total. Items that no longer exist in the catalog are
reported and excluded from the total.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func runPrice(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading build file: %w", err)
	}
	sel, warnings, name, err := build.Import(data, cat)
	if err != nil {
		return err
	}

	if name != "" {
		fmt.Printf("Build: %s\n\n", name)
	}
	for _, c := range catalog.Categories {
		id := sel.Get(c)
		if id == "" {
			fmt.Printf("  %-13s -\n", c)
			continue
		}
		item, _ := cat.Lookup(id)
		fmt.Printf("  %-13s %-40s %10s\n", c, item.Name, item.Price.StringFixed(2))
	}
	for _, warning := range warnings {
		fmt.Printf("  ! %s: item %s no longer exists in the catalog\n", warning.Category, warning.ItemID)
	}

	totals := pricing.ComputeTotal(sel, cat)
	fmt.Printf("\n  Total: %s\n", totals.Price.StringFixed(2))
	if totals.PowerDraw > 0 {
		fmt.Printf("  Estimated power draw: %.0fW\n", totals.PowerDraw)
	}
	return nil
}

func loadCatalog() (*catalog.Static, error) {
	path := config.Get().Catalog.DataFile
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", path, err)
	}
	return cat, nil
}
