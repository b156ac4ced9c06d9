// Package cmd - export command
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pc-builder/core/build"
	"pc-builder/core/catalog"
	"pc-builder/core/selection"
)

var (
	exportName   string
	exportOutput string
	exportSets   []string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a portable build document from --set selections",
	Long: `Assemble a selection from --set category=item-id flags and write
it in the portable export format.

Examples:
  pc-builder export --name "Gaming Rig" --set cpu=cpu-1 --set motherboard=mb-3 -o rig.json
  pc-builder export --set processor=cpu-2`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "My PC Build", "build name")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringArrayVar(&exportSets, "set", nil, "category=item-id selection (repeatable)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	sel := selection.New()
	for _, set := range exportSets {
		key, id, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected category=item-id", set)
		}
		c, known := catalog.ParseCategory(key)
		if !known {
			return fmt.Errorf("unknown category %q", key)
		}
		if _, found := cat.Lookup(id); !found {
			return fmt.Errorf("item %s not found in the catalog", id)
		}
		sel[c] = id
	}

	data, err := build.Export(exportName, sel, cat)
	if err != nil {
		return err
	}
	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	fmt.Printf("Exported %d component(s) to %s\n", sel.Count(), exportOutput)
	return nil
}
