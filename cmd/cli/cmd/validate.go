// Package cmd - validate command
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pc-builder/core/build"
	"pc-builder/core/compat"
	"pc-builder/core/compat/rules"
	"pc-builder/internal/config"
)

var serviceURL string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <build.json>",
	Short: "Check an exported build for component compatibility",
	Long: `Read a portable build document and evaluate the cross-category
compatibility rules. By default the built-in rule set runs locally;
pass --service to call a remote validation endpoint instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&serviceURL, "service", "", "remote validation service URL")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading build file: %w", err)
	}
	sel, warnings, _, err := build.Import(data, cat)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		fmt.Printf("! %s: item %s no longer exists in the catalog\n", warning.Category, warning.ItemID)
	}

	var validator compat.Validator
	if serviceURL != "" {
		timeout := time.Duration(config.Get().Compatibility.TimeoutSeconds) * time.Second
		validator = compat.NewServiceValidator(serviceURL, timeout)
	} else {
		validator = rules.NewEngine(cat)
	}

	verdict, err := validator.Validate(context.Background(), sel)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	switch verdict.Status {
	case compat.StatusCompatible:
		fmt.Println("All selected components are compatible.")
	case compat.StatusIncompatible:
		fmt.Println("Compatibility problems found:")
		for _, e := range verdict.Errors {
			fmt.Printf("  ✗ %s\n", e)
		}
	}
	for _, w := range verdict.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
	if verdict.HasTotals {
		fmt.Printf("Total price: %s, estimated draw: %.0fW\n",
			verdict.TotalPrice.StringFixed(2), verdict.TotalWattage)
	}
	if verdict.Status == compat.StatusIncompatible {
		os.Exit(1)
	}
	return nil
}
