// Package cmd provides the CLI commands for pc-builder.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pc-builder/internal/config"
	"pc-builder/internal/logging"
)

var (
	cfgFile     string
	catalogFile string
	verbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pc-builder",
	Short: "Work with PC build configurations",
	Long: `pc-builder prices, validates, exports and imports PC build
configurations against a component catalog.

Examples:
  pc-builder price my-build.json --catalog catalog.json
  pc-builder validate my-build.json --catalog catalog.json
  pc-builder export --name "Gaming Rig" --set cpu=cpu-1 --set motherboard=mb-3`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pc-builder.json)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog data file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if catalogFile != "" {
		cfg.Catalog.DataFile = catalogFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pc-builder version 1.0.0")
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		fmt.Printf("catalog data file: %s\n", cfg.Catalog.DataFile)
		fmt.Printf("compatibility service: %s\n", orDefault(cfg.Compatibility.ServiceURL, "(built-in rules)"))
		fmt.Printf("database: %s\n", orDefault(cfg.Database.DSN, "(in-memory)"))
		return nil
	},
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
