// Package main - Entry point for the pc-builder CLI
package main

import (
	"os"

	"pc-builder/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
