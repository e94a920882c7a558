// Package main provides the entry point for the openformat fixture generator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "openformat",
	Short: "Open Format 1.31 test fixture generator",
	Long: `openformat writes Israel Tax Authority Open Format 1.31 fixture files (INI.TXT and BKMVDATA.TXT)
in Windows-1255, ISO-8859-8 and CP862, each with a zipped copy of the data file.

Use it to produce test inputs for software that consumes or validates the format.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
