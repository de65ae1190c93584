package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stocksense",
	Short: "A CLI for managing the StockSense backend services",
	Long:  `StockSense is the backend for a stock-analysis dashboard: it parses analysis commands, dispatches them to external automation, and tracks portfolios.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
