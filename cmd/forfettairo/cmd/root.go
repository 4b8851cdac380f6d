package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MakhBeth/forfettAIro/internal/config"
	"github.com/MakhBeth/forfettAIro/internal/logger"
	"github.com/MakhBeth/forfettAIro/internal/store"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	dataFile     string

	runtimeCfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "forfettairo",
	Short: "Local-first bookkeeping for regime forfettario invoicing",
	Long: `forfettAIro ingests FatturaPA electronic invoices into a local,
file-backed ledger of fatture and clienti.

Supports:
  - Parsing FatturaPA XML into a normalized invoice model
  - Batch import of XML files and zip archives with duplicate suppression
  - Auto-populating the issuer profile from already-issued invoices

Examples:
  # Parse a single invoice
  forfettairo parse IT01234567890_00001.xml

  # Import a folder of invoices, skipping duplicates
  forfettairo import fatture/

  # Import everything inside a zip export from the exchange system
  forfettairo import fatture-2024.zip

  # Fill empty profile fields from one of your own invoices
  forfettairo profile IT01234567890_00001.xml`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "Store file path (env: FORFETTAIRO_DATA)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	runtimeCfg = config.Load()
	if dataFile != "" {
		runtimeCfg.DataFile = dataFile
	}
	if verbose {
		runtimeCfg.LogLevel = "debug"
	}

	if err := logger.Setup(logger.LogConfig{
		Level:  runtimeCfg.LogLevel,
		Format: runtimeCfg.LogFormat,
		Output: "stderr",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
	}
}

func openStore() store.Store {
	return store.NewFileStore(runtimeCfg.DataFile)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
