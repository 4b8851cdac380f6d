package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutputFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the local store as a backup JSON",
	Long: `Write the whole store (config, clienti, fatture, workLogs) as one
JSON document, the same shape the web app exchanges as a backup.

Examples:
  forfettairo export
  forfettairo export -o backup.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutputFile, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := openStore().Export()
	if err != nil {
		return err
	}

	writer := os.Stdout
	if exportOutputFile != "" {
		f, err := os.Create(exportOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
