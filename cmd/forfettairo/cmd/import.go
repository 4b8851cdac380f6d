package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MakhBeth/forfettAIro/internal/importer"
	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import invoices into the local store",
	Long: `Import FatturaPA XML files and zip archives into the local store.

Each file contributes one fattura record; the client is resolved by VAT
number and created on the fly when unknown. Files whose number, date
and amount match an already-stored record (or an earlier file of the
same run) are skipped as duplicates. A file that fails to parse is
reported and skipped without aborting the batch.

Examples:
  forfettairo import invoice.xml
  forfettairo import fatture/ --dry-run
  forfettairo import fatture-2024.zip -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would be imported without writing the store")
}

func runImport(cmd *cobra.Command, args []string) error {
	paths, err := collectFiles(args, isImportFile)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files found to import")
	}

	var files []importer.File
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, importer.File{Name: path, Content: content})
	}

	files, err = importer.ExpandArchives(files)
	if err != nil {
		return err
	}

	printVerbose("Importing %d files\n", len(files))

	st := openStore()
	existingFatture, err := st.Fatture()
	if err != nil {
		return err
	}
	existingClienti, err := st.Clienti()
	if err != nil {
		return err
	}

	coordinator := importer.New()
	result := coordinator.ImportBatch(context.Background(), files, existingFatture, existingClienti, fatturapa.ExtractSummary)

	if !importDryRun {
		if err := st.AddClienti(result.NewClienti); err != nil {
			return err
		}
		if err := st.AddFatture(result.NewFatture); err != nil {
			return err
		}
	}

	return outputImportResult(result)
}

func outputImportResult(result *importer.Result) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "table":
		summary := result.Summary
		fmt.Printf("total %d, imported %d, duplicates %d, failed %d\n",
			summary.Total, summary.Imported, summary.Duplicates, summary.Failed)

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NUMBER\tDATE\tCLIENT\tAMOUNT")
		fmt.Fprintln(tw, "------\t----\t------\t------")
		for _, f := range result.NewFatture {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Numero, f.Data, f.ClienteNome, f.Importo.String())
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		for _, failed := range summary.FailedFiles {
			fmt.Printf("failed: %s: %s\n", failed.Filename, failed.Error)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
