package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate FatturaPA XML files",
	Long: `Check that invoice files parse and carry the minimum data needed
downstream (issuer and client identity, document number, at least one
line). Problems are reported per file; the command fails when any file
has problems.

Examples:
  forfettairo validate invoice.xml
  forfettairo validate fatture/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isXMLFile)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	parser := fatturapa.NewParser()
	invalid := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("%s: failed to read: %v\n", file, err)
			invalid++
			continue
		}

		invoice, err := parser.ParseBytes(content)
		if err != nil {
			fmt.Printf("%s: %v\n", file, err)
			invalid++
			continue
		}

		problems := fatturapa.Validate(invoice)
		if len(problems) == 0 {
			printVerbose("%s: ok\n", file)
			continue
		}

		invalid++
		for _, problem := range problems {
			fmt.Printf("%s: %s\n", file, problem)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files have problems", invalid, len(files))
	}
	fmt.Printf("%d files ok\n", len(files))
	return nil
}
