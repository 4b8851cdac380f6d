package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MakhBeth/forfettAIro/internal/model"
	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
)

var parseOutputFile string

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse FatturaPA XML files",
	Long: `Parse one or more FatturaPA XML files into the normalized invoice
model and print the result.

Examples:
  forfettairo parse invoice.xml
  forfettairo parse *.xml -o parsed.json
  forfettairo parse fatture/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseOutputFile, "output", "o", "", "Output file (default: stdout)")
}

// ParseResult holds the result of parsing a single file
type ParseResult struct {
	File     string         `json:"file"`
	Invoice  *model.Invoice `json:"invoice,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isXMLFile)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to parse")
	}

	printVerbose("Found %d files to parse\n", len(files))

	parser := fatturapa.NewParser()
	results := make([]*ParseResult, 0, len(files))
	for _, file := range files {
		result := &ParseResult{File: file}

		content, err := os.ReadFile(file)
		if err != nil {
			result.Error = fmt.Sprintf("failed to read file: %v", err)
			results = append(results, result)
			continue
		}

		invoice, err := parser.ParseBytes(content)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Invoice = invoice
		result.Warnings = fatturapa.Validate(invoice)
		results = append(results, result)
	}

	return outputParseResults(results)
}

func collectFiles(args []string, supported func(string) bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && supported(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && supported(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isXMLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

func isImportFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xml" || ext == ".zip"
}

func outputParseResults(results []*ParseResult) error {
	writer := os.Stdout
	if parseOutputFile != "" {
		f, err := os.Create(parseOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "table":
		tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tNUMBER\tDATE\tCLIENT\tTOTAL\tWARNINGS")
		fmt.Fprintln(tw, "----\t------\t----\t------\t-----\t--------")
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\n", r.File, r.Error)
				continue
			}
			first := r.Invoice.Installments[0]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
				r.File,
				first.Number,
				first.IssueDate.Format("2006-01-02"),
				r.Invoice.Invoicee.Name,
				first.TotalAmount.String(),
				len(r.Warnings),
			)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
