package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MakhBeth/forfettAIro/internal/profile"
)

var profileDryRun bool

var profileCmd = &cobra.Command{
	Use:   "profile [file.xml]",
	Short: "Fill empty profile fields from one of your invoices",
	Long: `Extract the issuer data (CedentePrestatore) from an invoice you
issued and use it to fill the empty fields of the stored profile.
Fields you already filled in are never overwritten.

Examples:
  forfettairo profile IT01234567890_00001.xml
  forfettairo profile IT01234567890_00001.xml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().BoolVar(&profileDryRun, "dry-run", false, "Show the resulting profile without writing the store")
}

func runProfile(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	extracted := profile.ExtractIssuerFields(content)
	if extracted == nil {
		return fmt.Errorf("no issuer data found in %s", args[0])
	}

	st := openStore()
	current, err := st.Config()
	if err != nil {
		return err
	}

	patch := profile.ComputeUpdates(extracted, current)
	if patch == nil {
		fmt.Println("profile already complete, nothing to update")
		return nil
	}

	merged := patch.Apply(current)
	if !profileDryRun {
		if err := st.PutConfig(merged); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(merged)
}
