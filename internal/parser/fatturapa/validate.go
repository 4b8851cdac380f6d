package fatturapa

import (
	"fmt"

	"github.com/MakhBeth/forfettAIro/internal/model"
)

// Validate checks that an Invoice carries the minimum data downstream
// consumers need. Problems are returned as human-readable strings;
// nothing here is fatal, callers decide whether to block.
func Validate(invoice *model.Invoice) []string {
	var problems []string

	if invoice.Invoicer.Name == "" && invoice.Invoicer.VAT == "" {
		problems = append(problems, "missing invoicer data")
	}

	if invoice.Invoicee.Name == "" && invoice.Invoicee.VAT == "" {
		problems = append(problems, "missing invoicee data")
	}

	if len(invoice.Installments) == 0 {
		problems = append(problems, "no invoice documents found in file")
	}

	for i, inst := range invoice.Installments {
		if inst.Number == "" {
			problems = append(problems, fmt.Sprintf("document %d: missing number", i+1))
		}
		if len(inst.Lines) == 0 {
			problems = append(problems, fmt.Sprintf("document %d: no lines", i+1))
		}
	}

	return problems
}
