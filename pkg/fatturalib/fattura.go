// Package fatturalib provides a public API for ingesting FatturaPA
// electronic invoices.
//
// This package exposes the core types for parsing invoice XML,
// batch-importing files with duplicate suppression, and deriving an
// issuer profile from already-issued invoices.
//
// Example usage:
//
//	invoice, err := fatturalib.ParseXML(ctx, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(invoice.Installments[0].TotalAmount)
package fatturalib

import (
	"context"
	"io"

	"github.com/MakhBeth/forfettAIro/internal/model"
	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
	"github.com/MakhBeth/forfettAIro/internal/profile"
)

// Re-export core types for public API
type (
	Invoice     = model.Invoice
	Company     = model.Company
	Installment = model.Installment
	Line        = model.Line
	TaxSummary  = model.TaxSummary
	Payment     = model.Payment

	Fattura        = model.Fattura
	Cliente        = model.Cliente
	FatturaSummary = model.FatturaSummary
	ImportSummary  = model.ImportSummary
	Config         = model.Config
)

// Re-export error types
type (
	ParseError      = model.ParseError
	ValidationError = model.ValidationError
	ExtractionError = model.ExtractionError
)

// ParseXML parses FatturaPA XML content into an Invoice
func ParseXML(ctx context.Context, r io.Reader) (*Invoice, error) {
	return fatturapa.NewParser().Parse(ctx, r)
}

// Validate returns the list of non-fatal problems of an invoice
func Validate(invoice *Invoice) []string {
	return fatturapa.Validate(invoice)
}

// ExtractSummary pulls the list-display fields from one invoice file
func ExtractSummary(filename string, content []byte) (*FatturaSummary, error) {
	return fatturapa.ExtractSummary(filename, content)
}

// ExtractIssuerFields reads the issuer data from invoice XML for
// profile auto-population, returning nil on unreadable input
func ExtractIssuerFields(content []byte) *profile.ExtractedFields {
	return profile.ExtractIssuerFields(content)
}

// ComputeProfileUpdates returns the fill-only-empty patch for a
// profile, or nil when nothing needs updating
func ComputeProfileUpdates(extracted *profile.ExtractedFields, current Config) *profile.ConfigPatch {
	return profile.ComputeUpdates(extracted, current)
}
