// Package importer coordinates batch ingestion of invoice files:
// per-file extraction, duplicate suppression and on-demand client
// creation. It never touches the store itself; callers persist the
// returned records.
package importer

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MakhBeth/forfettAIro/internal/logger"
	"github.com/MakhBeth/forfettAIro/internal/model"
)

// File is one uploaded file to import.
type File struct {
	Name    string
	Content []byte
}

// ExtractFunc turns one file into the summary fields the importer
// needs. Implementations return *model.ExtractionError-compatible
// errors on unreadable input.
type ExtractFunc func(name string, content []byte) (*model.FatturaSummary, error)

// Result is the outcome of one batch: the summary counters plus the
// records the caller should persist.
type Result struct {
	Summary    model.ImportSummary `json:"summary"`
	NewFatture []model.Fattura     `json:"newFatture"`
	NewClienti []model.Cliente     `json:"newClienti"`
}

// Coordinator runs batch imports.
type Coordinator struct {
	newID func() string
	log   zerolog.Logger
}

// New creates a batch import coordinator
func New() *Coordinator {
	return &Coordinator{
		newID: uuid.NewString,
		log:   logger.WithComponent("importer"),
	}
}

// ImportBatch processes files strictly in input order; when duplicates
// exist within the batch the first occurrence wins. A file that fails
// extraction is recorded and skipped, never aborting the batch, so the
// summary always satisfies Total == Imported + Duplicates + Failed.
func (c *Coordinator) ImportBatch(
	ctx context.Context,
	files []File,
	existingFatture []model.Fattura,
	existingClienti []model.Cliente,
	extract ExtractFunc,
) *Result {
	result := &Result{
		Summary: model.ImportSummary{
			Total:       len(files),
			FailedFiles: []model.FailedFile{},
		},
		NewFatture: []model.Fattura{},
		NewClienti: []model.Cliente{},
	}

	seen := make(map[string]struct{}, len(existingFatture))
	for _, f := range existingFatture {
		if f.DuplicateKey != "" {
			seen[f.DuplicateKey] = struct{}{}
		}
	}

	for _, file := range files {
		summary, err := extract(file.Name, file.Content)
		if err != nil {
			c.log.Debug().Str("file", file.Name).Err(err).Msg("extraction failed")
			result.Summary.Failed++
			result.Summary.FailedFiles = append(result.Summary.FailedFiles, model.FailedFile{
				Filename: file.Name,
				Error:    err.Error(),
			})
			continue
		}

		fattura := model.Fattura{
			ID:          c.newID(),
			Numero:      summary.Numero,
			ClienteNome: summary.ClienteNome,
			Data:        summary.Data,
			DataIncasso: summary.DataIncasso,
			Importo:     summary.Importo,
		}
		fattura.DuplicateKey = fattura.Key()

		if _, dup := seen[fattura.DuplicateKey]; dup {
			c.log.Debug().Str("file", file.Name).Str("key", fattura.DuplicateKey).Msg("duplicate skipped")
			result.Summary.Duplicates++
			continue
		}

		fattura.ClienteID = c.resolveCliente(summary, existingClienti, result)

		seen[fattura.DuplicateKey] = struct{}{}
		result.NewFatture = append(result.NewFatture, fattura)
		result.Summary.Imported++
	}

	c.log.Info().
		Int("total", result.Summary.Total).
		Int("imported", result.Summary.Imported).
		Int("duplicates", result.Summary.Duplicates).
		Int("failed", result.Summary.Failed).
		Msg("batch import complete")

	return result
}

// resolveCliente matches by VAT number against existing clients plus
// clients created earlier in this batch, then by exact name among the
// batch-created ones (so a counterparty without a VAT code is minted
// once per batch, not once per file). With no match and a usable name,
// a new Cliente is created; with no name either, the invoice stays
// unassigned.
func (c *Coordinator) resolveCliente(summary *model.FatturaSummary, existing []model.Cliente, result *Result) string {
	if summary.ClientePIVA != "" {
		for _, cl := range existing {
			if cl.PIVA == summary.ClientePIVA {
				return cl.ID
			}
		}
		for _, cl := range result.NewClienti {
			if cl.PIVA == summary.ClientePIVA {
				return cl.ID
			}
		}
	}

	if summary.ClienteNome == "" {
		return ""
	}

	if summary.ClientePIVA == "" {
		for _, cl := range result.NewClienti {
			if cl.Nome == summary.ClienteNome && cl.PIVA == "" {
				return cl.ID
			}
		}
	}

	cliente := model.Cliente{
		ID:   c.newID(),
		Nome: summary.ClienteNome,
		PIVA: summary.ClientePIVA,
	}
	result.NewClienti = append(result.NewClienti, cliente)
	c.log.Debug().Str("nome", cliente.Nome).Str("piva", cliente.PIVA).Msg("new client created")
	return cliente.ID
}
