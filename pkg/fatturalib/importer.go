package fatturalib

import (
	"context"

	"github.com/MakhBeth/forfettAIro/internal/importer"
	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
	"github.com/MakhBeth/forfettAIro/internal/store"
)

// File is one uploaded file submitted to an import
type File = importer.File

// ImportResult is the outcome of a batch import
type ImportResult = importer.Result

// Importer bundles the parser, duplicate detection and persistence
// into one entry point for batch invoice ingestion
type Importer struct {
	store       store.Store
	coordinator *importer.Coordinator
}

// NewImporter creates an Importer backed by the given store
func NewImporter(st store.Store) *Importer {
	return &Importer{
		store:       st,
		coordinator: importer.New(),
	}
}

// ImportFiles expands zip archives, imports every XML file against the
// stored records and persists the new ones. Files that fail to parse
// are reported in the result without aborting the batch.
func (i *Importer) ImportFiles(ctx context.Context, files []File) (*ImportResult, error) {
	expanded, err := importer.ExpandArchives(files)
	if err != nil {
		return nil, err
	}

	existingFatture, err := i.store.Fatture()
	if err != nil {
		return nil, err
	}
	existingClienti, err := i.store.Clienti()
	if err != nil {
		return nil, err
	}

	result := i.coordinator.ImportBatch(ctx, expanded, existingFatture, existingClienti, fatturapa.ExtractSummary)

	if err := i.store.AddClienti(result.NewClienti); err != nil {
		return nil, err
	}
	if err := i.store.AddFatture(result.NewFatture); err != nil {
		return nil, err
	}
	return result, nil
}
