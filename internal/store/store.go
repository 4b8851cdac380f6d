// Package store persists the durable record collections. The engine is
// a single JSON file holding flat arrays keyed by collection name, the
// same shape the backup export/import exchanges.
package store

import "github.com/MakhBeth/forfettAIro/internal/model"

// Data is the full persisted dataset: one flat array per collection.
type Data struct {
	Config   []model.Config  `json:"config"`
	Clienti  []model.Cliente `json:"clienti"`
	Fatture  []model.Fattura `json:"fatture"`
	WorkLogs []model.WorkLog `json:"workLogs"`
}

// Store is the collection-keyed record store the import pipeline writes
// through. Implementations own write ordering; the pipeline itself
// never mutates persisted state directly.
type Store interface {
	// Config returns the issuer profile, falling back to the default
	// profile when none is stored yet.
	Config() (model.Config, error)
	PutConfig(config model.Config) error

	Clienti() ([]model.Cliente, error)
	AddClienti(clienti []model.Cliente) error

	Fatture() ([]model.Fattura, error)
	AddFatture(fatture []model.Fattura) error

	WorkLogs() ([]model.WorkLog, error)

	// Export returns the whole dataset for backup; Import replaces it.
	Export() (Data, error)
	Import(data Data) error
}
