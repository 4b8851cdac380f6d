package model

import "github.com/shopspring/decimal"

// Collection names of the persisted store. Backups are flat arrays
// keyed by these names.
const (
	CollectionConfig   = "config"
	CollectionClienti  = "clienti"
	CollectionFatture  = "fatture"
	CollectionWorkLogs = "workLogs"
)

// Fattura is the durable invoice summary record, distinct from the
// transient Invoice parse model.
type Fattura struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero,omitempty"`
	ClienteID    string          `json:"clienteId"`
	ClienteNome  string          `json:"clienteNome"`
	Data         string          `json:"data"` // YYYY-MM-DD
	DataIncasso  string          `json:"dataIncasso,omitempty"`
	Importo      decimal.Decimal `json:"importo"`
	DuplicateKey string          `json:"duplicateKey,omitempty"`
}

// Key builds the canonical deduplication identity: numero-data-importo.
// Importo is serialized in the exact numeric form stored on the record;
// matching is exact, never fuzzy.
func (f Fattura) Key() string {
	return f.Numero + "-" + f.Data + "-" + f.Importo.String()
}

// Cliente is a billed counterparty, created on demand during import when
// no existing client matches by VAT number.
type Cliente struct {
	ID               string           `json:"id"`
	Nome             string           `json:"nome"`
	PIVA             string           `json:"piva,omitempty"`
	Email            string           `json:"email,omitempty"`
	BillingUnit      string           `json:"billingUnit,omitempty"` // "ore" or "giornata"
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	BillingStartDate string           `json:"billingStartDate,omitempty"` // YYYY-MM-DD
}

// WorkLog is one tracked unit of work against a client.
type WorkLog struct {
	ID        string           `json:"id"`
	ClienteID string           `json:"clienteId"`
	Data      string           `json:"data"` // YYYY-MM-DD
	Ore       string           `json:"ore,omitempty"` // legacy field, kept for old backups
	Tipo      string           `json:"tipo"`          // "ore" or "giornata"
	Quantita  *decimal.Decimal `json:"quantita,omitempty"`
	Note      string           `json:"note,omitempty"`
}

// Config is the issuer profile. Fields left empty here are candidates
// for auto-population from imported invoices.
type Config struct {
	ID               string           `json:"id"`
	Coefficiente     decimal.Decimal  `json:"coefficiente"`
	Aliquota         decimal.Decimal  `json:"aliquota"`
	AliquotaOverride *decimal.Decimal `json:"aliquotaOverride"`
	NomeAttivita     string           `json:"nomeAttivita,omitempty"`
	PartitaIVA       string           `json:"partitaIva,omitempty"`
	IBAN             string           `json:"iban,omitempty"`
	AnnoApertura     int              `json:"annoApertura"`
	CodiciAteco      []string         `json:"codiciAteco"`
	Emittente        Emittente        `json:"emittente"`
}

// Emittente holds the issuer identity fields printed on generated
// documents.
type Emittente struct {
	CodiceFiscale string `json:"codiceFiscale,omitempty"`
	Nome          string `json:"nome,omitempty"`
	Cognome       string `json:"cognome,omitempty"`
	Indirizzo     string `json:"indirizzo,omitempty"`
	NumeroCivico  string `json:"numeroCivico,omitempty"`
	CAP           string `json:"cap,omitempty"`
	Comune        string `json:"comune,omitempty"`
	Provincia     string `json:"provincia,omitempty"`
	Nazione       string `json:"nazione,omitempty"`
}

// FatturaSummary carries the handful of fields the list-import path
// needs: enough to build a duplicate key, resolve the client and show
// the record in a list, without the full line-item breakdown.
type FatturaSummary struct {
	Numero      string          `json:"numero,omitempty"`
	Importo     decimal.Decimal `json:"importo"`
	Data        string          `json:"data"` // YYYY-MM-DD
	DataIncasso string          `json:"dataIncasso,omitempty"`
	ClienteNome string          `json:"clienteNome,omitempty"`
	ClientePIVA string          `json:"clientePiva,omitempty"`
}

// ImportSummary reports the outcome of one batch import.
// Invariant: Total == Imported + Duplicates + Failed.
type ImportSummary struct {
	Total       int          `json:"total"`
	Imported    int          `json:"imported"`
	Duplicates  int          `json:"duplicates"`
	Failed      int          `json:"failed"`
	FailedFiles []FailedFile `json:"failedFiles"`
}

// FailedFile records one file the batch importer could not process.
type FailedFile struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}
