// Package profile derives issuer profile fields from invoices the user
// already issued, without ever touching fields they filled in by hand.
package profile

import (
	"strings"

	"github.com/MakhBeth/forfettAIro/internal/model"
	"github.com/MakhBeth/forfettAIro/internal/parser/fatturapa"
)

// ExtractedFields are the issuer (CedentePrestatore) fields pulled from
// one invoice XML. Denominazione is intentionally not extracted: for
// companies the user fills the business name manually.
type ExtractedFields struct {
	PartitaIVA    string
	CodiceFiscale string
	Nome          string
	Cognome       string
	Indirizzo     string
	NumeroCivico  string
	CAP           string
	Comune        string
	Provincia     string
	Nazione       string
	IBAN          string
}

// ConfigPatch holds only the profile fields that should be written.
// A nil patch means nothing to do.
type ConfigPatch struct {
	PartitaIVA *string
	IBAN       *string
	Emittente  map[string]string
}

// ExtractIssuerFields parses invoice XML and returns the issuer fields,
// or nil when the XML is malformed or has no issuer section. Parse
// failure is not an error here: auto-population is best effort.
//
// This reads the raw CedentePrestatore elements instead of the
// normalized Invoice model: the profile keeps Nome/Cognome and
// CodiceFiscale as separate fields, which the model folds away.
func ExtractIssuerFields(xmlContent []byte) *ExtractedFields {
	root, err := fatturapa.Load(xmlContent)
	if err != nil {
		return nil
	}

	cedente := root.FindFirst("CedentePrestatore")
	if cedente == nil {
		return nil
	}

	return &ExtractedFields{
		PartitaIVA:    cedente.TextAt("IdFiscaleIVA", "IdCodice"),
		CodiceFiscale: cedente.TextAt("CodiceFiscale"),
		Nome:          cedente.TextAt("Nome"),
		Cognome:       cedente.TextAt("Cognome"),
		Indirizzo:     cedente.TextAt("Sede", "Indirizzo"),
		NumeroCivico:  cedente.TextAt("Sede", "NumeroCivico"),
		CAP:           cedente.TextAt("Sede", "CAP"),
		Comune:        cedente.TextAt("Sede", "Comune"),
		Provincia:     cedente.TextAt("Sede", "Provincia"),
		Nazione:       cedente.TextAt("Sede", "Nazione"),
		IBAN:          root.TextAt("DettaglioPagamento", "IBAN"),
	}
}

// ComputeUpdates returns the patch that fills empty profile fields from
// extracted data, or nil when nothing needs updating. A field is
// written only when it is currently empty (or all whitespace) and the
// extracted value is non-empty; populated fields are never overwritten.
func ComputeUpdates(extracted *ExtractedFields, current model.Config) *ConfigPatch {
	if extracted == nil {
		return nil
	}

	patch := &ConfigPatch{Emittente: map[string]string{}}
	updated := false

	if isEmpty(current.PartitaIVA) && extracted.PartitaIVA != "" {
		v := strings.ToUpper(extracted.PartitaIVA)
		patch.PartitaIVA = &v
		updated = true
	}

	if isEmpty(current.IBAN) && extracted.IBAN != "" {
		v := normalizeIBAN(extracted.IBAN)
		patch.IBAN = &v
		updated = true
	}

	emittente := map[string]struct {
		current   string
		extracted string
		upper     bool
	}{
		"codiceFiscale": {current.Emittente.CodiceFiscale, extracted.CodiceFiscale, true},
		"nome":          {current.Emittente.Nome, extracted.Nome, false},
		"cognome":       {current.Emittente.Cognome, extracted.Cognome, true},
		"indirizzo":     {current.Emittente.Indirizzo, extracted.Indirizzo, false},
		"numeroCivico":  {current.Emittente.NumeroCivico, extracted.NumeroCivico, false},
		"cap":           {current.Emittente.CAP, extracted.CAP, false},
		"comune":        {current.Emittente.Comune, extracted.Comune, true},
		"provincia":     {current.Emittente.Provincia, extracted.Provincia, true},
		"nazione":       {current.Emittente.Nazione, extracted.Nazione, true},
	}
	for field, f := range emittente {
		if isEmpty(f.current) && f.extracted != "" {
			value := f.extracted
			if f.upper {
				value = strings.ToUpper(value)
			}
			patch.Emittente[field] = value
			updated = true
		}
	}

	if !updated {
		return nil
	}
	return patch
}

// Apply merges the patch into a copy of the config.
func (p *ConfigPatch) Apply(config model.Config) model.Config {
	if p == nil {
		return config
	}
	if p.PartitaIVA != nil {
		config.PartitaIVA = *p.PartitaIVA
	}
	if p.IBAN != nil {
		config.IBAN = *p.IBAN
	}
	for field, value := range p.Emittente {
		switch field {
		case "codiceFiscale":
			config.Emittente.CodiceFiscale = value
		case "nome":
			config.Emittente.Nome = value
		case "cognome":
			config.Emittente.Cognome = value
		case "indirizzo":
			config.Emittente.Indirizzo = value
		case "numeroCivico":
			config.Emittente.NumeroCivico = value
		case "cap":
			config.Emittente.CAP = value
		case "comune":
			config.Emittente.Comune = value
		case "provincia":
			config.Emittente.Provincia = value
		case "nazione":
			config.Emittente.Nazione = value
		}
	}
	return config
}

func isEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

func normalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}
