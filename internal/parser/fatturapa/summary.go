package fatturapa

import (
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	dec "github.com/MakhBeth/forfettAIro/internal/decimal"
	"github.com/MakhBeth/forfettAIro/internal/model"
)

// ExtractSummary is the light extractor behind the list-import paths.
// It pulls only the fields needed for duplicate-key construction and
// list display, applying the same fallback chains as the full parser so
// both paths produce identical keys for the same document.
func ExtractSummary(filename string, content []byte) (*model.FatturaSummary, error) {
	root, err := loadRoot(content)
	if err != nil {
		return nil, model.NewExtractionError(filename, "unreadable invoice XML", err)
	}

	generalData := findFirst(root, "DatiGenerali", "DatiGeneraliDocumento")
	docScope := generalData
	if docScope == nil {
		docScope = root
	}

	pagamento := findFirst(root, "DatiPagamento", "DettaglioPagamento")
	var payment *model.Payment
	if pagamento != nil {
		payment = &model.Payment{
			Amount: dec.ParseOr(textAt(pagamento, "ImportoPagamento"), dec.Zero),
		}
	}

	cliente := parseCompany(findFirst(root, "CessionarioCommittente"))

	summary := &model.FatturaSummary{
		Numero:      textAt(docScope, "Numero"),
		Importo:     resolveTotal(textAt(docScope, "ImportoTotaleDocumento"), payment, summaryLines(root)),
		Data:        normalizeDate(textAt(docScope, "Data")),
		DataIncasso: normalizeDate(textAt(pagamento, "DataScadenzaPagamento")),
		ClienteNome: cliente.Name,
		ClientePIVA: cliente.VAT,
	}

	return summary, nil
}

func summaryLines(root *etree.Element) []model.Line {
	var lines []model.Line
	for _, lineEl := range findAll(findFirst(root, "DatiBeniServizi"), "DettaglioLinee") {
		lines = append(lines, model.Line{
			Amount: dec.ParseOr(textAt(lineEl, "PrezzoTotale"), decimal.Zero),
		})
	}
	return lines
}

// normalizeDate renders recognized dates as YYYY-MM-DD; text it cannot
// parse passes through untouched so duplicate keys stay stable for
// off-schema inputs.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := parseDate(s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}
