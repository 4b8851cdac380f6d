package fatturapa

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	dec "github.com/MakhBeth/forfettAIro/internal/decimal"
	"github.com/MakhBeth/forfettAIro/internal/model"
)

// Parser turns FatturaPA XML documents into normalized Invoices.
// Malformed XML is the only fatal condition; every absent or
// unparsable field degrades to a fallback instead of erroring.
type Parser struct {
	now func() time.Time
}

// NewParser creates a new FatturaPA parser
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Parse parses XML content into an Invoice
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*model.Invoice, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError("content", "failed to read content", err)
	}
	return p.ParseBytes(content)
}

// ParseBytes parses XML content into an Invoice
func (p *Parser) ParseBytes(content []byte) (*model.Invoice, error) {
	root, err := loadRoot(content)
	if err != nil {
		return nil, err
	}

	header := findFirst(root, "FatturaElettronicaHeader")

	invoice := &model.Invoice{
		Invoicer: parseCompany(findFirst(header, "CedentePrestatore")),
		Invoicee: parseCompany(findFirst(header, "CessionarioCommittente")),
	}
	if el := findFirst(header, "TerzoIntermediarioOSoggettoEmittente"); el != nil {
		third := parseCompany(el)
		invoice.ThirdParty = &third
	}

	for _, body := range findAll(root, "FatturaElettronicaBody") {
		invoice.Installments = append(invoice.Installments, p.parseInstallment(body))
	}

	// Single-document files sometimes omit the body wrapper; treat the
	// root itself as one implicit installment so parsing never yields
	// an empty invoice.
	if len(invoice.Installments) == 0 {
		invoice.Installments = append(invoice.Installments, p.parseInstallment(root))
	}

	return invoice, nil
}

func loadRoot(content []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, model.NewParseError("xml", "malformed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError("xml", "document has no root element", nil)
	}
	return root, nil
}

// parseCompany extracts a party from a CedentePrestatore,
// CessionarioCommittente or TerzoIntermediarioOSoggettoEmittente
// subtree. Name: Denominazione, else "Nome Cognome". VAT:
// IdFiscaleIVA/IdCodice, else CodiceFiscale. Office and Contacts are
// set only when the corresponding parent element exists.
func parseCompany(el *etree.Element) model.Company {
	if el == nil {
		return model.Company{}
	}

	name := textAt(el, "Denominazione")
	if name == "" {
		name = joinNonEmpty(textAt(el, "Nome"), textAt(el, "Cognome"))
	}

	vat := textAt(el, "IdFiscaleIVA", "IdCodice")
	if vat == "" {
		vat = textAt(el, "CodiceFiscale")
	}

	company := model.Company{VAT: vat, Name: name}

	if sede := findFirst(el, "Sede"); sede != nil {
		company.Office = &model.Office{
			Address:    textAt(sede, "Indirizzo"),
			Number:     textAt(sede, "NumeroCivico"),
			PostalCode: textAt(sede, "CAP"),
			City:       textAt(sede, "Comune"),
			District:   textAt(sede, "Provincia"),
			Country:    textAt(sede, "Nazione"),
		}
	}

	if contatti := findFirst(el, "Contatti"); contatti != nil {
		company.Contacts = &model.Contacts{
			Tel:   textAt(contatti, "Telefono"),
			Email: textAt(contatti, "Email"),
		}
	}

	return company
}

func parseLine(el *etree.Element) model.Line {
	return model.Line{
		Number:      dec.ParseIntOr(textAt(el, "NumeroLinea"), 1),
		Description: textAt(el, "Descrizione"),
		Quantity:    dec.ParseOr(textAt(el, "Quantita"), dec.One),
		SinglePrice: dec.ParseOr(textAt(el, "PrezzoUnitario"), dec.Zero),
		Amount:      dec.ParseOr(textAt(el, "PrezzoTotale"), dec.Zero),
		Tax:         dec.ParseOr(textAt(el, "AliquotaIVA"), dec.Zero),
	}
}

func (p *Parser) parseInstallment(body *etree.Element) model.Installment {
	generalData := findFirst(body, "DatiGenerali", "DatiGeneraliDocumento")
	beniServizi := findFirst(body, "DatiBeniServizi")
	pagamento := findFirst(body, "DatiPagamento", "DettaglioPagamento")
	riepilogo := findFirst(body, "DatiBeniServizi", "DatiRiepilogo")

	// Several fields fall back to sibling-level lookups when their
	// dedicated subtree is missing.
	docScope := generalData
	if docScope == nil {
		docScope = body
	}
	summaryScope := riepilogo
	if summaryScope == nil {
		summaryScope = body
	}

	var lines []model.Line
	for _, lineEl := range findAll(beniServizi, "DettaglioLinee") {
		lines = append(lines, parseLine(lineEl))
	}

	taxSummary := model.TaxSummary{
		TaxPercentage: dec.ParseOr(textAt(summaryScope, "AliquotaIVA"), dec.Zero),
		TaxAmount:     dec.ParseOr(textAt(summaryScope, "Imposta"), dec.Zero),
		PaymentAmount: dec.ParseOr(textAt(summaryScope, "ImponibileImporto"), dec.Zero),
		LegalRef:      textAt(summaryScope, "RiferimentoNormativo"),
	}

	var payment *model.Payment
	if pagamento != nil {
		payment = &model.Payment{
			Amount: dec.ParseOr(textAt(pagamento, "ImportoPagamento"), dec.Zero),
			IBAN:   textAt(pagamento, "IBAN"),
			Method: textAt(pagamento, "ModalitaPagamento"),
			Bank:   textAt(pagamento, "IstitutoFinanziario"),
		}
		if scadenza := textAt(pagamento, "DataScadenzaPagamento"); scadenza != "" {
			if due, err := parseDate(scadenza); err == nil {
				payment.RegularPaymentDate = &due
			}
		}
	}

	issueDate := p.now()
	if parsed, err := parseDate(textAt(docScope, "Data")); err == nil {
		issueDate = parsed
	}

	var stampDuty *decimal.Decimal
	if bollo := textAt(docScope, "DatiBollo", "ImportoBollo"); bollo != "" {
		amount := dec.ParseOr(bollo, dec.Zero)
		stampDuty = &amount
	}

	totalAmount := resolveTotal(textAt(docScope, "ImportoTotaleDocumento"), payment, lines)

	var causali []string
	for _, causale := range findAll(generalData, "Causale") {
		if t := text(causale); t != "" {
			causali = append(causali, t)
		}
	}

	var attachments []model.Attachment
	for _, allegato := range findAll(body, "Allegati") {
		attachments = append(attachments, model.Attachment{
			Name:        textAt(allegato, "NomeAttachment"),
			Description: textAt(allegato, "DescrizioneAttachment"),
		})
	}

	currency := textAt(docScope, "Divisa")
	if currency == "" {
		currency = "EUR"
	}

	return model.Installment{
		Number:      textAt(docScope, "Numero"),
		Currency:    currency,
		TotalAmount: totalAmount,
		IssueDate:   issueDate,
		Description: strings.Join(causali, " "),
		Lines:       lines,
		TaxSummary:  taxSummary,
		Payment:     payment,
		StampDuty:   stampDuty,
		Attachments: attachments,
	}
}

// resolveTotal applies the document total priority chain: explicit
// ImportoTotaleDocumento, then payment amount, then summed line
// amounts. The order is observable through duplicate keys, so it must
// not change.
func resolveTotal(explicit string, payment *model.Payment, lines []model.Line) decimal.Decimal {
	if total := dec.ParseOr(explicit, dec.Zero); !total.IsZero() {
		return total
	}
	if payment != nil && !payment.Amount.IsZero() {
		return payment.Amount
	}
	amounts := make([]decimal.Decimal, len(lines))
	for i, l := range lines {
		amounts[i] = l.Amount
	}
	return dec.Sum(amounts)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"2006-01-02T15:04:05",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, model.NewParseError("date", "cannot parse date: "+s, nil)
}
