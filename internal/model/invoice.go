package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the normalized parse result of one FatturaPA XML file.
// A file may carry several billing documents (FatturaElettronicaBody
// elements); each one becomes an Installment.
type Invoice struct {
	Invoicer     Company       `json:"invoicer"`
	Invoicee     Company       `json:"invoicee"`
	ThirdParty   *Company      `json:"thirdParty,omitempty"`
	Installments []Installment `json:"installments"`
}

// Company represents either the issuer or the recipient of an invoice.
// Name resolves from Denominazione or, failing that, "Nome Cognome";
// both may be absent. VAT resolves from IdFiscaleIVA/IdCodice, then
// CodiceFiscale, else empty.
type Company struct {
	VAT      string    `json:"vat"`
	Name     string    `json:"name,omitempty"`
	Office   *Office   `json:"office,omitempty"`
	Contacts *Contacts `json:"contacts,omitempty"`
}

// Office is the registered address (Sede) of a company.
type Office struct {
	Address    string `json:"address,omitempty"`
	Number     string `json:"number,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
	District   string `json:"district,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Contacts holds the optional Contatti subtree fields.
type Contacts struct {
	Tel   string `json:"tel,omitempty"`
	Email string `json:"email,omitempty"`
}

// Installment is one billing document inside the XML file.
type Installment struct {
	Number      string           `json:"number"`
	Currency    string           `json:"currency"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	IssueDate   time.Time        `json:"issueDate"`
	Description string           `json:"description,omitempty"`
	Lines       []Line           `json:"lines"`
	TaxSummary  TaxSummary       `json:"taxSummary"`
	Payment     *Payment         `json:"payment,omitempty"`
	StampDuty   *decimal.Decimal `json:"stampDuty,omitempty"`
	Attachments []Attachment     `json:"attachments,omitempty"`
}

// Line is one billable row. Amount is the extended price as stated in
// the document; it is never recomputed from Quantity * SinglePrice.
type Line struct {
	Number      int             `json:"number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	SinglePrice decimal.Decimal `json:"singlePrice"`
	Amount      decimal.Decimal `json:"amount"`
	Tax         decimal.Decimal `json:"tax"`
}

// TaxSummary is the per-rate VAT bucket of an installment.
type TaxSummary struct {
	TaxPercentage decimal.Decimal `json:"taxPercentage"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	LegalRef      string          `json:"legalRef,omitempty"`
}

// Payment is the first DettaglioPagamento of an installment, if any.
type Payment struct {
	Amount             decimal.Decimal `json:"amount"`
	IBAN               string          `json:"iban,omitempty"`
	Method             string          `json:"method,omitempty"`
	Bank               string          `json:"bank,omitempty"`
	RegularPaymentDate *time.Time      `json:"regularPaymentDate,omitempty"`
}

// Attachment describes one Allegati entry.
type Attachment struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
