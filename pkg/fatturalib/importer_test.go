package fatturalib_test

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MakhBeth/forfettAIro/internal/store"
	"github.com/MakhBeth/forfettAIro/pkg/fatturalib"
)

func invoiceXML(numero, data, importo string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<p:FatturaElettronica xmlns:p="http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2">
  <FatturaElettronicaHeader>
    <CedentePrestatore>
      <DatiAnagrafici>
        <IdFiscaleIVA><IdPaese>IT</IdPaese><IdCodice>01234567890</IdCodice></IdFiscaleIVA>
        <Anagrafica><Nome>Mario</Nome><Cognome>Rossi</Cognome></Anagrafica>
      </DatiAnagrafici>
    </CedentePrestatore>
    <CessionarioCommittente>
      <DatiAnagrafici>
        <IdFiscaleIVA><IdPaese>IT</IdPaese><IdCodice>09876543210</IdCodice></IdFiscaleIVA>
        <Anagrafica><Denominazione>ACME S.r.l.</Denominazione></Anagrafica>
      </DatiAnagrafici>
    </CessionarioCommittente>
  </FatturaElettronicaHeader>
  <FatturaElettronicaBody>
    <DatiGenerali><DatiGeneraliDocumento>
      <Data>` + data + `</Data><Numero>` + numero + `</Numero>
      <ImportoTotaleDocumento>` + importo + `</ImportoTotaleDocumento>
    </DatiGeneraliDocumento></DatiGenerali>
  </FatturaElettronicaBody>
</p:FatturaElettronica>`
}

func TestParseXML(t *testing.T) {
	invoice, err := fatturalib.ParseXML(context.Background(), strings.NewReader(invoiceXML("1/2024", "2024-01-10", "1000.00")))
	require.NoError(t, err)

	assert.Equal(t, "Mario Rossi", invoice.Invoicer.Name)
	assert.Equal(t, "ACME S.r.l.", invoice.Invoicee.Name)
	require.Len(t, invoice.Installments, 1)
	assert.Equal(t, "1/2024", invoice.Installments[0].Number)

	// Light validation flags the missing line items
	problems := fatturalib.Validate(invoice)
	assert.Contains(t, problems, "document 1: no lines")
}

func TestImporter_ImportFiles(t *testing.T) {
	st := store.NewFileStore(filepath.Join(t.TempDir(), "forfettairo.json"))
	imp := fatturalib.NewImporter(st)

	result, err := imp.ImportFiles(context.Background(), []fatturalib.File{
		{Name: "a.xml", Content: []byte(invoiceXML("1/2024", "2024-01-10", "1000.00"))},
		{Name: "b.xml", Content: []byte(invoiceXML("2/2024", "2024-02-10", "2000.00"))},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Imported)

	fatture, err := st.Fatture()
	require.NoError(t, err)
	require.Len(t, fatture, 2)
	assert.Equal(t, "1/2024", fatture[0].Numero)
	assert.True(t, fatture[0].Importo.Equal(decimal.NewFromInt(1000)))

	clienti, err := st.Clienti()
	require.NoError(t, err)
	require.Len(t, clienti, 1)
	assert.Equal(t, "ACME S.r.l.", clienti[0].Nome)

	// Second run over the same files only finds duplicates
	result, err = imp.ImportFiles(context.Background(), []fatturalib.File{
		{Name: "a.xml", Content: []byte(invoiceXML("1/2024", "2024-01-10", "1000.00"))},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.Imported)
	assert.Equal(t, 1, result.Summary.Duplicates)
}

func TestImporter_ImportFiles_ZipArchive(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for i, doc := range []string{
		invoiceXML("1/2024", "2024-01-10", "1000.00"),
		invoiceXML("2/2024", "2024-02-10", "2000.00"),
	} {
		f, err := w.Create("fattura" + string(rune('1'+i)) + ".xml")
		require.NoError(t, err)
		_, err = f.Write([]byte(doc))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	st := store.NewFileStore(filepath.Join(t.TempDir(), "forfettairo.json"))
	imp := fatturalib.NewImporter(st)

	result, err := imp.ImportFiles(context.Background(), []fatturalib.File{
		{Name: "lotto.zip", Content: buf.Bytes()},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Imported)
}

func TestExtractSummary(t *testing.T) {
	summary, err := fatturalib.ExtractSummary("a.xml", []byte(invoiceXML("1/2024", "2024-01-10", "1000.00")))
	require.NoError(t, err)

	assert.Equal(t, "1/2024", summary.Numero)
	assert.Equal(t, "2024-01-10", summary.Data)
	assert.Equal(t, "ACME S.r.l.", summary.ClienteNome)
	assert.True(t, summary.Importo.Equal(decimal.NewFromInt(1000)))
}
