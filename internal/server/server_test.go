package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MakhBeth/forfettAIro/internal/server"
	"github.com/MakhBeth/forfettAIro/internal/store"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<p:FatturaElettronica xmlns:p="http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2">
  <FatturaElettronicaHeader>
    <CedentePrestatore>
      <DatiAnagrafici>
        <IdFiscaleIVA><IdPaese>IT</IdPaese><IdCodice>01234567890</IdCodice></IdFiscaleIVA>
        <Anagrafica><Nome>Mario</Nome><Cognome>Rossi</Cognome></Anagrafica>
      </DatiAnagrafici>
      <Sede>
        <Indirizzo>Via Roma</Indirizzo><NumeroCivico>12</NumeroCivico>
        <CAP>20100</CAP><Comune>Milano</Comune><Provincia>MI</Provincia><Nazione>IT</Nazione>
      </Sede>
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
      <Divisa>EUR</Divisa><Data>2024-03-15</Data><Numero>FPA 1/2024</Numero>
      <ImportoTotaleDocumento>1500.00</ImportoTotaleDocumento>
    </DatiGeneraliDocumento></DatiGenerali>
    <DatiBeniServizi>
      <DettaglioLinee>
        <NumeroLinea>1</NumeroLinea><Descrizione>Consulenza</Descrizione>
        <PrezzoUnitario>1500.00</PrezzoUnitario><PrezzoTotale>1500.00</PrezzoTotale>
        <AliquotaIVA>0.00</AliquotaIVA>
      </DettaglioLinee>
    </DatiBeniServizi>
    <DatiPagamento><DettaglioPagamento>
      <ImportoPagamento>1500.00</ImportoPagamento>
      <IBAN>IT60X0542811101000000123456</IBAN>
    </DettaglioPagamento></DatiPagamento>
  </FatturaElettronicaBody>
</p:FatturaElettronica>`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "forfettairo.json"))
	return server.NewServer(&server.Config{Address: ":0"}, st)
}

func doRequest(t *testing.T, s *server.Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func multipartUpload(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestServer_Parse(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(sampleXML))
	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Invoice struct {
			Invoicer struct {
				Name string `json:"name"`
				VAT  string `json:"vat"`
			} `json:"invoicer"`
		} `json:"invoice"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mario Rossi", resp.Invoice.Invoicer.Name)
	assert.Equal(t, "01234567890", resp.Invoice.Invoicer.VAT)
	assert.Empty(t, resp.Warnings)
}

func TestServer_Parse_MalformedXML(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader("<Unclosed>"))
	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_Parse_EmptyBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", nil)
	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Validate(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", strings.NewReader(sampleXML))
	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
}

func TestServer_Validate_Incomplete(t *testing.T) {
	s := newTestServer(t)

	xml := `<FatturaElettronica></FatturaElettronica>`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", strings.NewReader(xml))
	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Problems)
}

func TestServer_Import(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartUpload(t, map[string][]byte{
		"fattura.xml": []byte(sampleXML),
		"broken.xml":  []byte("<Unclosed>"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)

	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary struct {
			Total      int `json:"total"`
			Imported   int `json:"imported"`
			Duplicates int `json:"duplicates"`
			Failed     int `json:"failed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Imported)
	assert.Equal(t, 1, resp.Summary.Failed)

	// Re-import: the persisted record now makes the same file a duplicate
	body, contentType = multipartUpload(t, map[string][]byte{"fattura.xml": []byte(sampleXML)})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)

	w = doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Summary.Imported)
	assert.Equal(t, 1, resp.Summary.Duplicates)
}

func TestServer_Import_NoFiles(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)

	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_AutoPopulate(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/autopopulate", strings.NewReader(sampleXML))
	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Updated bool `json:"updated"`
		Config  *struct {
			PartitaIVA string `json:"partitaIva"`
			IBAN       string `json:"iban"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Updated)
	require.NotNil(t, resp.Config)
	assert.Equal(t, "01234567890", resp.Config.PartitaIVA)
	assert.Equal(t, "IT60X0542811101000000123456", resp.Config.IBAN)

	// Second run finds every field already populated
	req = httptest.NewRequest(http.MethodPost, "/api/v1/profile/autopopulate", strings.NewReader(sampleXML))
	w = doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Updated)
}

func TestServer_BackupRoundTrip(t *testing.T) {
	s := newTestServer(t)

	payload := `{"config":[],"clienti":[{"id":"cl-1","nome":"ACME Srl","piva":"01234567890"}],"fatture":[],"workLogs":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(t, s, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/backup", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Clienti []struct {
			Nome string `json:"nome"`
		} `json:"clienti"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	require.Len(t, data.Clienti, 1)
	assert.Equal(t, "ACME Srl", data.Clienti[0].Nome)
}

func TestServer_BackupInvalidPayload(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := doRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
