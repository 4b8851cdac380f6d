package archive_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MakhBeth/forfettAIro/internal/archive"
	"github.com/MakhBeth/forfettAIro/internal/model"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestIsZip(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"zip signature", []byte("PK\x03\x04rest"), true},
		{"xml content", []byte(`<?xml version="1.0"?><root/>`), false},
		{"empty", nil, false},
		{"too short", []byte("PK"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, archive.IsZip(tt.content))
		})
	}
}

func TestExtractXMLEntries(t *testing.T) {
	content := buildZip(t, map[string]string{
		"fattura1.xml":     "<FatturaElettronica>1</FatturaElettronica>",
		"sub/fattura2.XML": "<FatturaElettronica>2</FatturaElettronica>",
		"readme.txt":       "not an invoice",
	})

	entries, err := archive.ExtractXMLEntries(content)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string][]byte{}
	for _, e := range entries {
		require.NoError(t, e.Err)
		byName[e.Name] = e.Content
	}

	// Names are flattened to the base name, extension match is
	// case-insensitive
	assert.Equal(t, []byte("<FatturaElettronica>1</FatturaElettronica>"), byName["fattura1.xml"])
	assert.Equal(t, []byte("<FatturaElettronica>2</FatturaElettronica>"), byName["fattura2.XML"])
}

func TestExtractXMLEntries_SkipsArchiverMetadata(t *testing.T) {
	content := buildZip(t, map[string]string{
		"fattura.xml":           "<FatturaElettronica/>",
		"__MACOSX/fattura.xml":  "resource fork",
		"._fattura.xml":         "resource fork",
		"cartella/._shadow.xml": "resource fork",
	})

	entries, err := archive.ExtractXMLEntries(content)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fattura.xml", entries[0].Name)
}

func TestExtractXMLEntries_EmptyArchive(t *testing.T) {
	content := buildZip(t, nil)

	entries, err := archive.ExtractXMLEntries(content)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractXMLEntries_CorruptArchive(t *testing.T) {
	_, err := archive.ExtractXMLEntries([]byte("PK\x03\x04 garbage that is not a zip"))
	require.Error(t, err)

	var extractErr *model.ExtractionError
	require.ErrorAs(t, err, &extractErr)
}
