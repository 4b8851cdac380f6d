// Package archive extracts invoice XML entries from uploaded archives.
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/MakhBeth/forfettAIro/internal/model"
)

// Entry is one XML file pulled out of an archive.
type Entry struct {
	Name    string
	Content []byte
	// Err is set when the entry exists but its bytes could not be
	// read; the batch importer records it per-file instead of
	// aborting the whole archive.
	Err error
}

// IsZip reports whether content starts with the zip local-file
// signature.
func IsZip(content []byte) bool {
	return len(content) >= 4 && bytes.Equal(content[:4], []byte("PK\x03\x04"))
}

// ExtractXMLEntries decodes a zip archive and returns its XML entries
// in archive order. Non-XML entries, directories and archiver metadata
// are excluded here, per the collaborator contract. A corrupt archive
// container errors; a corrupt member is returned as an Entry with Err
// set.
func ExtractXMLEntries(archive []byte) ([]Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, model.NewExtractionError("archive", "unreadable zip archive", err)
	}

	var entries []Entry
	for _, file := range reader.File {
		if !isXMLEntry(file) {
			continue
		}
		content, err := readEntry(file)
		entries = append(entries, Entry{
			Name:    path.Base(file.Name),
			Content: content,
			Err:     err,
		})
	}

	return entries, nil
}

func isXMLEntry(file *zip.File) bool {
	if file.FileInfo().IsDir() {
		return false
	}
	name := file.Name
	// macOS archives carry resource-fork shadows under __MACOSX/.
	if strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._") {
		return false
	}
	return strings.EqualFold(path.Ext(name), ".xml")
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
