package importer

import (
	"github.com/MakhBeth/forfettAIro/internal/archive"
)

// ExpandArchives replaces every zip archive in files with its XML
// entries, leaving plain files untouched. A corrupt archive container
// fails the whole expansion; a corrupt member inside a readable
// archive stays in the list and will be recorded as a per-file failure
// by the batch import.
func ExpandArchives(files []File) ([]File, error) {
	var out []File
	for _, f := range files {
		if !archive.IsZip(f.Content) {
			out = append(out, f)
			continue
		}

		entries, err := archive.ExtractXMLEntries(f.Content)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			out = append(out, File{Name: entry.Name, Content: entry.Content})
		}
	}
	return out, nil
}
