package sbom

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// jsonIndent is three spaces, matching the long-standing shape of the
// sbom.json files downstream tooling already ingests.
const jsonIndent = "   "

// WriteJSON writes records as an indented JSON array with the same five
// keys per object as the CSV columns. An empty set encodes as [], never
// null. HTML escaping is disabled so version ranges like ">=1.0" keep
// their literal text.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ExportJSON writes records to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, records)
}
