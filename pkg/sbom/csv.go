package sbom

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Fields is the fixed column order of tabular output. Any change here is a
// breaking change for every downstream consumer of the CSV.
var Fields = []string{"name", "version", "type", "path", "commit_hash"}

// WriteCSV writes records as CSV with a single header row. An empty record
// set still produces the header, so consumers can always rely on the schema.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Fields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Name, r.Version, string(r.Type), r.Path, r.Revision}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes records to a CSV file at path.
// This is a convenience wrapper around [WriteCSV] for file-based output.
func ExportCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, records)
}
