// Package export writes discovery results to machine-readable files for
// scripting and round-trip processing.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/libscout/libscout/pkg/discovery"
)

// document is the stable file schema. A version field guards future
// format changes.
type document struct {
	Version     int                       `json:"version"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Query       string                    `json:"query,omitempty"`
	Results     []discovery.PackageResult `json:"results"`
}

const schemaVersion = 1

// WriteJSON encodes results as indented JSON and writes them to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(query string, results []discovery.PackageResult, w io.Writer) error {
	doc := document{
		Version:     schemaVersion,
		GeneratedAt: time.Now().UTC(),
		Query:       query,
		Results:     results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes results to a JSON file at path.
func ExportJSON(query string, results []discovery.PackageResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(query, results, f)
}

// ReadJSON decodes a previously exported result set from r.
// It rejects documents written by a newer schema version.
func ReadJSON(r io.Reader) ([]discovery.PackageResult, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Version > schemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", doc.Version)
	}
	return doc.Results, nil
}

// ImportJSON reads a JSON export file at path.
func ImportJSON(path string) ([]discovery.PackageResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// csvHeader is the column order for CSV output.
var csvHeader = []string{"name", "version", "author", "stars", "category", "updated_at", "repository_url"}

// WriteCSV writes results as CSV with a header row.
func WriteCSV(results []discovery.PackageResult, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Name,
			r.Version,
			r.Author,
			strconv.Itoa(r.Stars),
			r.Category,
			r.UpdatedAt.UTC().Format(time.RFC3339),
			r.RepositoryURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
