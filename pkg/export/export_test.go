package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/libscout/libscout/pkg/discovery"
)

func sample() []discovery.PackageResult {
	return []discovery.PackageResult{
		{
			Name:          "JSON.ahk",
			Version:       "2.1.3",
			Author:        "cocobelgica",
			Stars:         120,
			Category:      "Data",
			UpdatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			RepositoryURL: "https://github.com/cocobelgica/AutoHotkey-JSON",
		},
		{
			Name:          "WinClip.ahk",
			Version:       "1.0.0",
			Author:        "deo",
			Stars:         40,
			Category:      "Automation",
			RepositoryURL: "https://github.com/deo/winclip",
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := ExportJSON("json", sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Name != "JSON.ahk" || got[0].Version != "2.1.3" {
		t.Errorf("first result = %+v", got[0])
	}
}

func TestReadJSONRejectsNewerSchema(t *testing.T) {
	in := strings.NewReader(`{"version": 99, "results": []}`)
	if _, err := ReadJSON(in); err == nil {
		t.Fatal("expected error for newer schema version")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(sample(), &buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "name,version,author") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "JSON.ahk") {
		t.Errorf("row 1 = %q", lines[1])
	}
}
