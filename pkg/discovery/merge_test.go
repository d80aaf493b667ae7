package discovery

import "testing"

func TestMergeFirstSourceWins(t *testing.T) {
	header := LibraryMetadata{Version: "2.0.0", Author: "header-author"}
	repo := LibraryMetadata{Version: "1.0.0", Author: "repo-owner", Description: "from repo"}

	got := Merge(header, repo)
	if got.Version != "2.0.0" {
		t.Errorf("Version = %q, want header value to win", got.Version)
	}
	if got.Author != "header-author" {
		t.Errorf("Author = %q, want header value to win", got.Author)
	}
	if got.Description != "from repo" {
		t.Errorf("Description = %q, want later source to fill the gap", got.Description)
	}
}

func TestMergeFillsPerField(t *testing.T) {
	a := LibraryMetadata{Description: "desc"}
	b := LibraryMetadata{File: "lib.ahk", Date: "2025-01-01"}
	c := LibraryMetadata{Link: "https://example.com", Date: "ignored"}

	got := Merge(a, b, c)
	want := LibraryMetadata{
		Description: "desc",
		File:        "lib.ahk",
		Link:        "https://example.com",
		Date:        "2025-01-01",
	}
	if got != want {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestMergeNoSources(t *testing.T) {
	if got := Merge(); got != (LibraryMetadata{}) {
		t.Errorf("Merge() = %+v, want zero value", got)
	}
}

func TestCompleteness(t *testing.T) {
	full := LibraryMetadata{
		Description: "d", File: "f", Author: "a",
		Link: "l", Date: "2025-01-01", Version: "1.0.0",
	}
	if !full.Complete() {
		t.Error("Complete() = false for fully populated metadata")
	}

	partial := full
	partial.Version = ""
	if partial.Complete() {
		t.Error("Complete() = true with an empty field")
	}
}
