package discovery

import (
	"strings"
	"testing"
)

func TestParseHeaderSemicolonBlock(t *testing.T) {
	content := `; @description Fast JSON parser
; @author cocobelgica
; @version 2.1.3
; @link https://github.com/cocobelgica/AutoHotkey-JSON
; @date 2024-03-01
; @file JSON.ahk

JSON_Load(src) {
}
`
	got := ParseHeader(content)
	want := LibraryMetadata{
		Description: "Fast JSON parser",
		Author:      "cocobelgica",
		Version:     "2.1.3",
		Link:        "https://github.com/cocobelgica/AutoHotkey-JSON",
		Date:        "2024-03-01",
		File:        "JSON.ahk",
	}
	if got != want {
		t.Errorf("ParseHeader = %+v, want %+v", got, want)
	}
}

func TestParseHeaderStarBlock(t *testing.T) {
	content := `/*
 * @description Clipboard helpers
 * @author deo
 * @version 1.5
 */
SendClip(text) {
}
`
	got := ParseHeader(content)
	if got.Description != "Clipboard helpers" || got.Author != "deo" || got.Version != "1.5" {
		t.Errorf("ParseHeader = %+v", got)
	}
}

func TestParseHeaderStopsAtCode(t *testing.T) {
	content := `; @author early
x := 1
; @version 9.9.9
`
	got := ParseHeader(content)
	if got.Author != "early" {
		t.Errorf("Author = %q, want %q", got.Author, "early")
	}
	if got.Version != "" {
		t.Errorf("Version = %q, want tags after code ignored", got.Version)
	}
}

func TestParseHeaderFirstValueWins(t *testing.T) {
	content := `; @version 1.0.0
; @version 2.0.0
`
	if got := ParseHeader(content); got.Version != "1.0.0" {
		t.Errorf("Version = %q, want first occurrence kept", got.Version)
	}
}

func TestParseHeaderLinkAliases(t *testing.T) {
	for _, tag := range []string{"@link", "@see", "@website"} {
		got := ParseHeader("; " + tag + " https://example.com\n")
		if got.Link != "https://example.com" {
			t.Errorf("tag %s: Link = %q", tag, got.Link)
		}
	}
}

func TestParseHeaderIgnoresUnknownTags(t *testing.T) {
	content := `; @requires AutoHotkey v2
; @author someone
`
	got := ParseHeader(content)
	if got.Author != "someone" {
		t.Errorf("Author = %q", got.Author)
	}
	if got != (LibraryMetadata{Author: "someone"}) {
		t.Errorf("unexpected fields populated: %+v", got)
	}
}

func TestParseHeaderScanLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < headerScanLimit; i++ {
		b.WriteString("; filler comment line\n")
	}
	b.WriteString("; @version 3.0.0\n")

	if got := ParseHeader(b.String()); got.Version != "" {
		t.Errorf("Version = %q, want tags past the scan limit ignored", got.Version)
	}
}

func TestParseHeaderEmptyContent(t *testing.T) {
	if got := ParseHeader(""); got != (LibraryMetadata{}) {
		t.Errorf("ParseHeader(\"\") = %+v, want zero value", got)
	}
}
