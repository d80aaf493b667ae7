package discovery

import (
	"bufio"
	"strings"
)

// Header comment tags recognized in library files. Script authors
// conventionally open a library with a comment block like:
//
//	; @description Fast JSON parser
//	; @author cocobelgica
//	; @version 2.1.3
//	; @link https://github.com/cocobelgica/AutoHotkey-JSON
//
// Only the leading comment block is scanned; parsing stops at the first
// line of code.
const headerScanLimit = 50

// ParseHeader extracts attribution metadata from a library file's leading
// comment block. Unknown tags are ignored; a tag seen twice keeps its
// first value.
func ParseHeader(content string) LibraryMetadata {
	var meta LibraryMetadata

	scanner := bufio.NewScanner(strings.NewReader(content))
	inBlock := false
	for lines := 0; scanner.Scan() && lines < headerScanLimit; lines++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "/*"):
			inBlock = true
			line = strings.TrimSpace(strings.TrimPrefix(line, "/*"))
		case strings.HasSuffix(line, "*/"):
			inBlock = false
			continue
		case strings.HasPrefix(line, ";"):
			line = strings.TrimSpace(strings.TrimPrefix(line, ";"))
		case inBlock:
			line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		default:
			// First non-comment line ends the header.
			return meta
		}

		tag, value, found := strings.Cut(line, " ")
		if !found || !strings.HasPrefix(tag, "@") {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch strings.ToLower(tag) {
		case "@description":
			if meta.Description == "" {
				meta.Description = value
			}
		case "@file", "@filename":
			if meta.File == "" {
				meta.File = value
			}
		case "@author":
			if meta.Author == "" {
				meta.Author = value
			}
		case "@link", "@see", "@website":
			if meta.Link == "" {
				meta.Link = value
			}
		case "@date":
			if meta.Date == "" {
				meta.Date = value
			}
		case "@version":
			if meta.Version == "" {
				meta.Version = value
			}
		}
	}
	return meta
}
