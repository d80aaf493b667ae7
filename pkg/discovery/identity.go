package discovery

import (
	"path"
	"strings"
)

// Script extension spellings that name the same library. Order matters:
// longer variants must be stripped before their prefixes.
var extensionVariants = []string{".ahk2", ".ah2", ".ahk"}

const canonicalExtension = ".ahk"

// NormalizeIdentity collapses the many spellings of a library reference
// into one cache key: path components are stripped, case is folded, and
// extension variants reduce to the canonical form. "Lib/MyLib.AHK2" and
// "mylib.ahk" normalize identically.
func NormalizeIdentity(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	for _, ext := range extensionVariants {
		if strings.HasSuffix(s, ext) {
			s = strings.TrimSuffix(s, ext)
			break
		}
	}
	return s + canonicalExtension
}

// baseName returns the filename without any extension variant, used for
// substring scoring.
func baseName(filename string) string {
	s := strings.ToLower(strings.TrimSpace(filename))
	for _, ext := range extensionVariants {
		if strings.HasSuffix(s, ext) {
			return strings.TrimSuffix(s, ext)
		}
	}
	if i := strings.LastIndex(s, "."); i > 0 {
		return s[:i]
	}
	return s
}
