package discovery

import "strings"

// DefaultCategory is assigned when no keyword matches a description.
const DefaultCategory = "Utility"

// categoryDef maps a category name to the keywords that select it.
// Order matters: the first category with any substring match wins.
type categoryDef struct {
	name     string
	keywords []string
}

var categoryTable = []categoryDef{
	{"Networking", []string{"http", "socket", "api", "rest", "web", "download", "request", "url"}},
	{"GUI", []string{"gui", "window", "dialog", "button", "menu", "overlay", "tooltip"}},
	{"Data", []string{"json", "xml", "csv", "yaml", "ini", "sql", "database", "serializ"}},
	{"Text", []string{"string", "regex", "text", "parse", "format", "unicode"}},
	{"Automation", []string{"hotkey", "macro", "automation", "keyboard", "mouse", "send", "clipboard"}},
	{"System", []string{"process", "registry", "wmi", "dll", "memory", "service", "shell"}},
	{"Graphics", []string{"image", "gdi", "screenshot", "pixel", "color", "draw"}},
}

// InferCategory assigns a category from a free-text description. The
// first category whose keyword list has any substring match wins;
// DefaultCategory is the fallback.
func InferCategory(description string) string {
	desc := strings.ToLower(description)
	if desc == "" {
		return DefaultCategory
	}
	for _, c := range categoryTable {
		for _, kw := range c.keywords {
			if strings.Contains(desc, kw) {
				return c.name
			}
		}
	}
	return DefaultCategory
}

// Categories lists every known category, the fallback last.
func Categories() []string {
	out := make([]string, 0, len(categoryTable)+1)
	for _, c := range categoryTable {
		out = append(out, c.name)
	}
	return append(out, DefaultCategory)
}
