package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSymbol returns the conventional element-symbol spelling: first
// letter upper case, remainder lower case ("CM" -> "Cm", "eu" -> "Eu").
func NormalizeSymbol(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// symbolKey is the case-insensitive key of the symbol table.
func symbolKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func isSymbol(s string) bool {
	if len(s) == 0 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
