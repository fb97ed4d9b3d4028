// Package normalize unifica la forma en que se guardan y comparan emails, usuarios y nombres.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Email recorta espacios y pasa a minúsculas.
func Email(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Username misma regla que Email: los usuarios se comparan sin distinguir mayúsculas.
func Username(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Key clave de comparación sin mayúsculas ni espacios redundantes (nombres de cliente).
func Key(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Text recorta espacios al inicio y al final.
func Text(s string) string {
	return strings.TrimSpace(s)
}
