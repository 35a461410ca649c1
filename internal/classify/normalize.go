// Package classify maps loosely-typed incident records onto the small fixed
// taxonomies the dashboard groups by: status, domain and priority.
//
// Every classifier is total. A numeric id is consulted first; free text is the
// fallback, and a documented default bucket is returned when neither matches.
package classify

import (
	"strings"

	"incidash/internal/jalali"
)

// letterFolder maps Arabic letter variants onto their Persian forms and turns
// invisible joiners and direction marks into plain spaces.
var letterFolder = strings.NewReplacer(
	"ي", "ی",
	"ى", "ی",
	"ئ", "ی",
	"ك", "ک",
	"ۀ", "ه",
	"ة", "ه",
	"أ", "ا",
	"إ", "ا",
	"ؤ", "و",
	"\u200c", " ", // ZWNJ
	"\u200d", " ", // ZWJ
	"\u200e", " ", // LRM
	"\u200f", " ", // RLM
	"\ufeff", " ", // BOM
)

// Normalize prepares free text for matching: lower-cased, digits folded to
// ASCII, letter variants folded, invisible characters and runs of whitespace
// collapsed to single spaces, trimmed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(jalali.NormalizeDigits(s))
	s = letterFolder.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
