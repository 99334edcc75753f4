package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxFilenameStem = 100

var (
	reUnsafeFilename = regexp.MustCompile(`[^a-z0-9_-]+`)
	reUnderscores    = regexp.MustCompile(`_+`)
)

// Transliterate strips diacritics, so "Café" becomes "Cafe".
func Transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isNonspacingMark), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

func isNonspacingMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// SanitizeFilename reduces s to a lower-case ASCII filename stem of [a-z0-9_-], with whitespace runs replaced by a
// single underscore and the result capped at MaxFilenameStem bytes. Returns "" if nothing usable remains.
func SanitizeFilename(s string) string {
	s = strings.ToLower(Transliterate(s))
	s = strings.Join(strings.Fields(s), "_")
	s = reUnsafeFilename.ReplaceAllString(s, "")
	s = reUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_-")
	if len(s) > MaxFilenameStem {
		s = strings.TrimRight(s[:MaxFilenameStem], "_-")
	}
	return s
}
