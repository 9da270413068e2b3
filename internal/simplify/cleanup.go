package simplify

import (
	"regexp"
	"strings"
)

// WhitespaceClass is the ECMAScript whitespace class. RE2's \s only covers ASCII,
// so the pattern is spelled out to keep output identical across inputs.
const WhitespaceClass = `[\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

var (
	wsRunPattern      = regexp.MustCompile(WhitespaceClass + `+`)
	openParenPattern  = regexp.MustCompile(`\(` + WhitespaceClass + `+`)
	closeParenPattern = regexp.MustCompile(WhitespaceClass + `+\)`)
	commaPattern      = regexp.MustCompile(WhitespaceClass + `+,`)
	periodPattern     = regexp.MustCompile(WhitespaceClass + `+\.`)
)

// Cleanup collapses whitespace, tightens spacing around parentheses, commas
// and periods, and trims the result.
func Cleanup(text string) string {
	text = wsRunPattern.ReplaceAllLiteralString(text, " ")
	text = openParenPattern.ReplaceAllLiteralString(text, "(")
	text = closeParenPattern.ReplaceAllLiteralString(text, ")")
	text = commaPattern.ReplaceAllLiteralString(text, ",")
	text = periodPattern.ReplaceAllLiteralString(text, ".")
	return Trim(text)
}

// Trim removes leading and trailing whitespace using the same whitespace set
// as Cleanup
func Trim(text string) string {
	return strings.TrimFunc(text, IsSpace)
}

// IsSpace reports whether r belongs to the whitespace set used by Cleanup
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00A0', '\u1680', '\u2028', '\u2029', '\u202F', '\u205F', '\u3000', '\uFEFF':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

var dottedCapitalI = strings.NewReplacer("İ", "i̇")

// Lower lower-cases text the way ECMAScript toLowerCase does. Go maps U+0130
// to a plain "i"; the full mapping keeps the combining dot, so "LİABLE" does
// not turn into an ASCII term.
func Lower(text string) string {
	return strings.ToLower(dottedCapitalI.Replace(text))
}
