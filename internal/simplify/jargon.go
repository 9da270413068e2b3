// Package simplify rewrites legal jargon into plain English.
//
// Substitution is sequential: every table entry is applied, in declaration
// order, to the output of the previous one. Later entries only see text that
// earlier entries left untouched, so "shall not" is consumed by "shall" and
// "null and void" by "void". The order is part of the output contract.
package simplify

import (
	"regexp"
)

// Entry maps a legal phrase to its plain-English replacement
type Entry struct {
	Phrase      string
	Replacement string
}

// jargonTable is applied top to bottom
var jargonTable = []Entry{
	{"hereinafter", "from now on"},
	{"herein", "in this document"},
	{"hereby", "by this"},
	{"hereunder", "under this"},
	{"thereof", "of it"},
	{"therein", "in it"},
	{"thereto", "to it"},
	{"whereas", "given that"},
	{"aforementioned", "mentioned earlier"},
	{"aforesaid", "said before"},
	{"forthwith", "immediately"},
	{"notwithstanding", "despite"},
	{"pursuant to", "according to"},
	{"in accordance with", "following"},
	{"shall", "must"},
	{"shall not", "must not"},
	{"may", "can"},
	{"heretofore", "until now"},
	{"indemnify", "protect from loss"},
	{"liable", "legally responsible"},
	{"void", "invalid"},
	{"null and void", "completely invalid"},
	{"terminate", "end"},
	{"termination", "ending"},
	{"party of the first part", "first party"},
	{"party of the second part", "second party"},
	{"in lieu of", "instead of"},
	{"provided that", "if"},
	{"subject to", "depending on"},
	{"force majeure", "unforeseeable circumstances"},
	{"ab initio", "from the beginning"},
	{"ad hoc", "for this specific purpose"},
	{"bona fide", "genuine"},
	{"de facto", "in reality"},
	{"ipso facto", "by the fact itself"},
	{"per se", "by itself"},
	{"prima facie", "at first glance"},
	{"pro rata", "proportionally"},
	{"quid pro quo", "something for something"},
	{"vis-à-vis", "in relation to"},
}

type compiledEntry struct {
	pattern     *regexp.Regexp
	replacement string
}

// compiled mirrors jargonTable; \b is an ASCII word boundary in RE2
var compiled = compileTable(jargonTable)

// Phrases that are rewritten after the jargon table
var (
	semicolonPattern  = regexp.MustCompile(`;` + WhitespaceClass + `*`)
	pluralPattern     = regexp.MustCompile(`\(s\)`)
	includingPattern  = regexp.MustCompile(`(?i)including but not limited to`)
	avoidDoubtPattern = regexp.MustCompile(`(?i)for the avoidance of doubt`)
)

func compileTable(table []Entry) []compiledEntry {
	out := make([]compiledEntry, len(table))
	for i, e := range table {
		out[i] = compiledEntry{
			pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(e.Phrase) + `\b`),
			replacement: e.Replacement,
		}
	}
	return out
}

// Simplify replaces known legal jargon with plain English and normalizes
// punctuation and whitespace. It is a pure function of its input.
func Simplify(text string) string {
	simplified := text
	for _, e := range compiled {
		simplified = e.pattern.ReplaceAllLiteralString(simplified, e.replacement)
	}

	simplified = semicolonPattern.ReplaceAllLiteralString(simplified, ". ")
	simplified = pluralPattern.ReplaceAllLiteralString(simplified, "(s)")
	simplified = includingPattern.ReplaceAllLiteralString(simplified, "including")
	simplified = avoidDoubtPattern.ReplaceAllLiteralString(simplified, "to be clear")

	return Cleanup(simplified)
}

// Table returns a copy of the jargon table in application order
func Table() []Entry {
	out := make([]Entry, len(jargonTable))
	copy(out, jargonTable)
	return out
}
