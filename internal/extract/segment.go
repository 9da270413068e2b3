package extract

import (
	"regexp"

	"github.com/ppiankov/legalese/internal/simplify"
)

// sentencePattern matches a run of non-terminators followed by terminators.
// A trailing fragment without a terminator never matches.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Segment splits text into sentences in document order.
// Each sentence keeps its terminators and loses surrounding whitespace.
// When no sentence is found the whole input is returned as the only element.
func Segment(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	sentences := make([]string, len(matches))
	for i, m := range matches {
		sentences[i] = simplify.Trim(m)
	}
	return sentences
}
