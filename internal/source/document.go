// Package source acquires legal text from files, URLs and standard input.
package source

import (
	"unicode/utf8"

	"github.com/ppiankov/legalese/internal/model"
)

// Document is legal text together with where it came from
type Document struct {
	Name        string // Display name
	Origin      string // Path, URL or "-"
	Text        string
	ContentType string
}

// NewTextDocument wraps text that did not come from a file or URL
func NewTextDocument(name, text string) *Document {
	return &Document{Name: name, Text: text, ContentType: contentTypeText}
}

// Meta describes the document for reports
func (d *Document) Meta() model.SourceMeta {
	return model.SourceMeta{
		Name:        d.Name,
		Origin:      d.Origin,
		ContentType: d.ContentType,
		Characters:  utf8.RuneCountInString(d.Text),
	}
}
