// Package formutil turns documents into dashboard form fields and turns
// submitted forms back into nested maps for the entity dispatcher.
//
// Field names are dot paths matching the JSON shape of the document, with
// numeric segments for array items:
//
//	title.en, sections.0.type, sections.0.content.ar, tags.2
//
// Flatten walks a document and produces a Node tree the editor template
// renders recursively. Nest rebuilds the nested structure from url.Values.
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// NewBase creates a Base with a title and back link.
func NewBase(r *http.Request, title, backDefault string) Base {
	return Base{
		BaseVM: viewdata.NewWithTitle(r, title, backDefault),
	}
}

// SetError sets the error message shown above the form. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
