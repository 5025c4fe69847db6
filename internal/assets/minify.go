// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package assets

import (
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	mjson "github.com/tdewolff/minify/v2/json"
)

// Minifier minifies HTML, CSS, JavaScript and JSON. A nil *Minifier leaves
// everything untouched.
type Minifier struct {
	m *minify.M
}

// NewMinifier returns a new Minifier.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags:    true,
		KeepDefaultAttrVals: true,
		KeepEndTags:         true,
	})
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("application/json", mjson.Minify)
	return &Minifier{m: m}
}

// Bytes minifies b as mediaType.
func (m *Minifier) Bytes(mediaType string, b []byte) ([]byte, error) {
	if m == nil {
		return b, nil
	}
	return m.m.Bytes(mediaType, b)
}

// File minifies the contents of the file at path, choosing the media type by
// extension. Files of other types are returned unchanged.
func (m *Minifier) File(path string, b []byte) ([]byte, error) {
	if m == nil {
		return b, nil
	}
	var mediaType string
	switch filepath.Ext(path) {
	case ".css":
		mediaType = "text/css"
	case ".js":
		mediaType = "application/javascript"
	case ".json":
		mediaType = "application/json"
	case ".html":
		mediaType = "text/html"
	default:
		return b, nil
	}
	return m.m.Bytes(mediaType, b)
}
