// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tmpl

import (
	"regexp"
	"strings"
)

// Fragments is an insertion-ordered mapping of component names to built HTML.
// Setting a name again replaces its HTML but keeps its original position.
type Fragments struct {
	names []string
	html  map[string]string
}

// Set stores html under name.
func (f *Fragments) Set(name, html string) {
	if f.html == nil {
		f.html = make(map[string]string)
	}
	if _, ok := f.html[name]; !ok {
		f.names = append(f.names, name)
	}
	f.html[name] = html
}

// Get returns the HTML stored under name.
func (f *Fragments) Get(name string) (string, bool) {
	h, ok := f.html[name]
	return h, ok
}

// Names returns component names in insertion order.
func (f *Fragments) Names() []string { return f.names }

// Len returns the number of distinct components.
func (f *Fragments) Len() int { return len(f.names) }

// ComponentPlaceholder returns the token that marks where the component name
// goes inside page content.
func ComponentPlaceholder(name string) string {
	return "{{COMPONENT:" + name + "}}"
}

var componentRe = regexp.MustCompile(`\{\{COMPONENT:([^{}]+)\}\}`)

// PlaceComponents puts every fragment into body. A fragment whose placeholder
// appears in body replaces it; the rest are prepended in insertion order, one
// per line. Placeholders naming unknown components are left verbatim.
func PlaceComponents(body string, f *Fragments) string {
	placed := make(map[string]bool)
	body = componentRe.ReplaceAllStringFunc(body, func(span string) string {
		name := componentRe.FindStringSubmatch(span)[1]
		html, ok := f.Get(name)
		if !ok {
			return span
		}
		placed[name] = true
		return html
	})

	var sb strings.Builder
	for _, name := range f.Names() {
		if placed[name] {
			continue
		}
		sb.WriteString(f.html[name])
		sb.WriteString("\n")
	}
	sb.WriteString(body)
	return sb.String()
}
