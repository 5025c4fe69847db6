// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package page

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.astrophena.name/sitegen/internal/tmpl"
)

// Possible errors, used in tests.
var (
	// ErrDescriptorParse is returned when a page descriptor is malformed.
	ErrDescriptorParse = errors.New("failed to parse page descriptor")
	// ErrContentMissing is returned when a content file doesn't exist.
	ErrContentMissing = errors.New("content file not found")

	errPageName      = errors.New("invalid page name")
	errComponentName = errors.New("component reference without name")
)

// DefaultLayout is the layout used when a descriptor doesn't name one.
const DefaultLayout = "_layout"

// Descriptor describes a single output page. The exported fields are the
// descriptor JSON fields.
type Descriptor struct {
	Page        string         `json:"page"`                   // page: Output name without extension, defaults to the file name.
	Title       string         `json:"title,omitempty"`        // title: Page title, site name by default.
	Description string         `json:"description,omitempty"`  // description: Page description, site description by default.
	Layout      string         `json:"layout,omitempty"`       // layout: Layout component, _layout by default.
	HeaderTheme string         `json:"header_theme,omitempty"` // header_theme: light or dark, light by default.
	Content     string         `json:"content,omitempty"`      // content: Inline body HTML.
	ContentFile string         `json:"content_file,omitempty"` // content_file: Body file relative to the descriptor.
	Components  []ComponentRef `json:"components,omitempty"`   // components: Components to build, in order.

	path string // descriptor file, empty if synthesized
}

// ComponentRef references a component from a page.
type ComponentRef struct {
	Name string    `json:"name"`
	Vars tmpl.Vars `json:"vars,omitempty"`
}

// ReadDescriptor reads a page descriptor from a JSON file.
func ReadDescriptor(path string) (*Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := ParseDescriptor(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.path = path
	if d.Page == "" {
		d.Page = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// ParseDescriptor parses a page descriptor.
func ParseDescriptor(b []byte) (*Descriptor, error) {
	d := new(Descriptor)
	if err := tmpl.Decode(b, d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptorParse, err)
	}
	if d.Page != "" && !filepath.IsLocal(d.Page) {
		return nil, fmt.Errorf("%w: %q", errPageName, d.Page)
	}
	for i, c := range d.Components {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: components[%d]", errComponentName, i)
		}
	}
	if d.Layout == "" {
		d.Layout = DefaultLayout
	}
	if d.HeaderTheme == "" {
		d.HeaderTheme = "light"
	}
	return d, nil
}

// Path returns the file the descriptor was read from, or an empty string if it
// was synthesized.
func (d *Descriptor) Path() string { return d.path }

// Dir returns the directory content files are resolved against.
func (d *Descriptor) Dir() string {
	if d.path == "" {
		return "."
	}
	return filepath.Dir(d.path)
}
