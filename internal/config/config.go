// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package config loads the site configuration.

The configuration is a JSON document. Every leaf of it becomes a substitution
variable: nested keys are joined with underscores and upper-cased, so

	{"site": {"contact": {"email": "hi@example.com"}}}

provides {{SITE_CONTACT_EMAIL}}. Arrays are kept whole under their own key for
component hooks to expand.

Keys are visited in sorted order at every level. When two leaves flatten to the
same variable, as "a_b" and {"a": {"b": ...}} do, the one visited last wins.

# Build Section

The optional "build" object controls directory names and output processing:

	{
	  "build": {
	    "components": "components",
	    "pages": "pages",
	    "output": "build",
	    "assets": "assets",
	    "collections": "collections.json",
	    "minify": false,
	    "feed": false,
	    "aliases": {"faqItem": "faq"}
	  }
	}

# Collections

Collections are directories copied wholesale into the output. They are declared
in a separate document, named by build.collections:

	{
	  "collections": [
	    {"name": "products", "source": "products", "destination": "products"}
	  ]
	}

Without that document a single "products" collection is assumed.
*/
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.astrophena.name/sitegen/internal/tmpl"
)

// Possible errors, used in tests.
var (
	errConfigParse      = errors.New("failed to parse configuration")
	errCollectionsParse = errors.New("failed to parse collections")
	errCollectionField  = errors.New("collection must have name, source and destination")
)

// ErrConfigMissing is returned by Load when the configuration file doesn't exist.
var ErrConfigMissing = errors.New("configuration file not found")

// Config is a loaded site configuration. It is built once per build and never
// modified afterwards.
type Config struct {
	// Root is the directory the configuration was loaded from. All other paths
	// are relative to it.
	Root string
	// Doc is the parsed configuration document.
	Doc map[string]any
	// Vars is the flattened configuration with convenience aliases.
	Vars tmpl.Vars
	// Build holds the build section.
	Build Build
	// Catalog holds the catalog section.
	Catalog Catalog
	// Collections lists directories copied into the output.
	Collections []Collection
}

// Build is the "build" section of the configuration.
type Build struct {
	Components  string            `json:"components"`
	Pages       string            `json:"pages"`
	Output      string            `json:"output"`
	Assets      string            `json:"assets"`
	Collections string            `json:"collections"`
	Minify      bool              `json:"minify"`
	Feed        bool              `json:"feed"`
	Aliases     map[string]string `json:"aliases"`
}

// Catalog is the "catalog" section of the configuration. It controls the
// generation of catalog detail pages.
type Catalog struct {
	// Collection is the name of the collection holding catalog items.
	Collection string `json:"collection"`
	// Template is the detail page template, relative to the pages directory.
	Template string `json:"template"`
	// Prefix is prepended to the item ID to form the page name.
	Prefix string `json:"prefix"`
	// Components are added to every generated page.
	Components []string `json:"components"`
}

// Collection is a directory copied wholesale into the output.
type Collection struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// DefaultAliases maps sub-components to the directory of their parent.
var DefaultAliases = map[string]string{
	"faqItem":      "faq",
	"productCard":  "products",
	"header-light": "header",
	"header-dark":  "header",
}

func (b *Build) setDefaults() {
	if b.Components == "" {
		b.Components = "components"
	}
	if b.Pages == "" {
		b.Pages = "pages"
	}
	if b.Output == "" {
		b.Output = "build"
	}
	if b.Assets == "" {
		b.Assets = "assets"
	}
	if b.Collections == "" {
		b.Collections = "collections.json"
	}
	aliases := make(map[string]string, len(DefaultAliases)+len(b.Aliases))
	for k, v := range DefaultAliases {
		aliases[k] = v
	}
	for k, v := range b.Aliases {
		aliases[k] = v
	}
	b.Aliases = aliases
}

func (c *Catalog) setDefaults() {
	if c.Collection == "" {
		c.Collection = "products"
	}
	if c.Template == "" {
		c.Template = filepath.Join("_product-detail", "_custom-detail-template.html")
	}
	if c.Prefix == "" {
		c.Prefix = "product-"
	}
	if c.Components == nil {
		c.Components = []string{"contactIcons"}
	}
}

// Load reads the configuration from path. Relative paths in the configuration
// are resolved against the directory of path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrConfigMissing)
	} else if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Root = filepath.Dir(path)

	collections, err := loadCollections(c.Path(c.Build.Collections))
	if err != nil {
		return nil, err
	}
	c.Collections = collections
	return c, nil
}

// Parse parses a configuration document. Collections are not loaded.
func Parse(b []byte) (*Config, error) {
	doc, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfigParse, err)
	}

	c := &Config{Root: ".", Doc: doc}
	if err := section(doc, "build", &c.Build); err != nil {
		return nil, fmt.Errorf("%w: build: %v", errConfigParse, err)
	}
	if err := section(doc, "catalog", &c.Catalog); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", errConfigParse, err)
	}
	c.Build.setDefaults()
	c.Catalog.setDefaults()
	c.Vars = Flatten(doc)
	addAliases(c.Vars, doc, time.Now())
	return c, nil
}

// Path returns rel joined to the configuration root.
func (c *Config) Path(rel ...string) string {
	return filepath.Join(append([]string{c.Root}, rel...)...)
}

// ComponentsDir returns the components directory.
func (c *Config) ComponentsDir() string { return c.Path(c.Build.Components) }

// PagesDir returns the pages directory.
func (c *Config) PagesDir() string { return c.Path(c.Build.Pages) }

// AssetsDir returns the assets directory.
func (c *Config) AssetsDir() string { return c.Path(c.Build.Assets) }

// OutputDir returns the output directory. An absolute output setting is used
// as is.
func (c *Config) OutputDir() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return c.Path(c.Build.Output)
}

// Collection returns the collection with the given name.
func (c *Config) Collection(name string) (Collection, bool) {
	for _, col := range c.Collections {
		if col.Name == name {
			return col, true
		}
	}
	return Collection{}, false
}

// Flatten turns a nested document into a flat variable mapping. Nested object
// keys are joined with underscores and upper-cased; arrays are kept as is.
// Colliding keys are resolved in sorted key order, the last one winning.
func Flatten(doc map[string]any) tmpl.Vars {
	vars := make(tmpl.Vars)
	flatten(vars, doc, "")
	return vars
}

func flatten(dst tmpl.Vars, obj map[string]any, prefix string) {
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		v := obj[k]
		if m, ok := v.(map[string]any); ok {
			flatten(dst, m, prefix+k+"_")
			continue
		}
		dst[strings.ToUpper(prefix+k)] = v
	}
}

// addAliases adds the convenience variables every template can rely on.
// Values already present win over the fallbacks.
func addAliases(vars tmpl.Vars, doc map[string]any, now time.Time) {
	alias := func(key string, fallbacks ...string) {
		if vars.Lookup(key, "") != "" {
			return
		}
		for _, fb := range fallbacks {
			if fb != "" {
				vars[key] = fb
				return
			}
		}
		vars[key] = ""
	}

	alias("SITE_NAME", lookup(doc, "site", "name"), "My Website")
	alias("SITE_DESCRIPTION", lookup(doc, "site", "description"))
	alias("SITE_URL", lookup(doc, "site", "url"))
	alias("CONTACT_EMAIL", lookup(doc, "site", "contact", "email"))
	alias("CONTACT_PHONE", lookup(doc, "site", "contact", "phone"))
	alias("YEAR", strconv.Itoa(now.Year()))
	alias("COMPANY_NAME", vars.Lookup("SITE_NAME", ""))
}

// lookup walks a nested document and returns the string form of the leaf at
// the path, or an empty string.
func lookup(doc map[string]any, path ...string) string {
	var cur any = doc
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[p]
	}
	s, ok := tmpl.Format(cur)
	if !ok {
		return ""
	}
	return s
}

func decode(b []byte) (map[string]any, error) {
	var doc map[string]any
	if err := tmpl.Decode(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document is not an object")
	}
	return doc, nil
}

// section decodes doc[key] into v, if present.
func section(doc map[string]any, key string, v any) error {
	raw, ok := doc[key]
	if !ok {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

var defaultCollections = []Collection{
	{Name: "products", Source: "products", Destination: "products"},
}

func loadCollections(path string) ([]Collection, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return append([]Collection(nil), defaultCollections...), nil
	} else if err != nil {
		return nil, err
	}

	var doc struct {
		Collections []Collection `json:"collections"`
	}
	if err := tmpl.Decode(b, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, errCollectionsParse, err)
	}
	for _, col := range doc.Collections {
		if col.Name == "" || col.Source == "" || col.Destination == "" {
			return nil, fmt.Errorf("%s: %w", path, errCollectionField)
		}
	}
	return doc.Collections, nil
}
