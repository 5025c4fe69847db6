// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package generator writes page descriptors before pages are discovered.

Generated descriptors are placed in the _generators directory inside the pages
directory and are named _generated-<page>.json. Descriptors left over from a
previous build are removed first.

# Catalog Generator

The catalog generator writes a detail page for every item of the catalog
collection. The detail template gets the following variables:

	CAROUSEL_SLIDES      Carousel slides, one per image.
	CAROUSEL_CONTROLS    Carousel buttons and indicators.
	PRODUCT_NAME         Item name.
	PRODUCT_PRICE        Item price.
	PRODUCT_DESCRIPTION  Item description.
	PRODUCT_DETAILS      Item details, the description by default.
	THUMBNAIL_IMAGES     Thumbnails, one per image.

# Script Generators

Every *.build.star file in the _generators directory must define a generate
function. Besides the builtins of the script package, it can use:

	vars                       Flattened site configuration.
	substitute(template, vars) Fills a template.
	resolve(name)              Returns a component template.
	write_page(name, page)     Writes a page descriptor given as a dict.
*/
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/assets"
	"go.astrophena.name/sitegen/internal/component"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/page"
)

// Prefix starts the file name of every generated descriptor.
const Prefix = "_generated-"

var errFileName = errors.New("invalid generated page name")

// Generator writes page descriptors.
type Generator interface {
	// Name identifies the generator in logs.
	Name() string
	// Generate writes descriptors and returns their paths.
	Generate(ctx context.Context) ([]string, error)
}

// All returns the catalog generator followed by script generators found in
// the _generators directory, sorted by file name.
func All(c *config.Config, r *component.Resolver) ([]Generator, error) {
	gens := []Generator{NewCatalog(c)}
	matches, err := filepath.Glob(filepath.Join(Dir(c), "*"+component.ScriptExt))
	if err != nil {
		return nil, err
	}
	for _, path := range matches {
		gens = append(gens, NewScript(c, path, r))
	}
	return gens, nil
}

// Dir returns the directory generated descriptors are written to.
func Dir(c *config.Config) string {
	return filepath.Join(c.PagesDir(), page.GeneratorsDir)
}

// Run removes stale generated descriptors and runs gens in order. A failing
// generator is logged and doesn't stop the others. It returns the paths of
// all written descriptors.
func Run(ctx context.Context, c *config.Config, gens []Generator) []string {
	if err := clean(Dir(c)); err != nil {
		logger.Error(ctx, "failed to remove generated pages", slog.Any("err", err))
	}

	var written []string
	for _, g := range gens {
		paths, err := g.Generate(ctx)
		written = append(written, paths...)
		if err != nil {
			logger.Error(ctx, "generator failed", slog.String("generator", g.Name()), slog.Any("err", err))
			continue
		}
		logger.Info(ctx, "generated pages", slog.String("generator", g.Name()), slog.Int("pages", len(paths)))
	}
	return written
}

func clean(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), Prefix) || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// write validates d and writes it as the generated descriptor of the named
// page.
func write(c *config.Config, name string, d *page.Descriptor) (string, error) {
	if name == "" || !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", errFileName, name)
	}
	if d.Page == "" {
		d.Page = name
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	// Round-trip to apply the same validation as descriptors read from disk.
	if _, err := page.ParseDescriptor(b); err != nil {
		return "", err
	}
	path := filepath.Join(Dir(c), Prefix+name+".json")
	if err := assets.WriteFile(path, append(b, '\n')); err != nil {
		return "", err
	}
	return path, nil
}
