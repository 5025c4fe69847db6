// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package generator

import (
	"context"
	"errors"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/catalog"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/page"
	"go.astrophena.name/sitegen/internal/tmpl"
)

// CarouselTarget is the element ID of the carousel on detail pages.
const CarouselTarget = "productCarousel"

// Catalog generates a detail page for every catalog item.
type Catalog struct {
	c *config.Config
}

// NewCatalog returns the catalog generator of the site configured by c.
func NewCatalog(c *config.Config) *Catalog { return &Catalog{c: c} }

// Name implements [Generator].
func (g *Catalog) Name() string { return "catalog" }

// Generate implements [Generator]. A missing collection, catalog directory
// or template is logged and nothing is generated. Items that fail to write are
// logged and skipped.
func (g *Catalog) Generate(ctx context.Context) ([]string, error) {
	col, ok := g.c.Collection(g.c.Catalog.Collection)
	if !ok {
		logger.Info(ctx, "no catalog collection", slog.String("collection", g.c.Catalog.Collection))
		return nil, nil
	}

	tplPath := filepath.Join(g.c.PagesDir(), g.c.Catalog.Template)
	b, err := os.ReadFile(tplPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info(ctx, "no catalog template", slog.String("path", tplPath))
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	template := string(b)

	items, err := catalog.Load(ctx, g.c.Path(col.Source))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info(ctx, "no catalog directory", slog.String("dir", col.Source))
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var written []string
	for _, it := range items {
		d := g.descriptor(it, template, filepath.ToSlash(col.Destination))
		path, err := write(g.c, d.Page, d)
		if err != nil {
			logger.Error(ctx, "failed to write catalog page", slog.String("item", it.ID), slog.Any("err", err))
			continue
		}
		written = append(written, path)
	}
	return written, nil
}

func (g *Catalog) descriptor(it *catalog.Item, template, urlPrefix string) *page.Descriptor {
	c := &catalog.Carousel{
		Target:     CarouselTarget,
		Alt:        it.Name("Product"),
		ImageClass: "d-block w-100",
		Images:     it.ImageURLs(urlPrefix),
		Indent:     "            ",
	}
	description := it.Field("description", "")
	content := tmpl.Substitute(template, tmpl.Vars{
		"CAROUSEL_SLIDES":     c.Slides(),
		"CAROUSEL_CONTROLS":   c.Controls(),
		"PRODUCT_NAME":        html.EscapeString(it.Name("Untitled Product")),
		"PRODUCT_PRICE":       html.EscapeString(it.Field("price", "Price not available")),
		"PRODUCT_DESCRIPTION": html.EscapeString(it.Field("description", "No description available")),
		"PRODUCT_DETAILS":     it.Field("details", it.Field("description", "No additional details available")),
		"THUMBNAIL_IMAGES":    c.Thumbnails(),
	})

	d := &page.Descriptor{
		Page:        g.c.Catalog.Prefix + it.ID,
		Title:       it.Name("Product"),
		Description: description,
		Layout:      page.DefaultLayout,
		HeaderTheme: "dark",
		Content:     content,
	}
	for _, name := range g.c.Catalog.Components {
		d.Components = append(d.Components, page.ComponentRef{Name: name})
	}
	return d
}
