// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package catalog reads catalog items and renders their image carousels.
//
// A catalog is a directory with one folder per item. Each folder holds a
// product.json file and one or more images:
//
//	products/
//	  lamp/
//	    product.json
//	    1.jpg
//	    2.jpg
package catalog

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/tmpl"
)

// MetadataFile is the name of the item metadata file.
const MetadataFile = "product.json"

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Item is a single catalog item.
type Item struct {
	// ID is the name of the item folder.
	ID string
	// Meta is the decoded metadata file.
	Meta tmpl.Vars
	// Images are file names of item images, sorted.
	Images []string
}

// Name returns the item name, or def if it isn't set.
func (it *Item) Name(def string) string { return it.Meta.Lookup("name", def) }

// Field returns a metadata field, or def if it isn't set.
func (it *Item) Field(key, def string) string { return it.Meta.Lookup(key, def) }

// ImageURLs returns image paths relative to the site root, given the URL
// prefix the catalog is published under.
func (it *Item) ImageURLs(prefix string) []string {
	urls := make([]string, len(it.Images))
	for i, img := range it.Images {
		urls[i] = path.Join(prefix, it.ID, img)
	}
	return urls
}

// Load reads all items in dir. Folders without metadata, with malformed
// metadata or without images are skipped and logged. It returns an error only
// if dir itself can't be read.
func Load(ctx context.Context, dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var items []*Item
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		it, err := loadItem(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Info(ctx, "skipping catalog item", slog.String("item", e.Name()), slog.Any("err", err))
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func loadItem(dir string) (*Item, error) {
	b, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	var meta map[string]any
	if err := tmpl.Decode(b, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", MetadataFile, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	it := &Item{ID: filepath.Base(dir), Meta: tmpl.Vars(meta)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(imageExts, strings.ToLower(filepath.Ext(e.Name()))) {
			it.Images = append(it.Images, e.Name())
		}
	}
	if len(it.Images) == 0 {
		return nil, fmt.Errorf("no images found")
	}
	slices.Sort(it.Images)
	return it, nil
}

// Carousel renders Bootstrap carousel markup for a set of images.
type Carousel struct {
	// Target is the ID of the carousel element, without '#'.
	Target string
	// Alt is the alternative text of every image.
	Alt string
	// ImageClass is the class attribute of every slide image.
	ImageClass string
	// Images are image URLs.
	Images []string
	// Indent is prepended to every emitted line.
	Indent string
}

// Slides returns one slide per image. The first slide is active.
func (c *Carousel) Slides() string {
	var sb strings.Builder
	for i, img := range c.Images {
		active := ""
		if i == 0 {
			active = "active"
		}
		fmt.Fprintf(&sb, "\n%s<div class=\"carousel-item %s\">", c.Indent, active)
		fmt.Fprintf(&sb, "\n%s  <img src=\"%s\" class=\"%s\" alt=\"%s\">",
			c.Indent, html.EscapeString(img), c.ImageClass, html.EscapeString(c.Alt))
		fmt.Fprintf(&sb, "\n%s</div>", c.Indent)
	}
	return sb.String()
}

// Controls returns previous/next buttons and one indicator per image. It
// returns an empty string when there is at most one image.
func (c *Carousel) Controls() string {
	if len(c.Images) < 2 {
		return ""
	}
	var sb strings.Builder
	for _, dir := range []struct{ slide, label string }{
		{"prev", "Previous"},
		{"next", "Next"},
	} {
		fmt.Fprintf(&sb, "\n%s<button class=\"carousel-control-%s\" type=\"button\" data-bs-target=\"#%s\" data-bs-slide=\"%s\">",
			c.Indent, dir.slide, c.Target, dir.slide)
		fmt.Fprintf(&sb, "\n%s  <span class=\"carousel-control-%s-icon\" aria-hidden=\"true\"></span>", c.Indent, dir.slide)
		fmt.Fprintf(&sb, "\n%s  <span class=\"visually-hidden\">%s</span>", c.Indent, dir.label)
		fmt.Fprintf(&sb, "\n%s</button>", c.Indent)
	}
	fmt.Fprintf(&sb, "\n%s<div class=\"carousel-indicators\">\n%s  ", c.Indent, c.Indent)
	for i := range c.Images {
		active := ""
		if i == 0 {
			active = ` class="active" aria-current="true"`
		}
		fmt.Fprintf(&sb, `<button type="button" data-bs-target="#%s" data-bs-slide-to="%d"%s></button>`, c.Target, i, active)
	}
	fmt.Fprintf(&sb, "\n%s</div>", c.Indent)
	return sb.String()
}

// Thumbnails returns a clickable thumbnail per image. It returns an empty
// string when there is at most one image.
func (c *Carousel) Thumbnails() string {
	if len(c.Images) < 2 {
		return ""
	}
	var sb strings.Builder
	for i, img := range c.Images {
		fmt.Fprintf(&sb, "\n%s<img src=\"%s\" alt=\"%s\" class=\"thumbnail-image\" data-bs-target=\"#%s\" data-bs-slide-to=\"%d\">",
			c.Indent, html.EscapeString(img), html.EscapeString(c.Alt), c.Target, i)
	}
	return sb.String()
}
