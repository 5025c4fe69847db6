// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package page assembles pages from components.

# Page Descriptor

Each page is described by a JSON file under the pages directory:

	{
	  "page": "about",
	  "title": "About us",
	  "description": "Who we are.",
	  "layout": "_layout",
	  "header_theme": "dark",
	  "content_file": "about.html",
	  "components": [
	    {"name": "hero", "vars": {"HERO_TITLE": "About"}}
	  ]
	}

See [Descriptor] for all available fields. The page body is taken from
"content", then "content_file", then a file beside the descriptor with the
same base name and an .html or .md extension. Markdown bodies are rendered to
HTML.

# Component Placement

A body can mark where a component goes with {{COMPONENT:name}}. Components
without a placeholder are put before the body.

# Layout Variables

Layouts get the flattened configuration plus PAGE_TITLE, PAGE_DESCRIPTION,
HEADER, CONTENT, FOOTER, HEADER_MODE, HEAD_EXTRA (stylesheet links) and
BODY_EXTRA (script tags).
*/
package page

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.astrophena.name/sitegen/internal/component"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/tmpl"

	"rsc.io/markdown"
)

// Assembler builds pages.
type Assembler struct {
	c       *config.Config
	builder *component.Builder
	md      *markdown.Parser
}

// NewAssembler returns an Assembler that builds components with b.
func NewAssembler(c *config.Config, b *component.Builder) *Assembler {
	return &Assembler{
		c:       c,
		builder: b,
		md: &markdown.Parser{
			HeadingID:     true,
			Strikethrough: true,
			TaskList:      true,
			AutoLinkText:  true,
			Table:         true,
			SmartDot:      true,
			SmartDash:     true,
			SmartQuote:    true,
		},
	}
}

// Build returns the final HTML of the page described by d.
func (a *Assembler) Build(ctx context.Context, d *Descriptor) (string, error) {
	layout, err := a.builder.Resolver.Resolve(d.Layout)
	if err != nil {
		return "", fmt.Errorf("layout: %w", err)
	}

	header, err := a.builder.Build(ctx, "header", tmpl.Vars{
		"HEADER_MODE":  d.HeaderTheme,
		"HEADER_THEME": d.HeaderTheme,
	})
	if err != nil {
		return "", fmt.Errorf("header: %w", err)
	}
	footer, err := a.builder.Build(ctx, "footer", nil)
	if err != nil {
		return "", fmt.Errorf("footer: %w", err)
	}

	var built tmpl.Fragments
	for _, ref := range d.Components {
		html, err := a.builder.Build(ctx, ref.Name, ref.Vars)
		if err != nil {
			return "", err
		}
		built.Set(ref.Name, html)
	}

	vars := tmpl.Merge(a.c.Vars, tmpl.Vars{
		"PAGE_TITLE":       a.orDefault(d.Title, "SITE_NAME"),
		"PAGE_DESCRIPTION": a.orDefault(d.Description, "SITE_DESCRIPTION"),
		"SITE_NAME":        a.c.Vars.Lookup("SITE_NAME", ""),
		"HEADER_MODE":      d.HeaderTheme,
	})

	body, err := a.body(d, vars)
	if err != nil {
		return "", err
	}

	assets := a.Assets(d)
	return tmpl.Substitute(layout, tmpl.Merge(vars, tmpl.Vars{
		"HEADER":     header,
		"CONTENT":    tmpl.PlaceComponents(body, &built),
		"FOOTER":     footer,
		"HEAD_EXTRA": assets.HeadExtra(),
		"BODY_EXTRA": assets.BodyExtra(),
	})), nil
}

func (a *Assembler) orDefault(s, key string) string {
	if s != "" {
		return s
	}
	return a.c.Vars.Lookup(key, "")
}

// body returns the page body with page variables filled in.
func (a *Assembler) body(d *Descriptor, vars tmpl.Vars) (string, error) {
	var (
		content string
		isMD    bool
	)
	switch {
	case d.Content != "":
		content = d.Content
	case d.ContentFile != "":
		path := filepath.Join(d.Dir(), d.ContentFile)
		b, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrContentMissing)
		} else if err != nil {
			return "", err
		}
		content, isMD = string(b), filepath.Ext(path) == ".md"
	case d.Path() != "":
		base := strings.TrimSuffix(d.Path(), filepath.Ext(d.Path()))
		for _, ext := range []string{".html", ".md"} {
			b, err := os.ReadFile(base + ext)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			} else if err != nil {
				return "", err
			}
			content, isMD = string(b), ext == ".md"
			break
		}
	}

	content = tmpl.Substitute(content, vars)
	if isMD {
		content = markdown.ToHTML(a.md.Parse(content))
	}
	return content, nil
}
