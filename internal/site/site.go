// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package site builds a static site from components and page descriptors.

# Directory Structure

A site has the following layout, relative to its configuration file:

	config.json       Site configuration, see package config.
	collections.json  Directories copied into the output, optional.
	components        Component templates, styles, scripts and hook scripts.
	pages             Page descriptors and their content.
	assets            Files copied verbatim to build/assets.
	build             This is where the generated site will be placed by
	                  default. It is removed and recreated on every build.

# Build Steps

A build copies assets, runs page generators, then builds every *.json
descriptor found under the pages directory into <output>/<page>.html. A page
that fails to build is logged and skipped, without leaving a partial file
behind. When the build section of the configuration enables the feed and
site.url is set, an Atom feed of all pages is written to feed.xml. The feed is
dated by the newest modification time of the configuration file and the
hand-written descriptors of built pages, so unchanged inputs give an unchanged
feed.
*/
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/assets"
	"go.astrophena.name/sitegen/internal/component"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/generator"
	"go.astrophena.name/sitegen/internal/page"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"
)

// Possible errors, used in tests.
var (
	// ErrNoPages is returned by Build when there are no page descriptors.
	ErrNoPages = errors.New("no pages found")

	errOutputDir = errors.New("output directory must not contain the site")
)

// Config represents a build configuration.
type Config struct {
	// ConfigFile is the site configuration file. If empty, uses config.json in
	// the current directory.
	ConfigFile string
	// Output overrides the output directory set in the site configuration.
	Output string
	// Minify turns on minification even if the site configuration doesn't.
	Minify bool
}

func (c *Config) setDefaults() {
	if c.ConfigFile == "" {
		c.ConfigFile = "config.json"
	}
}

// Result describes a finished build.
type Result struct {
	// Output is the output directory.
	Output string
	// Built lists names of successfully built pages.
	Built []string
	// Failed lists descriptor paths of pages that failed to build.
	Failed []string
	// Generated lists descriptor paths written by generators.
	Generated []string
}

// Build builds a site based on the provided [Config]. Configuration errors
// and I/O errors on the output directory abort the build, while errors in
// individual pages are only logged.
func Build(ctx context.Context, c *Config) (*Result, error) {
	start := time.Now()
	if c == nil {
		c = &Config{}
	}
	c.setDefaults()

	conf, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if c.Output != "" {
		conf.Build.Output = c.Output
	}
	if c.Minify {
		conf.Build.Minify = true
	}

	b := newBuildContext(ctx, c, conf)
	if err := b.cleanOutput(); err != nil {
		return nil, err
	}

	if err := assets.New(conf, b.min).Run(ctx); err != nil {
		return nil, fmt.Errorf("copying assets: %w", err)
	}

	gens, err := generator.All(conf, b.builder.Resolver)
	if err != nil {
		return nil, err
	}
	b.res.Generated = generator.Run(ctx, conf, gens)

	descs, err := discover(conf.PagesDir())
	if err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return nil, fmt.Errorf("%s: %w", conf.PagesDir(), ErrNoPages)
	}

	for _, path := range descs {
		if err := b.buildPage(ctx, path); err != nil {
			logger.Error(ctx, "failed to build page", slog.String("path", path), slog.Any("err", err))
			b.res.Failed = append(b.res.Failed, path)
		}
	}

	if conf.Build.Feed {
		if err := b.buildFeed(ctx); err != nil {
			return nil, fmt.Errorf("building feed: %w", err)
		}
	}

	logger.Info(ctx, "build finished",
		slog.String("output", b.res.Output),
		slog.Int("built", len(b.res.Built)),
		slog.Int("failed", len(b.res.Failed)),
		slog.Int("generated", len(b.res.Generated)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return b.res, nil
}

type buildContext struct {
	c         *Config
	conf      *config.Config
	min       *assets.Minifier
	builder   *component.Builder
	assembler *page.Assembler
	pages     []*builtPage
	res       *Result
}

type builtPage struct {
	d    *page.Descriptor
	html string
}

func newBuildContext(ctx context.Context, c *Config, conf *config.Config) *buildContext {
	reg := component.NewRegistry(conf.ComponentsDir(), conf.Root)
	component.RegisterDefaults(ctx, reg, conf.Root, conf.Catalog.Prefix)

	b := &buildContext{
		c:    c,
		conf: conf,
		builder: &component.Builder{
			Resolver: &component.Resolver{Root: conf.ComponentsDir(), Aliases: conf.Build.Aliases},
			Registry: reg,
			Globals:  conf.Vars,
		},
		res: &Result{Output: conf.OutputDir()},
	}
	if conf.Build.Minify {
		b.min = assets.NewMinifier()
	}
	b.assembler = page.NewAssembler(conf, b.builder)
	return b
}

// cleanOutput removes the output of a previous build.
func (b *buildContext) cleanOutput() error {
	out, err := filepath.Abs(b.conf.OutputDir())
	if err != nil {
		return err
	}
	root, err := filepath.Abs(b.conf.Root)
	if err != nil {
		return err
	}
	if rel, err := filepath.Rel(out, root); err == nil && (rel == "." || filepath.IsLocal(rel)) {
		return fmt.Errorf("%s: %w", out, errOutputDir)
	}
	if err := os.RemoveAll(out); err != nil {
		return err
	}
	return os.MkdirAll(out, 0o755)
}

// discover returns paths of page descriptors under dir in lexical order.
func discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return paths, err
}

func (b *buildContext) buildPage(ctx context.Context, path string) error {
	d, err := page.ReadDescriptor(path)
	if err != nil {
		return err
	}
	html, err := b.assembler.Build(ctx, d)
	if err != nil {
		return err
	}

	out, err := b.min.Bytes("text/html", []byte(html))
	if err != nil {
		return err
	}
	if err := assets.WriteFile(filepath.Join(b.conf.OutputDir(), d.Page+".html"), out); err != nil {
		return err
	}

	logger.Info(ctx, "built page", slog.String("page", d.Page))
	b.res.Built = append(b.res.Built, d.Page)
	b.pages = append(b.pages, &builtPage{d: d, html: html})
	return nil
}

func (b *buildContext) buildFeed(ctx context.Context) error {
	siteURL := strings.TrimSuffix(b.conf.Vars.Lookup("SITE_URL", ""), "/")
	if siteURL == "" {
		logger.Info(ctx, "skipping feed, site.url is not set")
		return nil
	}

	updated, err := b.updated()
	if err != nil {
		return err
	}
	feed := &feeds.Feed{
		Title:       b.conf.Vars.Lookup("SITE_NAME", ""),
		Description: b.conf.Vars.Lookup("SITE_DESCRIPTION", ""),
		Link:        &feeds.Link{Href: siteURL + "/"},
		Author:      &feeds.Author{Name: b.conf.Vars.Lookup("COMPANY_NAME", "")},
		Created:     updated,
	}

	for _, p := range b.pages {
		summary, err := summarize(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p.d.Path(), err)
		}
		title := p.d.Title
		if title == "" {
			title = p.d.Page
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       title,
			Link:        &feeds.Link{Href: siteURL + "/" + filepath.ToSlash(p.d.Page) + ".html"},
			Author:      feed.Author,
			Description: summary,
			Created:     feed.Created,
		})
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return err
	}
	return assets.WriteFile(filepath.Join(b.conf.OutputDir(), "feed.xml"), []byte(atom))
}

// updated returns the newest modification time of the configuration file and
// the descriptors of built pages. Generated descriptors are rewritten on every
// build and don't count.
func (b *buildContext) updated() (time.Time, error) {
	paths := []string{b.c.ConfigFile}
	for _, p := range b.pages {
		if !strings.HasPrefix(filepath.Base(p.d.Path()), generator.Prefix) {
			paths = append(paths, p.d.Path())
		}
	}
	var newest time.Time
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return time.Time{}, err
		}
		if mt := fi.ModTime(); mt.After(newest) {
			newest = mt
		}
	}
	return newest.UTC().Truncate(time.Second), nil
}

// summarize returns the page description, or the text of the first paragraph
// of the page if it has none.
func summarize(p *builtPage) (string, error) {
	if p.d.Description != "" {
		return p.d.Description, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Find("p").First().Text()), nil
}
