// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package assets copies static files into the output directory.

# Output Layout

The pipeline produces the following tree inside the output directory:

	assets/                     Copy of the site assets directory.
	assets/css/<comp>.css       style.css of each component.
	assets/js/<comp>.js         script.js of each component.
	assets/css/pages/<dir>.css  style.css of each page directory.
	assets/js/pages/<dir>.js    script.js of each page directory.
	<destination>/              Copy of each collection source.

Page directories starting with an underscore are published without it, so
pages/_product-detail/style.css becomes assets/css/pages/product-detail.css.
*/
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.astrophena.name/base/logger"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/page"

	"github.com/natefinch/atomic"
)

var errDestination = errors.New("collection destination must be inside the output directory")

// Pipeline copies assets of a site into its output directory.
type Pipeline struct {
	c     *config.Config
	min   *Minifier
	files int
}

// New returns a Pipeline for the site configured by c. CSS, JavaScript and
// JSON files are minified with m, unless it is nil.
func New(c *config.Config, m *Minifier) *Pipeline {
	return &Pipeline{c: c, min: m}
}

// Run copies all assets. A missing collection source is logged and skipped.
func (p *Pipeline) Run(ctx context.Context) error {
	out := p.c.OutputDir()
	p.files = 0

	if err := p.copyDir(p.c.AssetsDir(), filepath.Join(out, "assets")); errors.Is(err, fs.ErrNotExist) {
		logger.Info(ctx, "no assets directory", slog.String("dir", p.c.AssetsDir()))
	} else if err != nil {
		return err
	}

	if err := p.components(out); err != nil {
		return err
	}
	if err := p.pages(out); err != nil {
		return err
	}

	for _, col := range p.c.Collections {
		if err := p.collection(col, out); err != nil {
			logger.Info(ctx, "skipping collection", slog.String("collection", col.Name), slog.Any("err", err))
		}
	}

	logger.Info(ctx, "copied assets", slog.Int("files", p.files))
	return nil
}

func (p *Pipeline) components(out string) error {
	entries, err := os.ReadDir(p.c.ComponentsDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(p.c.ComponentsDir(), e.Name())
		if err := p.copyOptional(filepath.Join(dir, page.StyleFile), filepath.Join(out, "assets", "css", e.Name()+".css")); err != nil {
			return err
		}
		if err := p.copyOptional(filepath.Join(dir, page.ScriptFile), filepath.Join(out, "assets", "js", e.Name()+".js")); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) pages(out string) error {
	entries, err := os.ReadDir(p.c.PagesDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(p.c.PagesDir(), e.Name())
		name := page.PublishedName(e.Name())
		if err := p.copyOptional(filepath.Join(dir, page.StyleFile), filepath.Join(out, "assets", "css", "pages", name+".css")); err != nil {
			return err
		}
		if err := p.copyOptional(filepath.Join(dir, page.ScriptFile), filepath.Join(out, "assets", "js", "pages", name+".js")); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) collection(col config.Collection, out string) error {
	if !filepath.IsLocal(col.Destination) {
		return fmt.Errorf("%q: %w", col.Destination, errDestination)
	}
	src := p.c.Path(col.Source)
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: not a directory", src)
	}
	return p.copyDir(src, filepath.Join(out, col.Destination))
}

// copyOptional copies src to dst if src exists.
func (p *Pipeline) copyOptional(src, dst string) error {
	err := p.copyFile(src, dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (p *Pipeline) copyDir(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		if isIgnorable(path) {
			return nil
		}
		return p.copyFile(path, filepath.Join(dst, rel))
	})
}

func (p *Pipeline) copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	b, err = p.min.File(src, b)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if err := WriteFile(dst, b); err != nil {
		return err
	}
	p.files++
	return nil
}

// CopyDir copies the directory tree at src into dst, creating directories as
// needed and overwriting existing files.
func CopyDir(src, dst string) error {
	return (&Pipeline{}).copyDir(src, dst)
}

// WriteFile atomically writes b to path, creating parent directories. The
// file is readable by everyone.
func WriteFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return err
	}
	return os.Chmod(path, 0o644)
}

func isIgnorable(path string) bool {
	// Ignore files that look like Vim backups.
	if strings.HasSuffix(path, "~") {
		return true
	}
	base := filepath.Base(path)
	return base == ".gitignore" || base == ".DS_Store"
}
