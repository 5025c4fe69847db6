// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package page

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Conventional asset file names inside component and page directories.
const (
	StyleFile  = "style.css"
	ScriptFile = "script.js"
)

// Reserved directories inside the pages directory.
const (
	GeneratorsDir   = "_generators"
	DetailAssetsDir = "_product-detail"
)

// Assets lists the stylesheets and scripts a page links to, as paths relative
// to the site root.
type Assets struct {
	CSS []string
	JS  []string
}

// HeadExtra returns link tags for the stylesheets.
func (a Assets) HeadExtra() string {
	lines := make([]string, len(a.CSS))
	for i, css := range a.CSS {
		lines[i] = fmt.Sprintf(`  <link href="%s" rel="stylesheet">`, css)
	}
	return strings.Join(lines, "\n")
}

// BodyExtra returns script tags for the scripts.
func (a Assets) BodyExtra() string {
	lines := make([]string, len(a.JS))
	for i, js := range a.JS {
		lines[i] = fmt.Sprintf(`  <script src="%s"></script>`, js)
	}
	return strings.Join(lines, "\n")
}

// Candidate is a directory that may hold page-specific assets.
type Candidate struct {
	// Dir is the directory to look in.
	Dir string
	// Name is the base name the assets are published under.
	Name string
}

// Candidates returns the directories that may hold assets of the named page,
// in order of preference: the page's own directory, the generators directory
// and, for catalog detail pages, the shared detail directory.
func Candidates(pagesDir, page, detailPrefix string) []Candidate {
	cands := []Candidate{
		{Dir: filepath.Join(pagesDir, page), Name: page},
		{Dir: filepath.Join(pagesDir, GeneratorsDir), Name: PublishedName(GeneratorsDir)},
	}
	if detailPrefix != "" && strings.HasPrefix(page, detailPrefix) {
		cands = append(cands, Candidate{Dir: filepath.Join(pagesDir, DetailAssetsDir), Name: PublishedName(DetailAssetsDir)})
	}
	return cands
}

// FirstWith returns the first candidate that contains file.
func FirstWith(cands []Candidate, file string) (Candidate, bool) {
	for _, c := range cands {
		if fileExists(filepath.Join(c.Dir, file)) {
			return c, true
		}
	}
	return Candidate{}, false
}

// PublishedName returns the name assets of a page directory are published
// under.
func PublishedName(dir string) string {
	return strings.TrimPrefix(dir, "_")
}

// Assets returns the stylesheets and scripts of the page described by d.
func (a *Assembler) Assets(d *Descriptor) Assets {
	var as Assets
	as.CSS = []string{
		"assets/css/global.css",
		"assets/css/header.css",
		"assets/css/footer.css",
	}
	as.JS = []string{
		"assets/js/main.js",
		"assets/js/header.js",
	}

	seenCSS := map[string]bool{"header": true, "footer": true}
	seenJS := map[string]bool{"header": true}
	for _, ref := range d.Components {
		dir := a.builder.Resolver.Dir(ref.Name)
		if !seenCSS[ref.Name] && fileExists(filepath.Join(dir, StyleFile)) {
			as.CSS = append(as.CSS, path.Join("assets", "css", ref.Name+".css"))
			seenCSS[ref.Name] = true
		}
		if !seenJS[ref.Name] && fileExists(filepath.Join(dir, ScriptFile)) {
			as.JS = append(as.JS, path.Join("assets", "js", ref.Name+".js"))
			seenJS[ref.Name] = true
		}
	}

	cands := Candidates(a.c.PagesDir(), d.Page, a.c.Catalog.Prefix)
	if c, ok := FirstWith(cands, StyleFile); ok {
		as.CSS = append(as.CSS, path.Join("assets", "css", "pages", c.Name+".css"))
	}
	if c, ok := FirstWith(cands, ScriptFile); ok {
		as.JS = append(as.JS, path.Join("assets", "js", "pages", c.Name+".js"))
	}
	return as
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
