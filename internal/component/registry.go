// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package component

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.astrophena.name/sitegen/internal/script"
	"go.astrophena.name/sitegen/internal/tmpl"
)

// ScriptExt is the extension of hook scripts.
const ScriptExt = ".build.star"

// Registry maps component names to hooks.
//
// A hook script beside the component template always wins over a registered
// Go hook. Lookups check the filesystem every time and scripts are loaded
// anew on every build, so no stale hook is ever reused.
type Registry struct {
	root     string
	siteRoot string
	hooks    map[string]Hook
}

// NewRegistry returns an empty registry for the components directory root.
// Scripts resolve file paths against siteRoot.
func NewRegistry(root, siteRoot string) *Registry {
	return &Registry{
		root:     root,
		siteRoot: siteRoot,
		hooks:    make(map[string]Hook),
	}
}

// Register registers a Go hook for the named component.
func (r *Registry) Register(name string, h Hook) {
	r.hooks[name] = h
}

// ScriptPath returns where the hook script of the named component would be.
func (r *Registry) ScriptPath(name string) string {
	return filepath.Join(r.root, name, name+ScriptExt)
}

// Lookup returns the hook for the named component, or nil if the component
// has none.
func (r *Registry) Lookup(ctx context.Context, name string) (Hook, error) {
	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrComponentNotFound)
	}
	path := r.ScriptPath(name)
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return &scriptHook{ctx: ctx, path: path, siteRoot: r.siteRoot}, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	return r.hooks[name], nil
}

type scriptHook struct {
	ctx      context.Context
	path     string
	siteRoot string
}

func (h *scriptHook) Build(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error) {
	s, err := script.Load(h.ctx, h.path, script.Builtins(h.ctx, h.siteRoot))
	if err != nil {
		return "", err
	}
	res, err := s.Call("build", vars, script.Resolve(resolve), script.Substitute(substitute))
	if err != nil {
		return "", err
	}
	html, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("%s: build must return a string, got %T", h.path, res)
	}
	return html, nil
}
