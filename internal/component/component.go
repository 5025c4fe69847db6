// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package component builds reusable HTML components.

# Directory Layout

A component X lives in its own directory under the components root:

	components/
	  X/
	    X.html          Template, required.
	    X.build.star    Build hook, optional.
	    style.css       Stylesheet, optional.
	    script.js       Script, optional.
	  _layout.html      Shared layouts live directly in the root.

Sub-components, like a single FAQ entry, live in the directory of their
parent and are found through aliases.

# Hooks

A hook takes over building a component. Hooks are either Starlark scripts
placed beside the template, or Go implementations of [Hook] registered in a
[Registry]. A script must define

	def build(vars, resolve, substitute):
	    ...

and return the final HTML. Scripts are read again on every build.
*/
package component

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.astrophena.name/sitegen/internal/tmpl"
)

// ErrComponentNotFound is returned when no template exists for a component.
var ErrComponentNotFound = errors.New("component not found")

// ResolveFunc returns the raw template of a component.
type ResolveFunc func(name string) (string, error)

// SubstituteFunc replaces placeholders in a template.
type SubstituteFunc func(template string, vars tmpl.Vars) string

// Hook builds a component on its own. It receives the merged variables and
// the primitives to load and fill templates, and returns the final HTML.
type Hook interface {
	Build(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error)
}

// HookFunc adapts a function to [Hook].
type HookFunc func(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error)

// Build calls f.
func (f HookFunc) Build(vars tmpl.Vars, resolve ResolveFunc, substitute SubstituteFunc) (string, error) {
	return f(vars, resolve, substitute)
}

// Resolver finds component templates on disk.
type Resolver struct {
	// Root is the components directory.
	Root string
	// Aliases maps sub-component names to the parent component directory.
	Aliases map[string]string
}

// Candidates returns template paths for name in lookup order.
func (r *Resolver) Candidates(name string) []string {
	var paths []string
	if parent, ok := r.Aliases[name]; ok {
		paths = append(paths, filepath.Join(r.Root, parent, name+".html"))
	}
	return append(paths,
		filepath.Join(r.Root, name, name+".html"),
		filepath.Join(r.Root, name+".html"),
	)
}

// Resolve returns the template of the named component.
func (r *Resolver) Resolve(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%q: %w", name, ErrComponentNotFound)
	}
	for _, path := range r.Candidates(name) {
		b, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrComponentNotFound)
}

// Dir returns the directory of the named component.
func (r *Resolver) Dir(name string) string {
	return filepath.Join(r.Root, name)
}

// Builder builds components.
type Builder struct {
	// Resolver finds templates.
	Resolver *Resolver
	// Registry provides hooks. If nil, components are always built from their
	// templates.
	Registry *Registry
	// Globals are the variables every component sees. Component variables are
	// merged over them.
	Globals tmpl.Vars
}

// Build builds the named component with the given local variables.
func (b *Builder) Build(ctx context.Context, name string, local tmpl.Vars) (string, error) {
	vars := tmpl.Merge(b.Globals, local)

	if b.Registry != nil {
		hook, err := b.Registry.Lookup(ctx, name)
		if err != nil {
			return "", err
		}
		if hook != nil {
			html, err := hook.Build(vars, b.Resolver.Resolve, tmpl.Substitute)
			if err != nil {
				return "", fmt.Errorf("%s: hook failed: %w", name, err)
			}
			return html, nil
		}
	}

	template, err := b.Resolver.Resolve(name)
	if err != nil {
		return "", err
	}
	return tmpl.Substitute(template, vars), nil
}
