// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.astrophena.name/sitegen/internal/component"
	"go.astrophena.name/sitegen/internal/config"
	"go.astrophena.name/sitegen/internal/page"
	"go.astrophena.name/sitegen/internal/script"
	"go.astrophena.name/sitegen/internal/tmpl"

	"go.starlark.net/starlark"
)

// Script runs a Starlark generator script.
type Script struct {
	c        *config.Config
	path     string
	resolver *component.Resolver
}

// NewScript returns a generator that runs the script at path.
func NewScript(c *config.Config, path string, r *component.Resolver) *Script {
	return &Script{c: c, path: path, resolver: r}
}

// Name implements [Generator].
func (g *Script) Name() string {
	return strings.TrimSuffix(filepath.Base(g.path), component.ScriptExt)
}

// Generate implements [Generator].
func (g *Script) Generate(ctx context.Context) ([]string, error) {
	vars, err := script.ToValue(g.c.Vars)
	if err != nil {
		return nil, err
	}

	var written []string
	predeclared := script.Builtins(ctx, g.c.Root)
	predeclared["vars"] = vars
	predeclared["substitute"] = script.Substitute(tmpl.Substitute)
	predeclared["resolve"] = script.Resolve(g.resolver.Resolve)
	predeclared["write_page"] = starlark.NewBuiltin("write_page", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name string
			desc *starlark.Dict
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "page", &desc); err != nil {
			return nil, err
		}
		d, err := toDescriptor(desc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		path, err := write(g.c, name, d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		written = append(written, path)
		return starlark.String(path), nil
	})

	s, err := script.Load(ctx, g.path, predeclared)
	if err != nil {
		return nil, err
	}
	if _, err := s.Call("generate"); err != nil {
		return written, err
	}
	return written, nil
}

func toDescriptor(v starlark.Value) (*page.Descriptor, error) {
	goval, err := script.FromValue(v)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(goval)
	if err != nil {
		return nil, err
	}
	return page.ParseDescriptor(b)
}
