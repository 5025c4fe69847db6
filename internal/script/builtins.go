// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.astrophena.name/sitegen/internal/catalog"
	"go.astrophena.name/sitegen/internal/tmpl"

	"go.starlark.net/starlark"
)

var errPathOutside = errors.New("path is outside of the site root")

// Builtins returns the filesystem and catalog builtins, with paths resolved
// against root.
func Builtins(ctx context.Context, root string) starlark.StringDict {
	fsys := &rootFS{root: root}
	return starlark.StringDict{
		"read_file": starlark.NewBuiltin("read_file", fsys.readFile),
		"exists":    starlark.NewBuiltin("exists", fsys.exists),
		"list_dir":  starlark.NewBuiltin("list_dir", fsys.listDir),
		"is_dir":    starlark.NewBuiltin("is_dir", fsys.isDir),
		"catalog": starlark.NewBuiltin("catalog", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var dir string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &dir); err != nil {
				return nil, err
			}
			path, err := fsys.path(dir)
			if err != nil {
				return nil, err
			}
			items, err := catalog.Load(ctx, path)
			if err != nil {
				return nil, err
			}
			list := make([]any, len(items))
			for i, it := range items {
				images := make([]any, len(it.Images))
				for j, img := range it.Images {
					images[j] = img
				}
				list[i] = map[string]any{
					"id":     it.ID,
					"meta":   map[string]any(it.Meta),
					"images": images,
				}
			}
			return ToValue(list)
		}),
		"carousel": starlark.NewBuiltin("carousel", carouselBuiltin),
	}
}

// Substitute returns a builtin that fills templates with substitute.
func Substitute(substitute func(template string, vars tmpl.Vars) string) *starlark.Builtin {
	return starlark.NewBuiltin("substitute", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			template string
			dict     *starlark.Dict
		)
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &template, &dict); err != nil {
			return nil, err
		}
		vars, err := Vars(dict)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return starlark.String(substitute(template, vars)), nil
	})
}

// Resolve returns a builtin that loads component templates with resolve.
func Resolve(resolve func(name string) (string, error)) *starlark.Builtin {
	return starlark.NewBuiltin("resolve", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		s, err := resolve(name)
		if err != nil {
			return nil, err
		}
		return starlark.String(s), nil
	})
}

func carouselBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		target, alt string
		images      *starlark.List
		imageClass  = "d-block w-100"
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"target", &target,
		"alt", &alt,
		"images", &images,
		"image_class?", &imageClass,
	); err != nil {
		return nil, err
	}
	c := &catalog.Carousel{Target: target, Alt: alt, ImageClass: imageClass}
	for i := range images.Len() {
		s, ok := starlark.AsString(images.Index(i))
		if !ok {
			return nil, fmt.Errorf("%s: image %d is not a string", b.Name(), i)
		}
		c.Images = append(c.Images, s)
	}
	return ToValue(map[string]any{
		"slides":     c.Slides(),
		"controls":   c.Controls(),
		"thumbnails": c.Thumbnails(),
	})
}

type rootFS struct {
	root string
}

func (r *rootFS) path(rel string) (string, error) {
	if !filepath.IsLocal(rel) && rel != "." {
		return "", fmt.Errorf("%q: %w", rel, errPathOutside)
	}
	return filepath.Join(r.root, rel), nil
}

func (r *rootFS) unpackPath(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (string, error) {
	var rel string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &rel); err != nil {
		return "", err
	}
	return r.path(rel)
}

func (r *rootFS) readFile(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path, err := r.unpackPath(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return starlark.String(content), nil
}

func (r *rootFS) exists(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path, err := r.unpackPath(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return starlark.False, nil
	} else if err != nil {
		return nil, err
	}
	return starlark.True, nil
}

func (r *rootFS) isDir(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path, err := r.unpackPath(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return starlark.False, nil
	} else if err != nil {
		return nil, err
	}
	return starlark.Bool(fi.IsDir()), nil
}

func (r *rootFS) listDir(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path, err := r.unpackPath(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return ToValue(names)
}
