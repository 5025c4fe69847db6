// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package script runs Starlark build scripts.

Scripts customize how components are built and generate additional pages.
Every call to [Load] reads and executes the script file anew, so edits to a
script take effect on the next build without restarting anything.

# Builtins

Besides the json module, scripts can use:

	read_file(path)                Returns file contents as a string.
	exists(path)                   Reports whether the path exists.
	list_dir(path)                 Returns sorted names of directory entries.
	is_dir(path)                   Reports whether the path is a directory.
	catalog(dir)                   Returns catalog items as a list of dicts
	                               with "id", "meta" and "images" keys.
	carousel(target, alt, images)  Returns a dict with "slides", "controls"
	                               and "thumbnails" markup.

Paths are relative to the site root and must stay inside it.
*/
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.astrophena.name/base/logger"

	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ErrNoFunction is returned by [Script.Call] when the script doesn't define the
// requested function.
var ErrNoFunction = errors.New("function is not defined")

// Script is a loaded Starlark script.
type Script struct {
	path    string
	thread  *starlark.Thread
	globals starlark.StringDict
}

// Load reads the script at path and executes its top level. predeclared is
// merged over the default builtins.
func Load(ctx context.Context, path string, predeclared starlark.StringDict) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	thread := &starlark.Thread{
		Name: path,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Info(ctx, msg, slog.String("script", path))
		},
	}

	env := starlark.StringDict{
		"json": starlarkjson.Module,
	}
	for k, v := range predeclared {
		env[k] = v
	}

	globals, err := starlark.ExecFileOptions(
		&syntax.FileOptions{
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
		},
		thread,
		path,
		src,
		env,
	)
	if err != nil {
		return nil, scriptErr(path, err)
	}
	return &Script{path: path, thread: thread, globals: globals}, nil
}

// Path returns the script file path.
func (s *Script) Path() string { return s.path }

// Has reports whether the script defines a callable with the given name.
func (s *Script) Has(name string) bool {
	_, ok := s.globals[name].(starlark.Callable)
	return ok
}

// Call calls the named function with args converted by [ToValue] and returns
// the result converted by [FromValue].
func (s *Script) Call(name string, args ...any) (any, error) {
	fn, ok := s.globals[name].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", s.path, name, ErrNoFunction)
	}
	sargs := make(starlark.Tuple, len(args))
	for i, a := range args {
		v, err := ToValue(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: argument %d: %w", s.path, name, i, err)
		}
		sargs[i] = v
	}
	res, err := starlark.Call(s.thread, fn, sargs, nil)
	if err != nil {
		return nil, scriptErr(s.path, err)
	}
	out, err := FromValue(res)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: result: %w", s.path, name, err)
	}
	return out, nil
}

func scriptErr(path string, err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return fmt.Errorf("%s: %s", path, evalErr.Backtrace())
	}
	return fmt.Errorf("%s: %w", path, err)
}
